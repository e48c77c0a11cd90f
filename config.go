package main

import (
	"bytes"
	"os"

	"github.com/golang/glog"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/lrm"
)

// Config is the TE inventory loaded at startup.
//
//	[[node]]
//	router_id = "10.0.0.1"
//	tnas = ["192.168.1.0/24"]
//
//	[[node.link]]
//	local = "10.1.1.1"
//	attrs = { link_type = 1, link_id = "10.0.0.2", metric = 10 }
type Config struct {
	Nodes []NodeConfig `toml:"node"`
}

type NodeConfig struct {
	RouterID string       `toml:"router_id"`
	NodeID   string       `toml:"node_id,omitempty"`
	TNAs     []string     `toml:"tnas,omitempty"`
	Links    []LinkConfig `toml:"link,omitempty"`
}

// LinkConfig declares a TE link. Attrs uses the same keys as the attrs field
// of the TE service messages.
type LinkConfig struct {
	Local string                 `toml:"local"`
	Attrs map[string]interface{} `toml:"attrs,omitempty"`
}

func parseConfig(raw []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}

func loadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	return parseConfig(raw)
}

// Apply adds every node, TNA and link of the inventory to the table.
func (c *Config) Apply(t *lrm.Table) error {
	for i, n := range c.Nodes {
		routerID, err := addr.Parse(n.RouterID)
		if err != nil {
			return errors.Wrapf(err, "node %d", i)
		}
		var nodeID addr.Addr
		if n.NodeID != "" {
			if nodeID, err = addr.Parse(n.NodeID); err != nil {
				return errors.Wrapf(err, "node %s", n.RouterID)
			}
		}
		if err := t.AddNode(routerID, nodeID); err != nil {
			return errors.Wrapf(err, "node %s", n.RouterID)
		}
		for _, s := range n.TNAs {
			tna, err := addr.Parse(s)
			if err != nil {
				return errors.Wrapf(err, "node %s", n.RouterID)
			}
			if err := t.AddTNA(routerID, tna); err != nil {
				return errors.Wrapf(err, "node %s", n.RouterID)
			}
		}
		for _, l := range n.Links {
			if err := l.apply(t, routerID); err != nil {
				return errors.Wrapf(err, "node %s link %s", n.RouterID, l.Local)
			}
		}
		glog.Infof("Loaded node %s with %d links", n.RouterID, len(n.Links))
	}
	return nil
}

func (l LinkConfig) apply(t *lrm.Table, routerID addr.Addr) error {
	local, err := addr.Parse(l.Local)
	if err != nil {
		return err
	}
	s, err := structpb.NewStruct(l.Attrs)
	if err != nil {
		return err
	}
	attrs, err := lrm.LinkAttrsFromStruct(s)
	if err != nil {
		return err
	}
	return t.AddTELink(lrm.NewLinkKey(routerID, local), attrs)
}
