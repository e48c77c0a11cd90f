package lrm

import (
	"github.com/golang/glog"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/resource"
)

// Resources and calls registered by peers are node-local state. They are
// checked against the node's TNAs and links but never advertised.

func invalidResource(err error) error {
	var field string
	if v, ok := err.(resource.ValidationError); ok {
		field = v.Field
	}
	if field == "" {
		return newError(Invalid, "%v", err)
	}
	return newError(Invalid, "%s: %v", field, err)
}

func (n *node) servesTNA(tna addr.Addr) bool {
	for _, x := range n.attrs.TNAs {
		if x.Equal(tna) {
			return true
		}
	}
	return false
}

// UpdateResource merges a descriptor into the node's registered resource. The
// merged resource must validate, its TNA must be served by the node and its
// data link must be one of the node's TE links. On error the registered
// resource is unchanged.
func (t *Table) UpdateResource(routerID addr.Addr, d resource.Descriptor) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.updateResource(routerID, d))
}

func (t *Table) updateResource(routerID addr.Addr, d resource.Descriptor) error {
	n, err := t.getNode(routerID)
	if err != nil {
		return err
	}
	if (d.Net == nil || d.Net.Mask == 0) && (d.Grid == nil || d.Grid.Mask == 0) {
		return newError(Invalid, "node %s: no resource declared", routerID)
	}
	res := n.res.Clone()
	if err := res.MergeValid(d); err != nil {
		return invalidResource(err)
	}
	if net := res.Net; net != nil {
		if net.Has(resource.NetResTNA) && !n.servesTNA(net.TNA) {
			return newError(Invalid, "node %s does not serve TNA %s", routerID, net.TNA)
		}
		if net.Has(resource.NetResDataLink) {
			if _, ok := n.links[canonical(net.DataLink)]; !ok {
				return newError(NotFound, "node %s has no TE link %s", routerID, net.DataLink)
			}
		}
	}
	n.res = res
	glog.V(2).Infof("Node %s resource updated: net %v", routerID, res.Net)
	return nil
}

// Resource returns a copy of the node's registered resource.
func (t *Table) Resource(routerID addr.Addr) (resource.Descriptor, error) {
	t.Lock()
	defer t.Unlock()
	n, err := t.getNode(routerID)
	if err != nil {
		return resource.Descriptor{}, t.done(err)
	}
	return n.res.Clone(), nil
}

// UpdateCall merges call attributes into the call with the same identity,
// creating it if needed. The result must validate for the adjacency role and
// a declared source TNA must be served by the node.
func (t *Table) UpdateCall(routerID addr.Addr, role resource.Role, info resource.CallInfo) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.updateCall(routerID, role, info))
}

func (t *Table) updateCall(routerID addr.Addr, role resource.Role, info resource.CallInfo) error {
	n, err := t.getNode(routerID)
	if err != nil {
		return err
	}
	if !info.Has(resource.CallIdentBit) {
		return newError(Invalid, "call identity not declared")
	}
	i := 0
	for ; i < len(n.calls); i++ {
		if n.calls[i].Ident.Equal(info.Ident) {
			break
		}
	}
	var call resource.CallInfo
	if i < len(n.calls) {
		call = n.calls[i]
	}
	if err := call.MergeValid(info, role); err != nil {
		return invalidResource(err)
	}
	if call.Has(resource.CallSrcTNA) && !n.servesTNA(call.SrcTNA) {
		return newError(Invalid, "node %s does not serve source TNA %s", routerID, call.SrcTNA)
	}
	if i == len(n.calls) {
		n.calls = append(n.calls, call)
		glog.V(2).Infof("Node %s: new %s call %s", routerID, role, call.Ident)
		return nil
	}
	n.calls[i] = call
	return nil
}

// Calls returns the calls registered on the node.
func (t *Table) Calls(routerID addr.Addr) ([]resource.CallInfo, error) {
	t.Lock()
	defer t.Unlock()
	n, err := t.getNode(routerID)
	if err != nil {
		return nil, t.done(err)
	}
	return append([]resource.CallInfo(nil), n.calls...), nil
}
