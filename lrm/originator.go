package lrm

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/mayuresh82/go-gmpls-te/advert"
)

type Kind string

const (
	KindNode Kind = "node"
	KindLink Kind = "link"
)

// Advertisement is a decision on its way to the link-state engine.
type Advertisement struct {
	Kind     Kind
	Key      string
	Decision advert.Decision
}

func (a Advertisement) String() string {
	return fmt.Sprintf("%s %s: %s", a.Kind, a.Key, a.Decision)
}

// Originator is the link-state engine that turns decisions into opaque LSAs.
// It is called with the table lock held and must not call back into the
// table.
type Originator interface {
	Originate(Advertisement) error
	Refresh(Advertisement) error
	Flush(Advertisement) error
}

// LogOriginator only logs what it is asked to do.
type LogOriginator struct{}

func (LogOriginator) Originate(ad Advertisement) error {
	glog.Infof("Originating %s: % x", ad, ad.Decision.Payload)
	return nil
}

func (LogOriginator) Refresh(ad Advertisement) error {
	glog.Infof("Refreshing %s", ad)
	if r := ad.Decision.Removed; !r.Empty() {
		glog.V(2).Infof("%s %s withdrew srlgs %v, %d calendar events, %d iscs",
			ad.Kind, ad.Key, r.SRLGs, len(r.Calendar), len(r.ISCs))
	}
	return nil
}

func (LogOriginator) Flush(ad Advertisement) error {
	glog.Infof("Flushing %s", ad)
	return nil
}
