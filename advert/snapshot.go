package advert

import "github.com/mayuresh82/go-gmpls-te/telink"

// LinkSnapshot adapts link attributes to a Snapshot.
type LinkSnapshot struct {
	telink.LinkAttrs
}

func Link(a telink.LinkAttrs) LinkSnapshot {
	return LinkSnapshot{a.Clone()}
}

func (l LinkSnapshot) Equal(o Snapshot) bool {
	other, ok := o.(LinkSnapshot)
	return ok && l.LinkAttrs.Equal(other.LinkAttrs)
}

// NodeSnapshot adapts node attributes to a Snapshot.
type NodeSnapshot struct {
	telink.NodeAttrs
}

func Node(n telink.NodeAttrs) NodeSnapshot {
	return NodeSnapshot{n.Clone()}
}

func (n NodeSnapshot) Equal(o Snapshot) bool {
	other, ok := o.(NodeSnapshot)
	return ok && n.NodeAttrs.Equal(other.NodeAttrs)
}
