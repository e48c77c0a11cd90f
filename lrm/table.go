// Package lrm is the link resource manager: the authoritative table of TE
// nodes and links of this router. Every change goes through the attribute
// merge, is classified by an advertisement machine and the resulting decision
// is handed to the link-state engine, all under one table lock.
package lrm

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/advert"
	"github.com/mayuresh82/go-gmpls-te/resource"
	"github.com/mayuresh82/go-gmpls-te/telink"
)

// LinkKey identifies a TE link by its owning node and its local identifier,
// a numbered interface address or an unnumbered id.
type LinkKey struct {
	Node  addr.Addr
	Local addr.Addr
}

func NewLinkKey(node, local addr.Addr) LinkKey {
	return LinkKey{Node: canonical(node), Local: canonical(local)}
}

func (k LinkKey) String() string {
	return fmt.Sprintf("%s %s", k.Node, k.Local)
}

// canonical drops the prefix length so that keys compare on the address only.
func canonical(a addr.Addr) addr.Addr {
	c, err := addr.Make(a.Type(), a.Bytes())
	if err != nil {
		return a
	}
	return c
}

type link struct {
	key     LinkKey
	attrs   telink.LinkAttrs
	cal     *calendar
	machine *advert.Machine
}

type node struct {
	attrs   telink.NodeAttrs
	machine *advert.Machine
	links   map[addr.Addr]*link

	// resources registered by peers, kept local to the node
	res   resource.Descriptor
	calls []resource.CallInfo
}

// LinkInfo is a copy of a link's state.
type LinkInfo struct {
	Key   LinkKey
	Attrs telink.LinkAttrs
	State advert.State
}

// NodeInfo is a copy of a node's state.
type NodeInfo struct {
	Attrs telink.NodeAttrs
	State advert.State
	Links int
}

// Table holds the TE state of every node and link. All operations take the
// table lock for their whole lookup, merge, decide and hand-off sequence.
type Table struct {
	// map of router id -> node
	nodes   map[addr.Addr]*node
	orig    Originator
	metrics *Metrics

	// mutex for concurrent r/w access
	sync.Mutex
}

// NewTable returns an empty table. A nil orig logs decisions only; nil
// metrics are kept in a private registry.
func NewTable(orig Originator, m *Metrics) *Table {
	if orig == nil {
		orig = LogOriginator{}
	}
	if m == nil {
		m = NewMetrics(prometheus.NewRegistry())
	}
	return &Table{nodes: make(map[addr.Addr]*node), orig: orig, metrics: m}
}

func (t *Table) done(err error) error {
	if err != nil {
		t.metrics.rejected(err)
	}
	return err
}

// handoff passes a decision to the originator.
func (t *Table) handoff(kind Kind, key string, d advert.Decision) error {
	t.metrics.decided(kind, d.Action)
	ad := Advertisement{Kind: kind, Key: key, Decision: d}
	var err error
	switch d.Action {
	case advert.NoOp:
		return nil
	case advert.Reoriginate:
		err = t.orig.Originate(ad)
	case advert.Refresh:
		err = t.orig.Refresh(ad)
	case advert.Flush:
		err = t.orig.Flush(ad)
	}
	if err != nil {
		t.metrics.HandoffErrs.Inc()
		glog.Errorf("Originator failed on %s: %v", ad, err)
		return newError(Internal, "%s %s: %s failed: %v", kind, key, d.Action, err)
	}
	return nil
}

func (t *Table) getNode(routerID addr.Addr) (*node, error) {
	n, ok := t.nodes[canonical(routerID)]
	if !ok {
		return nil, newError(NotFound, "node %s does not exist", routerID)
	}
	return n, nil
}

func (t *Table) getLink(k LinkKey) (*link, error) {
	n, err := t.getNode(k.Node)
	if err != nil {
		return nil, err
	}
	l, ok := n.links[canonical(k.Local)]
	if !ok {
		return nil, newError(NotFound, "link %s does not exist", k)
	}
	return l, nil
}

// commitNode advertises attrs and, if that works, makes them the node's state.
func (t *Table) commitNode(n *node, attrs telink.NodeAttrs) error {
	d, err := n.machine.Submit(advert.Node(attrs))
	if err != nil {
		return newError(Invalid, "node %s: %v", attrs.RouterID, err)
	}
	n.attrs = attrs
	return t.handoff(KindNode, attrs.RouterID.String(), d)
}

// commitLink validates and advertises attrs, with the calendar taken from cal,
// and, if that works, makes them the link's state.
func (t *Table) commitLink(l *link, attrs telink.LinkAttrs, cal *calendar) error {
	if cal.len() > 0 {
		attrs.Calendar = cal.events()
		attrs.Mask |= telink.AttrCalendar
	} else {
		attrs.Calendar = nil
		attrs.Mask &^= telink.AttrCalendar
	}
	if err := validateLink(attrs); err != nil {
		return newError(Invalid, "link %s: %v", l.key, err)
	}
	d, err := l.machine.Submit(advert.Link(attrs))
	if err != nil {
		return newError(Invalid, "link %s: %v", l.key, err)
	}
	l.attrs, l.cal = attrs, cal
	return t.handoff(KindLink, l.key.String(), d)
}

func validBw(bw float32) bool {
	return bw >= 0 && !math.IsInf(float64(bw), 0)
}

func validateLink(a telink.LinkAttrs) error {
	for _, bw := range append([]float32{a.MaxBw, a.MaxResvBw}, a.UnresvBw[:]...) {
		if !validBw(bw) {
			return fmt.Errorf("bad bandwidth %v", bw)
		}
	}
	for _, d := range a.ISCs {
		if _, err := telink.SwitchingCapFromWire(uint8(d.SwCap)); err != nil {
			return err
		}
		if _, err := telink.EncodingFromWire(uint8(d.Encoding)); err != nil {
			return err
		}
		for _, bw := range append([]float32{d.MinLSPBw}, d.MaxLSPBw[:]...) {
			if !validBw(bw) {
				return fmt.Errorf("ISCD %s: bad bandwidth %v", d.SwCap, bw)
			}
		}
	}
	for _, e := range a.Calendar {
		for _, bw := range e.Bw {
			if !validBw(bw) {
				return fmt.Errorf("calendar event at %d: bad bandwidth %v", e.Time, bw)
			}
		}
	}
	return nil
}

// AddNode creates a node identified by its TE router id. nodeID is optional.
func (t *Table) AddNode(routerID, nodeID addr.Addr) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.addNode(routerID, nodeID))
}

func (t *Table) addNode(routerID, nodeID addr.Addr) error {
	if routerID.Type() != addr.TypeIPv4 || routerID.IsNull() {
		return newError(Invalid, "router id %s must be a non null IPv4 address", routerID)
	}
	key := canonical(routerID)
	if _, ok := t.nodes[key]; ok {
		return newError(AlreadyExists, "node %s already exists", routerID)
	}
	attrs := telink.NodeAttrs{Mask: telink.NodeRouterID, RouterID: key}
	if !nodeID.IsNull() {
		if nodeID.Type() != addr.TypeIPv4 {
			return newError(Invalid, "node id %s must be an IPv4 address", nodeID)
		}
		attrs.NodeID = canonical(nodeID)
		attrs.Mask |= telink.NodeID
	}
	n := &node{machine: advert.NewMachine("node " + key.String()), links: make(map[addr.Addr]*link)}
	err := t.commitNode(n, attrs)
	if err != nil && CodeOf(err) != Internal {
		return err
	}
	glog.V(2).Infof("Added node %s", key)
	t.nodes[key] = n
	t.metrics.Nodes.Inc()
	return err
}

// DelNode flushes and removes a node and all its links.
func (t *Table) DelNode(routerID addr.Addr) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.delNode(routerID))
}

func (t *Table) delNode(routerID addr.Addr) error {
	n, err := t.getNode(routerID)
	if err != nil {
		return err
	}
	var errs []error
	for local, l := range n.links {
		if err := t.handoff(KindLink, l.key.String(), l.machine.Remove()); err != nil {
			errs = append(errs, err)
		}
		delete(n.links, local)
		t.metrics.Links.Dec()
	}
	if err := t.handoff(KindNode, n.attrs.RouterID.String(), n.machine.Remove()); err != nil {
		errs = append(errs, err)
	}
	delete(t.nodes, canonical(routerID))
	t.metrics.Nodes.Dec()
	glog.V(2).Infof("Removed node %s", routerID)
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// AddTNA adds a TNA address served by the node.
func (t *Table) AddTNA(routerID, tna addr.Addr) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.addTNA(routerID, tna))
}

func (t *Table) addTNA(routerID, tna addr.Addr) error {
	n, err := t.getNode(routerID)
	if err != nil {
		return err
	}
	switch tna.Type() {
	case addr.TypeIPv4, addr.TypeIPv6, addr.TypeNSAP:
	default:
		return newError(Invalid, "TNA %s must be an IPv4, IPv6 or NSAP address", tna)
	}
	var spec resource.NetResSpec
	if err := spec.MergeValid(resource.NetResSpec{Mask: resource.NetResTNA, TNA: tna}); err != nil {
		return invalidResource(err)
	}
	if n.servesTNA(spec.TNA) {
		return newError(AlreadyExists, "node %s already serves TNA %s", routerID, tna)
	}
	attrs := n.attrs.Clone()
	attrs.TNAs = append(attrs.TNAs, spec.TNA)
	attrs.Mask |= telink.NodeTNAs
	return t.commitNode(n, attrs)
}

// DelTNA removes a TNA address from the node.
func (t *Table) DelTNA(routerID, tna addr.Addr) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.delTNA(routerID, tna))
}

func (t *Table) delTNA(routerID, tna addr.Addr) error {
	n, err := t.getNode(routerID)
	if err != nil {
		return err
	}
	attrs := n.attrs.Clone()
	attrs.TNAs = attrs.TNAs[:0]
	for _, x := range n.attrs.TNAs {
		if !x.Equal(tna) {
			attrs.TNAs = append(attrs.TNAs, x)
		}
	}
	if len(attrs.TNAs) == len(n.attrs.TNAs) {
		return newError(NotFound, "node %s does not serve TNA %s", routerID, tna)
	}
	if n.res.Net != nil && n.res.Net.Has(resource.NetResTNA) && n.res.Net.TNA.Equal(tna) {
		return newError(Invalid, "node %s: TNA %s is held by a registered resource", routerID, tna)
	}
	if len(attrs.TNAs) == 0 {
		attrs.TNAs = nil
		attrs.Mask &^= telink.NodeTNAs
	}
	return t.commitNode(n, attrs)
}

// AddTELink creates a TE link on a node with the declared attributes.
func (t *Table) AddTELink(k LinkKey, attrs telink.LinkAttrs) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.addTELink(k, attrs))
}

func (t *Table) addTELink(k LinkKey, init telink.LinkAttrs) error {
	n, err := t.getNode(k.Node)
	if err != nil {
		return err
	}
	if k.Local.IsNull() {
		return newError(Invalid, "link %s: local identifier must not be null", k)
	}
	k = NewLinkKey(k.Node, k.Local)
	if _, ok := n.links[k.Local]; ok {
		return newError(AlreadyExists, "link %s already exists", k)
	}
	l := &link{key: k, cal: newCalendar(nil), machine: advert.NewMachine("link " + k.String())}
	attrs := telink.LinkAttrs{}
	attrs.Merge(init)
	cal := newCalendar(attrs.Calendar)
	err = t.commitLink(l, attrs, cal)
	if err != nil && CodeOf(err) != Internal {
		return err
	}
	n.links[k.Local] = l
	t.metrics.Links.Inc()
	glog.V(2).Infof("Added TE link %s %s", k, l.attrs.Mask)
	return err
}

// DelTELink flushes and removes a TE link.
func (t *Table) DelTELink(k LinkKey) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.delTELink(k))
}

func (t *Table) delTELink(k LinkKey) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	delete(t.nodes[canonical(k.Node)].links, canonical(k.Local))
	t.metrics.Links.Dec()
	glog.V(2).Infof("Removed TE link %s", k)
	return t.handoff(KindLink, l.key.String(), l.machine.Remove())
}

// UpdateTELink merges the attributes declared in partial into the link.
// Attributes partial does not declare keep their value.
func (t *Table) UpdateTELink(k LinkKey, partial telink.LinkAttrs) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.updateTELink(k, partial))
}

func (t *Table) updateTELink(k LinkKey, partial telink.LinkAttrs) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	attrs := l.attrs.Clone()
	attrs.Merge(partial)
	cal := l.cal
	if partial.Has(telink.AttrCalendar) {
		cal = newCalendar(partial.Calendar)
	}
	return t.commitLink(l, attrs, cal)
}

// Link returns a copy of one link's state.
func (t *Table) Link(k LinkKey) (LinkInfo, error) {
	t.Lock()
	defer t.Unlock()
	l, err := t.getLink(k)
	if err != nil {
		return LinkInfo{}, t.done(err)
	}
	return l.info(), nil
}

func (l *link) info() LinkInfo {
	return LinkInfo{Key: l.key, Attrs: l.attrs.Clone(), State: l.machine.State()}
}

// Links returns a copy of every link's state, ordered by node then local id.
func (t *Table) Links() []LinkInfo {
	t.Lock()
	defer t.Unlock()
	var out []LinkInfo
	for _, n := range t.nodes {
		for _, l := range n.links {
			out = append(out, l.info())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if !a.Node.Equal(b.Node) {
			return a.Node.Uint32() < b.Node.Uint32()
		}
		return a.Local.String() < b.Local.String()
	})
	return out
}

// Nodes returns a copy of every node's state, ordered by router id.
func (t *Table) Nodes() []NodeInfo {
	t.Lock()
	defer t.Unlock()
	out := make([]NodeInfo, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, NodeInfo{Attrs: n.attrs.Clone(), State: n.machine.State(), Links: len(n.links)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Attrs.RouterID.Uint32() < out[j].Attrs.RouterID.Uint32()
	})
	return out
}
