package telink

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/mayuresh82/go-gmpls-te/addr"
)

// ISCD is an interface switching capability descriptor. MinLSPBw is only
// meaningful for PSC and TDM, MTU for PSC and Indication for TDM.
type ISCD struct {
	SwCap      SwitchingCap
	Encoding   Encoding
	MaxLSPBw   [NumPriorities]float32
	MinLSPBw   float32
	MTU        uint16
	Indication uint8
}

// Key identifies the record within a link.
func (d ISCD) Key() ISCKey {
	return ISCKey{SwCap: d.SwCap, Encoding: d.Encoding}
}

type ISCKey struct {
	SwCap    SwitchingCap
	Encoding Encoding
}

// Matches compares the fields relevant to the descriptor's switching
// capability family.
func (d ISCD) Matches(o ISCD) bool {
	if d.SwCap != o.SwCap || d.Encoding != o.Encoding || d.MaxLSPBw != o.MaxLSPBw {
		return false
	}
	switch {
	case d.SwCap.IsPSC():
		return d.MinLSPBw == o.MinLSPBw && d.MTU == o.MTU
	case d.SwCap == SwCapTDM:
		return d.MinLSPBw == o.MinLSPBw && d.Indication == o.Indication
	}
	return true
}

func (d ISCD) String() string {
	s := fmt.Sprintf("%s/%s max %v", d.SwCap, d.Encoding, d.MaxLSPBw)
	switch {
	case d.SwCap.IsPSC():
		s += fmt.Sprintf(" min %v mtu %d", d.MinLSPBw, d.MTU)
	case d.SwCap == SwCapTDM:
		s += fmt.Sprintf(" min %v ind %d", d.MinLSPBw, d.Indication)
	}
	return s
}

// CalendarEvent is the bandwidth available per priority from Time on.
type CalendarEvent struct {
	Time uint32 // unix seconds
	Bw   [NumPriorities]float32
}

func (e CalendarEvent) At() time.Time {
	return time.Unix(int64(e.Time), 0).UTC()
}

// Less orders events by time, then by bandwidth values.
func (e CalendarEvent) Less(o CalendarEvent) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	for i := range e.Bw {
		if e.Bw[i] != o.Bw[i] {
			return e.Bw[i] < o.Bw[i]
		}
	}
	return false
}

// SortCalendar sorts events by time, keeping the relative order of events
// sharing a timestamp.
func SortCalendar(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
}

// Amplifier is one optical amplifier along a WDM link.
type Amplifier struct {
	GainDB        float32
	NoiseFigureDB float32
}

type AttrMask uint32

const (
	AttrLinkType AttrMask = 1 << iota
	AttrLinkID
	AttrLocalAddrs
	AttrRemoteAddrs
	AttrMetric
	AttrMaxBw
	AttrMaxResvBw
	AttrUnresvBw
	AttrColor
	AttrLinkIDs
	AttrProtection
	AttrISCs
	AttrSRLGs
	AttrCalendar
	AttrAmplifiers
	AttrLambdas
)

var attrNames = []string{
	"link-type", "link-id", "local-addrs", "remote-addrs", "metric", "max-bw",
	"max-resv-bw", "unresv-bw", "color", "link-ids", "protection", "iscs",
	"srlgs", "calendar", "amplifiers", "lambdas",
}

func (m AttrMask) String() string {
	var parts []string
	for i, name := range attrNames {
		if m&(1<<uint(i)) != 0 {
			parts = append(parts, name)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// LinkAttrs is the attribute bundle of one TE link. Every sub-bundle is
// declared independently through Mask.
type LinkAttrs struct {
	Mask        AttrMask
	LinkType    LinkType
	LinkID      addr.Addr
	LocalAddrs  []addr.Addr
	RemoteAddrs []addr.Addr
	Metric      uint32
	MaxBw       float32
	MaxResvBw   float32
	UnresvBw    [NumPriorities]float32
	Color       uint32
	LocalID     uint32
	RemoteID    uint32
	Protection  Protection
	ISCs        []ISCD
	SRLGs       []uint32
	Calendar    []CalendarEvent
	Amplifiers  []Amplifier
	Lambdas     LambdaBitmap
}

func (a LinkAttrs) Has(bit AttrMask) bool {
	return a.Mask&bit != 0
}

// Empty reports whether no attribute is declared.
func (a LinkAttrs) Empty() bool {
	return a.Mask == 0
}

func (a LinkAttrs) Clone() LinkAttrs {
	c := a
	c.LocalAddrs = append([]addr.Addr(nil), a.LocalAddrs...)
	c.RemoteAddrs = append([]addr.Addr(nil), a.RemoteAddrs...)
	c.ISCs = append([]ISCD(nil), a.ISCs...)
	c.SRLGs = append([]uint32(nil), a.SRLGs...)
	c.Calendar = append([]CalendarEvent(nil), a.Calendar...)
	c.Amplifiers = append([]Amplifier(nil), a.Amplifiers...)
	c.Lambdas = a.Lambdas.Clone()
	return c
}

// Merge copies every sub-bundle declared in src into a, replacing what a held
// for it. Fields not declared in src are left alone. Repeated SRLGs and ISCDs
// sharing a key are collapsed.
func (a *LinkAttrs) Merge(src LinkAttrs) {
	set := func(bit AttrMask, assign func()) {
		if !src.Has(bit) {
			return
		}
		a.Mask &^= bit
		assign()
		a.Mask |= bit
	}
	set(AttrLinkType, func() { a.LinkType = src.LinkType })
	set(AttrLinkID, func() { a.LinkID = src.LinkID })
	set(AttrLocalAddrs, func() { a.LocalAddrs = append([]addr.Addr(nil), src.LocalAddrs...) })
	set(AttrRemoteAddrs, func() { a.RemoteAddrs = append([]addr.Addr(nil), src.RemoteAddrs...) })
	set(AttrMetric, func() { a.Metric = src.Metric })
	set(AttrMaxBw, func() { a.MaxBw = src.MaxBw })
	set(AttrMaxResvBw, func() { a.MaxResvBw = src.MaxResvBw })
	set(AttrUnresvBw, func() { a.UnresvBw = src.UnresvBw })
	set(AttrColor, func() { a.Color = src.Color })
	set(AttrLinkIDs, func() { a.LocalID, a.RemoteID = src.LocalID, src.RemoteID })
	set(AttrProtection, func() { a.Protection = src.Protection })
	set(AttrISCs, func() { a.ISCs = UniqueISCs(src.ISCs) })
	set(AttrSRLGs, func() { a.SRLGs = UniqueSRLGs(src.SRLGs) })
	set(AttrCalendar, func() {
		a.Calendar = append([]CalendarEvent(nil), src.Calendar...)
		SortCalendar(a.Calendar)
	})
	set(AttrAmplifiers, func() { a.Amplifiers = append([]Amplifier(nil), src.Amplifiers...) })
	set(AttrLambdas, func() { a.Lambdas = src.Lambdas.Clone() })
}

// Equal compares the declared sub-bundles. SRLGs, ISCs and calendar events
// compare as sets of the same size, so lists that would encode to a different
// number of records differ.
func (a LinkAttrs) Equal(o LinkAttrs) bool {
	if a.Mask != o.Mask {
		return false
	}
	checks := []struct {
		bit AttrMask
		eq  func() bool
	}{
		{AttrLinkType, func() bool { return a.LinkType == o.LinkType }},
		{AttrLinkID, func() bool { return a.LinkID.Equal(o.LinkID) }},
		{AttrLocalAddrs, func() bool { return slices.EqualFunc(a.LocalAddrs, o.LocalAddrs, addr.Equal) }},
		{AttrRemoteAddrs, func() bool { return slices.EqualFunc(a.RemoteAddrs, o.RemoteAddrs, addr.Equal) }},
		{AttrMetric, func() bool { return a.Metric == o.Metric }},
		{AttrMaxBw, func() bool { return a.MaxBw == o.MaxBw }},
		{AttrMaxResvBw, func() bool { return a.MaxResvBw == o.MaxResvBw }},
		{AttrUnresvBw, func() bool { return a.UnresvBw == o.UnresvBw }},
		{AttrColor, func() bool { return a.Color == o.Color }},
		{AttrLinkIDs, func() bool { return a.LocalID == o.LocalID && a.RemoteID == o.RemoteID }},
		{AttrProtection, func() bool { return a.Protection == o.Protection }},
		{AttrISCs, func() bool {
			return len(a.ISCs) == len(o.ISCs) &&
				len(DiffISCs(a.ISCs, o.ISCs)) == 0 && len(DiffISCs(o.ISCs, a.ISCs)) == 0
		}},
		{AttrSRLGs, func() bool {
			return len(a.SRLGs) == len(o.SRLGs) &&
				len(DiffSRLG(a.SRLGs, o.SRLGs)) == 0 && len(DiffSRLG(o.SRLGs, a.SRLGs)) == 0
		}},
		{AttrCalendar, func() bool {
			return len(a.Calendar) == len(o.Calendar) &&
				len(DiffCalendar(a.Calendar, o.Calendar)) == 0 &&
				len(DiffCalendar(o.Calendar, a.Calendar)) == 0
		}},
		{AttrAmplifiers, func() bool { return slices.Equal(a.Amplifiers, o.Amplifiers) }},
		{AttrLambdas, func() bool { return a.Lambdas.Equal(o.Lambdas) }},
	}
	for _, c := range checks {
		if a.Has(c.bit) && !c.eq() {
			return false
		}
	}
	return true
}

func (a LinkAttrs) String() string {
	return fmt.Sprintf("LinkAttrs%s", a.Mask)
}

type NodeMask uint8

const (
	NodeRouterID NodeMask = 1 << iota
	NodeID
	NodeTNAs
)

// NodeAttrs is the attribute bundle of a node: its TE router address, its
// ASON node id and the TNA addresses it serves.
type NodeAttrs struct {
	Mask     NodeMask
	RouterID addr.Addr
	NodeID   addr.Addr
	TNAs     []addr.Addr
}

func (n NodeAttrs) Has(bit NodeMask) bool {
	return n.Mask&bit != 0
}

func (n NodeAttrs) Empty() bool {
	return n.Mask == 0
}

func (n NodeAttrs) Clone() NodeAttrs {
	n.TNAs = append([]addr.Addr(nil), n.TNAs...)
	return n
}

func (n *NodeAttrs) Merge(src NodeAttrs) {
	if src.Has(NodeRouterID) {
		n.Mask &^= NodeRouterID
		n.RouterID = src.RouterID
		n.Mask |= NodeRouterID
	}
	if src.Has(NodeID) {
		n.Mask &^= NodeID
		n.NodeID = src.NodeID
		n.Mask |= NodeID
	}
	if src.Has(NodeTNAs) {
		n.Mask &^= NodeTNAs
		n.TNAs = append([]addr.Addr(nil), src.TNAs...)
		n.Mask |= NodeTNAs
	}
}

// Equal compares the declared fields. TNAs compare as a set.
func (n NodeAttrs) Equal(o NodeAttrs) bool {
	if n.Mask != o.Mask {
		return false
	}
	if n.Has(NodeRouterID) && !n.RouterID.Equal(o.RouterID) {
		return false
	}
	if n.Has(NodeID) && !n.NodeID.Equal(o.NodeID) {
		return false
	}
	if n.Has(NodeTNAs) {
		if len(n.TNAs) != len(o.TNAs) {
			return false
		}
		for _, t := range n.TNAs {
			if !containsAddr(o.TNAs, t) {
				return false
			}
		}
	}
	return true
}

func containsAddr(list []addr.Addr, a addr.Addr) bool {
	for _, x := range list {
		if x.Equal(a) {
			return true
		}
	}
	return false
}
