package lrm

import (
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mayuresh82/go-gmpls-te/addr"
	"github.com/mayuresh82/go-gmpls-te/telink"
)

// Field names of the TE service messages.
const (
	FieldRouterID = "router_id"
	FieldNodeID   = "node_id"
	FieldTNA      = "tna"
	FieldTNAs     = "tnas"
	FieldLocal    = "local"
	FieldAttrs    = "attrs"
	FieldSRLGs    = "srlgs"
	FieldEvents   = "events"
	FieldFrom     = "from"
	FieldTo       = "to"
	FieldISCD     = "iscd"
	FieldISCs     = "iscs"
	FieldLinks    = "links"
	FieldNodes    = "nodes"
	FieldState    = "state"
)

// fields reads typed values out of a Struct and remembers the first error.
type fields struct {
	m   map[string]*structpb.Value
	err error
}

func newFields(s *structpb.Struct) *fields {
	return &fields{m: s.GetFields()}
}

func (f *fields) fail(format string, args ...interface{}) {
	if f.err == nil {
		f.err = newError(Invalid, format, args...)
	}
}

func (f *fields) has(k string) bool {
	_, ok := f.m[k]
	return ok
}

func (f *fields) str(k string) string {
	v, ok := f.m[k]
	if !ok {
		f.fail("missing field %q", k)
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		f.fail("field %q must be a string", k)
		return ""
	}
	return s.StringValue
}

func (f *fields) addr(k string) addr.Addr {
	s := f.str(k)
	if f.err != nil {
		return addr.Addr{}
	}
	a, err := addr.Parse(s)
	if err != nil {
		f.fail("field %q: %v", k, err)
	}
	return a
}

func (f *fields) num(k string) float64 {
	v, ok := f.m[k]
	if !ok {
		f.fail("missing field %q", k)
		return 0
	}
	return f.numValue(k, v)
}

func (f *fields) numValue(k string, v *structpb.Value) float64 {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		f.fail("field %q must be a number", k)
		return 0
	}
	return n.NumberValue
}

func (f *fields) uintValue(k string, v *structpb.Value, max uint64) uint64 {
	n := f.numValue(k, v)
	if n < 0 || n > float64(max) || n != math.Trunc(n) {
		f.fail("field %q: %v is not an integer in [0, %d]", k, n, max)
		return 0
	}
	return uint64(n)
}

func (f *fields) u32(k string) uint32 {
	v, ok := f.m[k]
	if !ok {
		f.fail("missing field %q", k)
		return 0
	}
	return uint32(f.uintValue(k, v, math.MaxUint32))
}

func (f *fields) u8(k string) uint8 {
	v, ok := f.m[k]
	if !ok {
		f.fail("missing field %q", k)
		return 0
	}
	return uint8(f.uintValue(k, v, math.MaxUint8))
}

func (f *fields) f32(k string) float32 {
	return float32(f.num(k))
}

func (f *fields) list(k string) []*structpb.Value {
	v, ok := f.m[k]
	if !ok {
		f.fail("missing field %q", k)
		return nil
	}
	l, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		f.fail("field %q must be a list", k)
		return nil
	}
	return l.ListValue.GetValues()
}

func (f *fields) sub(k string) *fields {
	v, ok := f.m[k]
	if !ok {
		f.fail("missing field %q", k)
		return &fields{}
	}
	return f.subValue(k, v)
}

func (f *fields) subValue(k string, v *structpb.Value) *fields {
	s, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		f.fail("field %q must be a struct", k)
		return &fields{}
	}
	return newFields(s.StructValue)
}

// join copies a nested reader's error into f.
func (f *fields) join(o *fields) {
	if o.err != nil && f.err == nil {
		f.err = o.err
	}
}

func (f *fields) u32List(k string) []uint32 {
	var out []uint32
	for _, v := range f.list(k) {
		out = append(out, uint32(f.uintValue(k, v, math.MaxUint32)))
	}
	return out
}

func (f *fields) addrList(k string) []addr.Addr {
	var out []addr.Addr
	for _, v := range f.list(k) {
		a, err := addr.Parse(v.GetStringValue())
		if err != nil {
			f.fail("field %q: %v", k, err)
			return nil
		}
		out = append(out, a)
	}
	return out
}

func (f *fields) bwArray(k string) (bw [telink.NumPriorities]float32) {
	l := f.list(k)
	if f.err != nil {
		return
	}
	if len(l) != telink.NumPriorities {
		f.fail("field %q needs %d values, got %d", k, telink.NumPriorities, len(l))
		return
	}
	for i, v := range l {
		bw[i] = float32(f.numValue(k, v))
	}
	return
}

func bwList(bw [telink.NumPriorities]float32) []interface{} {
	out := make([]interface{}, len(bw))
	for i, b := range bw {
		out[i] = float64(b)
	}
	return out
}

func u32List(vals []uint32) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}

func addrList(vals []addr.Addr) []interface{} {
	out := make([]interface{}, len(vals))
	for i, a := range vals {
		out[i] = a.String()
	}
	return out
}

// LinkKeyFromStruct reads the router_id and local fields.
func LinkKeyFromStruct(s *structpb.Struct) (LinkKey, error) {
	f := newFields(s)
	k := NewLinkKey(f.addr(FieldRouterID), f.addr(FieldLocal))
	return k, f.err
}

// LinkKeyFields returns the message fields naming a link.
func LinkKeyFields(k LinkKey) map[string]interface{} {
	return map[string]interface{}{
		FieldRouterID: k.Node.String(),
		FieldLocal:    k.Local.String(),
	}
}

// ISCDToMap converts a descriptor to its message form.
func ISCDToMap(d telink.ISCD) map[string]interface{} {
	m := map[string]interface{}{
		"swcap":      float64(d.SwCap),
		"encoding":   float64(d.Encoding),
		"max_lsp_bw": bwList(d.MaxLSPBw),
	}
	switch {
	case d.SwCap.IsPSC():
		m["min_lsp_bw"] = float64(d.MinLSPBw)
		m["mtu"] = float64(d.MTU)
	case d.SwCap == telink.SwCapTDM:
		m["min_lsp_bw"] = float64(d.MinLSPBw)
		m["indication"] = float64(d.Indication)
	}
	return m
}

func (f *fields) iscd() telink.ISCD {
	d := telink.ISCD{}
	var err error
	if d.SwCap, err = telink.SwitchingCapFromWire(f.u8("swcap")); err != nil && f.err == nil {
		f.fail("%v", err)
	}
	if d.Encoding, err = telink.EncodingFromWire(f.u8("encoding")); err != nil && f.err == nil {
		f.fail("%v", err)
	}
	d.MaxLSPBw = f.bwArray("max_lsp_bw")
	if f.has("min_lsp_bw") {
		d.MinLSPBw = f.f32("min_lsp_bw")
	}
	if f.has("mtu") {
		d.MTU = uint16(f.uintValue("mtu", f.m["mtu"], math.MaxUint16))
	}
	if f.has("indication") {
		d.Indication = f.u8("indication")
	}
	return d
}

// ISCsFromStruct reads the iscs list of a reply.
func ISCsFromStruct(s *structpb.Struct) ([]telink.ISCD, error) {
	f := newFields(s)
	var iscs []telink.ISCD
	for _, v := range f.list(FieldISCs) {
		df := f.subValue(FieldISCs, v)
		iscs = append(iscs, df.iscd())
		f.join(df)
	}
	return iscs, f.err
}

func eventToMap(e telink.CalendarEvent) map[string]interface{} {
	return map[string]interface{}{"time": float64(e.Time), "bw": bwList(e.Bw)}
}

// EventsToList converts calendar events to their message form.
func EventsToList(events []telink.CalendarEvent) []interface{} {
	out := make([]interface{}, len(events))
	for i, e := range events {
		out[i] = eventToMap(e)
	}
	return out
}

func (f *fields) events(k string) []telink.CalendarEvent {
	var out []telink.CalendarEvent
	for _, v := range f.list(k) {
		ef := f.subValue(k, v)
		e := telink.CalendarEvent{Time: ef.u32("time"), Bw: ef.bwArray("bw")}
		f.join(ef)
		out = append(out, e)
	}
	return out
}

// EventsFromStruct reads the events field.
func EventsFromStruct(s *structpb.Struct) ([]telink.CalendarEvent, error) {
	f := newFields(s)
	ev := f.events(FieldEvents)
	return ev, f.err
}

// SRLGsFromStruct reads the srlgs field.
func SRLGsFromStruct(s *structpb.Struct) ([]uint32, error) {
	f := newFields(s)
	srlgs := f.u32List(FieldSRLGs)
	return srlgs, f.err
}

// LinkAttrsToMap converts the declared attributes to their message form.
func LinkAttrsToMap(a telink.LinkAttrs) map[string]interface{} {
	m := map[string]interface{}{}
	if a.Has(telink.AttrLinkType) {
		m["link_type"] = float64(a.LinkType)
	}
	if a.Has(telink.AttrLinkID) {
		m["link_id"] = a.LinkID.String()
	}
	if a.Has(telink.AttrLocalAddrs) {
		m["local_addrs"] = addrList(a.LocalAddrs)
	}
	if a.Has(telink.AttrRemoteAddrs) {
		m["remote_addrs"] = addrList(a.RemoteAddrs)
	}
	if a.Has(telink.AttrMetric) {
		m["metric"] = float64(a.Metric)
	}
	if a.Has(telink.AttrMaxBw) {
		m["max_bw"] = float64(a.MaxBw)
	}
	if a.Has(telink.AttrMaxResvBw) {
		m["max_resv_bw"] = float64(a.MaxResvBw)
	}
	if a.Has(telink.AttrUnresvBw) {
		m["unresv_bw"] = bwList(a.UnresvBw)
	}
	if a.Has(telink.AttrColor) {
		m["color"] = float64(a.Color)
	}
	if a.Has(telink.AttrLinkIDs) {
		m["local_id"] = float64(a.LocalID)
		m["remote_id"] = float64(a.RemoteID)
	}
	if a.Has(telink.AttrProtection) {
		m["protection"] = float64(a.Protection)
	}
	if a.Has(telink.AttrISCs) {
		iscs := make([]interface{}, len(a.ISCs))
		for i, d := range a.ISCs {
			iscs[i] = ISCDToMap(d)
		}
		m[FieldISCs] = iscs
	}
	if a.Has(telink.AttrSRLGs) {
		m[FieldSRLGs] = u32List(a.SRLGs)
	}
	if a.Has(telink.AttrCalendar) {
		m["calendar"] = EventsToList(a.Calendar)
	}
	if a.Has(telink.AttrAmplifiers) {
		amps := make([]interface{}, len(a.Amplifiers))
		for i, amp := range a.Amplifiers {
			amps[i] = map[string]interface{}{
				"gain":         float64(amp.GainDB),
				"noise_figure": float64(amp.NoiseFigureDB),
			}
		}
		m["amplifiers"] = amps
	}
	if a.Has(telink.AttrLambdas) {
		var avail []interface{}
		for i := uint16(0); i < a.Lambdas.Count; i++ {
			if a.Lambdas.Available(i) {
				avail = append(avail, float64(i))
			}
		}
		m["lambdas"] = map[string]interface{}{
			"base":      float64(a.Lambdas.Base),
			"count":     float64(a.Lambdas.Count),
			"available": avail,
		}
	}
	return m
}

// LinkAttrsFromStruct reads the attributes present in s. Only those are
// declared in the result.
func LinkAttrsFromStruct(s *structpb.Struct) (telink.LinkAttrs, error) {
	f := newFields(s)
	a := telink.LinkAttrs{}
	if f.has("link_type") {
		a.LinkType = telink.LinkType(f.u8("link_type"))
		a.Mask |= telink.AttrLinkType
	}
	if f.has("link_id") {
		a.LinkID = f.addr("link_id")
		a.Mask |= telink.AttrLinkID
	}
	if f.has("local_addrs") {
		a.LocalAddrs = f.addrList("local_addrs")
		a.Mask |= telink.AttrLocalAddrs
	}
	if f.has("remote_addrs") {
		a.RemoteAddrs = f.addrList("remote_addrs")
		a.Mask |= telink.AttrRemoteAddrs
	}
	if f.has("metric") {
		a.Metric = f.u32("metric")
		a.Mask |= telink.AttrMetric
	}
	if f.has("max_bw") {
		a.MaxBw = f.f32("max_bw")
		a.Mask |= telink.AttrMaxBw
	}
	if f.has("max_resv_bw") {
		a.MaxResvBw = f.f32("max_resv_bw")
		a.Mask |= telink.AttrMaxResvBw
	}
	if f.has("unresv_bw") {
		a.UnresvBw = f.bwArray("unresv_bw")
		a.Mask |= telink.AttrUnresvBw
	}
	if f.has("color") {
		a.Color = f.u32("color")
		a.Mask |= telink.AttrColor
	}
	if f.has("local_id") || f.has("remote_id") {
		a.LocalID, a.RemoteID = f.u32("local_id"), f.u32("remote_id")
		a.Mask |= telink.AttrLinkIDs
	}
	if f.has("protection") {
		a.Protection = telink.Protection(f.u8("protection"))
		a.Mask |= telink.AttrProtection
	}
	if f.has(FieldISCs) {
		for _, v := range f.list(FieldISCs) {
			df := f.subValue(FieldISCs, v)
			a.ISCs = append(a.ISCs, df.iscd())
			f.join(df)
		}
		a.ISCs = telink.UniqueISCs(a.ISCs)
		a.Mask |= telink.AttrISCs
	}
	if f.has(FieldSRLGs) {
		a.SRLGs = telink.UniqueSRLGs(f.u32List(FieldSRLGs))
		a.Mask |= telink.AttrSRLGs
	}
	if f.has("calendar") {
		a.Calendar = f.events("calendar")
		a.Mask |= telink.AttrCalendar
	}
	if f.has("amplifiers") {
		for _, v := range f.list("amplifiers") {
			af := f.subValue("amplifiers", v)
			a.Amplifiers = append(a.Amplifiers, telink.Amplifier{
				GainDB:        af.f32("gain"),
				NoiseFigureDB: af.f32("noise_figure"),
			})
			f.join(af)
		}
		a.Mask |= telink.AttrAmplifiers
	}
	if f.has("lambdas") {
		lf := f.sub("lambdas")
		count := uint16(lf.uintValue("count", lf.m["count"], math.MaxUint16))
		b := telink.NewLambdaBitmap(lf.u32("base"), count)
		if lf.has("available") {
			for _, v := range lf.list("available") {
				i := uint16(lf.uintValue("available", v, math.MaxUint16))
				if err := b.SetAvailable(i, true); err != nil {
					lf.fail("%v", err)
				}
			}
		}
		f.join(lf)
		a.Lambdas = b
		a.Mask |= telink.AttrLambdas
	}
	return a, f.err
}

// LinkInfoToMap converts a link's state to its message form.
func LinkInfoToMap(l LinkInfo) map[string]interface{} {
	m := LinkKeyFields(l.Key)
	m[FieldState] = l.State.String()
	m[FieldAttrs] = LinkAttrsToMap(l.Attrs)
	return m
}

// NodeInfoToMap converts a node's state to its message form.
func NodeInfoToMap(n NodeInfo) map[string]interface{} {
	m := map[string]interface{}{
		FieldRouterID: n.Attrs.RouterID.String(),
		FieldState:    n.State.String(),
		FieldLinks:    float64(n.Links),
		FieldTNAs:     addrList(n.Attrs.TNAs),
	}
	if n.Attrs.Has(telink.NodeID) {
		m[FieldNodeID] = n.Attrs.NodeID.String()
	}
	return m
}

// NodeFromStruct reads the router_id field and the optional node_id field.
func NodeFromStruct(s *structpb.Struct) (routerID, nodeID addr.Addr, err error) {
	f := newFields(s)
	routerID = f.addr(FieldRouterID)
	if f.has(FieldNodeID) {
		nodeID = f.addr(FieldNodeID)
	}
	return routerID, nodeID, f.err
}

// TNAFromStruct reads the router_id and tna fields.
func TNAFromStruct(s *structpb.Struct) (routerID, tna addr.Addr, err error) {
	f := newFields(s)
	routerID = f.addr(FieldRouterID)
	tna = f.addr(FieldTNA)
	return routerID, tna, f.err
}

// LinkFromStruct reads a link key and the attrs struct. A missing attrs
// field declares no attributes.
func LinkFromStruct(s *structpb.Struct) (LinkKey, telink.LinkAttrs, error) {
	k, err := LinkKeyFromStruct(s)
	if err != nil {
		return k, telink.LinkAttrs{}, err
	}
	f := newFields(s)
	if !f.has(FieldAttrs) {
		return k, telink.LinkAttrs{}, nil
	}
	af := f.sub(FieldAttrs)
	if f.err != nil {
		return k, telink.LinkAttrs{}, f.err
	}
	a, err := LinkAttrsFromStruct(&structpb.Struct{Fields: af.m})
	return k, a, err
}

// RangeFromStruct reads the optional from and to fields of a calendar query.
func RangeFromStruct(s *structpb.Struct) (from, to uint32, err error) {
	f := newFields(s)
	if f.has(FieldFrom) {
		from = f.u32(FieldFrom)
	}
	if f.has(FieldTo) {
		to = f.u32(FieldTo)
	}
	return from, to, f.err
}

// ISCDRequestFromStruct reads a link key and the iscd struct.
func ISCDRequestFromStruct(s *structpb.Struct) (LinkKey, telink.ISCD, error) {
	k, err := LinkKeyFromStruct(s)
	if err != nil {
		return k, telink.ISCD{}, err
	}
	f := newFields(s)
	df := f.sub(FieldISCD)
	d := df.iscd()
	f.join(df)
	return k, d, f.err
}
