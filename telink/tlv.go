package telink

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/mayuresh82/go-gmpls-te/addr"
)

// Reference: RFC 3630, RFC 4203, RFC 6827

const (
	TLV_HDR_LEN = 4

	// Top level TLVs
	TLVRouterAddr uint16 = 1
	TLVLink       uint16 = 2
	TLVNodeAttr   uint16 = 5

	// Link sub-TLVs
	SubTLVLinkType   uint16 = 1
	SubTLVLinkID     uint16 = 2
	SubTLVLocalAddr  uint16 = 3
	SubTLVRemoteAddr uint16 = 4
	SubTLVMetric     uint16 = 5
	SubTLVMaxBw      uint16 = 6
	SubTLVMaxResvBw  uint16 = 7
	SubTLVUnresvBw   uint16 = 8
	SubTLVColor      uint16 = 9
	SubTLVLinkIDs    uint16 = 11
	SubTLVProtection uint16 = 14
	SubTLVISCD       uint16 = 15
	SubTLVSRLG       uint16 = 16
	SubTLVCalendar   uint16 = 32769
	SubTLVAmplifiers uint16 = 32770
	SubTLVLambdaMask uint16 = 32771

	// Node attribute sub-TLVs
	SubTLVNodeID  uint16 = 32773
	SubTLVTNAIPv4 uint16 = 32776
	SubTLVTNAIPv6 uint16 = 32777
	SubTLVTNANSAP uint16 = 32778

	maxTLVValueLength = math.MaxUint16
	iscdBaseLen       = 4 + 4*NumPriorities
	iscdExtLen        = 8
	calendarLen       = 4 + 4*NumPriorities
	amplifierLen      = 8
	lambdaHdrLen      = 8
	tnaHdrLen         = 4
)

// DecodeError reports a malformed TLV. Type is the code of the offending
// block.
type DecodeError struct {
	msg  string
	Type uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tlv %d: %s", e.Type, e.msg)
}

func decodeErr(t uint16, format string, args ...interface{}) *DecodeError {
	return &DecodeError{msg: fmt.Sprintf(format, args...), Type: t}
}

// SubTLV is one self-describing block inside a Link TLV.
type SubTLV interface {
	Type() uint16
	Parse([]byte) error
	Serialize() []byte
	apply(*LinkAttrs)
}

// NewSubTLVByType returns an empty sub-TLV for the code, or nil if the code is
// not understood.
func NewSubTLVByType(t uint16) SubTLV {
	switch t {
	case SubTLVLinkType:
		return &LinkTypeTLV{}
	case SubTLVLinkID:
		return &LinkIDTLV{}
	case SubTLVLocalAddr, SubTLVRemoteAddr:
		return &IfAddrTLV{code: t}
	case SubTLVMetric, SubTLVColor:
		return &Uint32TLV{code: t}
	case SubTLVMaxBw, SubTLVMaxResvBw:
		return &BandwidthTLV{code: t}
	case SubTLVUnresvBw:
		return &UnresvBwTLV{}
	case SubTLVLinkIDs:
		return &LinkIDsTLV{}
	case SubTLVProtection:
		return &ProtectionTLV{}
	case SubTLVISCD:
		return &ISCDTLV{}
	case SubTLVSRLG:
		return &SRLGTLV{}
	case SubTLVCalendar:
		return &CalendarTLV{}
	case SubTLVAmplifiers:
		return &AmplifierTLV{}
	case SubTLVLambdaMask:
		return &LambdaTLV{}
	}
	return nil
}

func putFloat(buf *bytes.Buffer, f float32) {
	binary.Write(buf, binary.BigEndian, math.Float32bits(f))
}

func getFloat(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func checkLen(t uint16, data []byte, want int) error {
	if len(data) != want {
		return decodeErr(t, "length %d, want %d", len(data), want)
	}
	return nil
}

func checkMultiple(t uint16, data []byte, unit int) error {
	if len(data)%unit != 0 {
		return decodeErr(t, "length %d is not a multiple of %d", len(data), unit)
	}
	return nil
}

type LinkTypeTLV struct {
	LinkType LinkType
}

func (o *LinkTypeTLV) Type() uint16 { return SubTLVLinkType }

func (o *LinkTypeTLV) Parse(data []byte) error {
	if err := checkLen(SubTLVLinkType, data, 1); err != nil {
		return err
	}
	o.LinkType = LinkType(data[0])
	return nil
}

func (o *LinkTypeTLV) Serialize() []byte {
	return []byte{uint8(o.LinkType)}
}

func (o *LinkTypeTLV) apply(a *LinkAttrs) {
	a.LinkType = o.LinkType
	a.Mask |= AttrLinkType
}

// LinkIDTLV identifies the other end of the link by its router id.
type LinkIDTLV struct {
	ID addr.Addr
}

func (o *LinkIDTLV) Type() uint16 { return SubTLVLinkID }

func (o *LinkIDTLV) Parse(data []byte) (err error) {
	if err = checkLen(SubTLVLinkID, data, 4); err != nil {
		return
	}
	o.ID, err = addr.Make(addr.TypeIPv4, data)
	return
}

func (o *LinkIDTLV) Serialize() []byte {
	return o.ID.Bytes()
}

func (o *LinkIDTLV) apply(a *LinkAttrs) {
	a.LinkID = o.ID
	a.Mask |= AttrLinkID
}

// IfAddrTLV carries the local or remote interface IPv4 addresses.
type IfAddrTLV struct {
	code  uint16
	Addrs []addr.Addr
}

func (o *IfAddrTLV) Type() uint16 { return o.code }

func (o *IfAddrTLV) Parse(data []byte) error {
	if err := checkMultiple(o.code, data, 4); err != nil {
		return err
	}
	o.Addrs = nil
	for i := 0; i < len(data); i += 4 {
		a, err := addr.Make(addr.TypeIPv4, data[i:i+4])
		if err != nil {
			return decodeErr(o.code, "%v", err)
		}
		o.Addrs = append(o.Addrs, a)
	}
	return nil
}

func (o *IfAddrTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	for _, a := range o.Addrs {
		buf.Write(a.Bytes())
	}
	return buf.Bytes()
}

func (o *IfAddrTLV) apply(a *LinkAttrs) {
	if o.code == SubTLVLocalAddr {
		a.LocalAddrs = o.Addrs
		a.Mask |= AttrLocalAddrs
		return
	}
	a.RemoteAddrs = o.Addrs
	a.Mask |= AttrRemoteAddrs
}

// Uint32TLV is the TE metric or the resource class/color.
type Uint32TLV struct {
	code  uint16
	Value uint32
}

func (o *Uint32TLV) Type() uint16 { return o.code }

func (o *Uint32TLV) Parse(data []byte) error {
	if err := checkLen(o.code, data, 4); err != nil {
		return err
	}
	o.Value = binary.BigEndian.Uint32(data)
	return nil
}

func (o *Uint32TLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, o.Value)
	return buf.Bytes()
}

func (o *Uint32TLV) apply(a *LinkAttrs) {
	if o.code == SubTLVMetric {
		a.Metric = o.Value
		a.Mask |= AttrMetric
		return
	}
	a.Color = o.Value
	a.Mask |= AttrColor
}

// BandwidthTLV is the maximum or maximum reservable bandwidth in bytes/sec.
type BandwidthTLV struct {
	code uint16
	Bw   float32
}

func (o *BandwidthTLV) Type() uint16 { return o.code }

func (o *BandwidthTLV) Parse(data []byte) error {
	if err := checkLen(o.code, data, 4); err != nil {
		return err
	}
	o.Bw = getFloat(data)
	return nil
}

func (o *BandwidthTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	putFloat(buf, o.Bw)
	return buf.Bytes()
}

func (o *BandwidthTLV) apply(a *LinkAttrs) {
	if o.code == SubTLVMaxBw {
		a.MaxBw = o.Bw
		a.Mask |= AttrMaxBw
		return
	}
	a.MaxResvBw = o.Bw
	a.Mask |= AttrMaxResvBw
}

type UnresvBwTLV struct {
	Bw [NumPriorities]float32
}

func (o *UnresvBwTLV) Type() uint16 { return SubTLVUnresvBw }

func (o *UnresvBwTLV) Parse(data []byte) error {
	if err := checkLen(SubTLVUnresvBw, data, 4*NumPriorities); err != nil {
		return err
	}
	for i := range o.Bw {
		o.Bw[i] = getFloat(data[4*i:])
	}
	return nil
}

func (o *UnresvBwTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	for _, bw := range o.Bw {
		putFloat(buf, bw)
	}
	return buf.Bytes()
}

func (o *UnresvBwTLV) apply(a *LinkAttrs) {
	a.UnresvBw = o.Bw
	a.Mask |= AttrUnresvBw
}

// LinkIDsTLV carries the local and remote identifiers of an unnumbered link.
type LinkIDsTLV struct {
	Local, Remote uint32
}

func (o *LinkIDsTLV) Type() uint16 { return SubTLVLinkIDs }

func (o *LinkIDsTLV) Parse(data []byte) error {
	if err := checkLen(SubTLVLinkIDs, data, 8); err != nil {
		return err
	}
	o.Local = binary.BigEndian.Uint32(data)
	o.Remote = binary.BigEndian.Uint32(data[4:])
	return nil
}

func (o *LinkIDsTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, o.Local)
	binary.Write(buf, binary.BigEndian, o.Remote)
	return buf.Bytes()
}

func (o *LinkIDsTLV) apply(a *LinkAttrs) {
	a.LocalID, a.RemoteID = o.Local, o.Remote
	a.Mask |= AttrLinkIDs
}

type ProtectionTLV struct {
	Protection Protection
}

func (o *ProtectionTLV) Type() uint16 { return SubTLVProtection }

func (o *ProtectionTLV) Parse(data []byte) error {
	if err := checkLen(SubTLVProtection, data, 4); err != nil {
		return err
	}
	o.Protection = Protection(data[0])
	return nil
}

func (o *ProtectionTLV) Serialize() []byte {
	// 3 reserved bytes follow the flags
	return []byte{uint8(o.Protection), 0, 0, 0}
}

func (o *ProtectionTLV) apply(a *LinkAttrs) {
	a.Protection = o.Protection
	a.Mask |= AttrProtection
}

// ISCDTLV carries one switching capability descriptor. A link has one per
// descriptor.
type ISCDTLV struct {
	ISCD ISCD
}

func (o *ISCDTLV) Type() uint16 { return SubTLVISCD }

func iscdLen(s SwitchingCap) int {
	if s.IsPSC() || s == SwCapTDM {
		return iscdBaseLen + iscdExtLen
	}
	return iscdBaseLen
}

func (o *ISCDTLV) Parse(data []byte) (err error) {
	if len(data) < iscdBaseLen {
		return decodeErr(SubTLVISCD, "length %d shorter than %d", len(data), iscdBaseLen)
	}
	d := ISCD{}
	if d.SwCap, err = SwitchingCapFromWire(data[0]); err != nil {
		return
	}
	if d.Encoding, err = EncodingFromWire(data[1]); err != nil {
		return
	}
	if err = checkLen(SubTLVISCD, data, iscdLen(d.SwCap)); err != nil {
		return
	}
	for i := range d.MaxLSPBw {
		d.MaxLSPBw[i] = getFloat(data[4+4*i:])
	}
	ext := data[iscdBaseLen:]
	switch {
	case d.SwCap.IsPSC():
		d.MinLSPBw = getFloat(ext)
		d.MTU = binary.BigEndian.Uint16(ext[4:])
	case d.SwCap == SwCapTDM:
		d.MinLSPBw = getFloat(ext)
		d.Indication = ext[4]
	}
	o.ISCD = d
	return nil
}

func (o *ISCDTLV) Serialize() []byte {
	d := o.ISCD
	buf := &bytes.Buffer{}
	buf.Write([]byte{uint8(d.SwCap), uint8(d.Encoding), 0, 0})
	for _, bw := range d.MaxLSPBw {
		putFloat(buf, bw)
	}
	switch {
	case d.SwCap.IsPSC():
		putFloat(buf, d.MinLSPBw)
		binary.Write(buf, binary.BigEndian, d.MTU)
		buf.Write([]byte{0, 0})
	case d.SwCap == SwCapTDM:
		putFloat(buf, d.MinLSPBw)
		buf.Write([]byte{d.Indication, 0, 0, 0})
	}
	return buf.Bytes()
}

func (o *ISCDTLV) apply(a *LinkAttrs) {
	if !a.Has(AttrISCs) {
		a.ISCs = nil
	}
	a.ISCs = append(a.ISCs, o.ISCD)
	a.Mask |= AttrISCs
}

type SRLGTLV struct {
	SRLGs []uint32
}

func (o *SRLGTLV) Type() uint16 { return SubTLVSRLG }

func (o *SRLGTLV) Parse(data []byte) error {
	if err := checkMultiple(SubTLVSRLG, data, 4); err != nil {
		return err
	}
	o.SRLGs = make([]uint32, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		o.SRLGs = append(o.SRLGs, binary.BigEndian.Uint32(data[i:]))
	}
	return nil
}

func (o *SRLGTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	for _, s := range o.SRLGs {
		binary.Write(buf, binary.BigEndian, s)
	}
	return buf.Bytes()
}

func (o *SRLGTLV) apply(a *LinkAttrs) {
	a.SRLGs = o.SRLGs
	a.Mask |= AttrSRLGs
}

// CalendarTLV is the bandwidth calendar of a link: a list of events, each a
// timestamp followed by the bandwidth per priority.
type CalendarTLV struct {
	Events []CalendarEvent
}

func (o *CalendarTLV) Type() uint16 { return SubTLVCalendar }

func (o *CalendarTLV) Parse(data []byte) error {
	if err := checkMultiple(SubTLVCalendar, data, calendarLen); err != nil {
		return err
	}
	o.Events = make([]CalendarEvent, 0, len(data)/calendarLen)
	for off := 0; off < len(data); off += calendarLen {
		e := CalendarEvent{Time: binary.BigEndian.Uint32(data[off:])}
		for i := range e.Bw {
			e.Bw[i] = getFloat(data[off+4+4*i:])
		}
		o.Events = append(o.Events, e)
	}
	return nil
}

func (o *CalendarTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	for _, e := range o.Events {
		binary.Write(buf, binary.BigEndian, e.Time)
		for _, bw := range e.Bw {
			putFloat(buf, bw)
		}
	}
	return buf.Bytes()
}

func (o *CalendarTLV) apply(a *LinkAttrs) {
	a.Calendar = o.Events
	SortCalendar(a.Calendar)
	a.Mask |= AttrCalendar
}

type AmplifierTLV struct {
	Amplifiers []Amplifier
}

func (o *AmplifierTLV) Type() uint16 { return SubTLVAmplifiers }

func (o *AmplifierTLV) Parse(data []byte) error {
	if err := checkMultiple(SubTLVAmplifiers, data, amplifierLen); err != nil {
		return err
	}
	o.Amplifiers = make([]Amplifier, 0, len(data)/amplifierLen)
	for off := 0; off < len(data); off += amplifierLen {
		o.Amplifiers = append(o.Amplifiers, Amplifier{
			GainDB:        getFloat(data[off:]),
			NoiseFigureDB: getFloat(data[off+4:]),
		})
	}
	return nil
}

func (o *AmplifierTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	for _, amp := range o.Amplifiers {
		putFloat(buf, amp.GainDB)
		putFloat(buf, amp.NoiseFigureDB)
	}
	return buf.Bytes()
}

func (o *AmplifierTLV) apply(a *LinkAttrs) {
	a.Amplifiers = o.Amplifiers
	a.Mask |= AttrAmplifiers
}

// LambdaTLV is the wavelength availability mask:
//
//	base label (4) | count (2) | reserved (2) | ceil(count/32) words
type LambdaTLV struct {
	Lambdas LambdaBitmap
}

func (o *LambdaTLV) Type() uint16 { return SubTLVLambdaMask }

func (o *LambdaTLV) Parse(data []byte) error {
	if len(data) < lambdaHdrLen {
		return decodeErr(SubTLVLambdaMask, "length %d shorter than %d", len(data), lambdaHdrLen)
	}
	base := binary.BigEndian.Uint32(data)
	count := binary.BigEndian.Uint16(data[4:])
	if err := checkLen(SubTLVLambdaMask, data, lambdaHdrLen+4*lambdaWords(count)); err != nil {
		return err
	}
	words := make([]uint32, lambdaWords(count))
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[lambdaHdrLen+4*i:])
	}
	b, err := LambdaBitmapFromWords(base, count, words)
	if err != nil {
		return decodeErr(SubTLVLambdaMask, "%v", err)
	}
	o.Lambdas = b
	return nil
}

func (o *LambdaTLV) Serialize() []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, o.Lambdas.Base)
	binary.Write(buf, binary.BigEndian, o.Lambdas.Count)
	binary.Write(buf, binary.BigEndian, uint16(0))
	for _, w := range o.Lambdas.Words() {
		binary.Write(buf, binary.BigEndian, w)
	}
	return buf.Bytes()
}

func (o *LambdaTLV) apply(a *LinkAttrs) {
	a.Lambdas = o.Lambdas
	a.Mask |= AttrLambdas
}

// writeTLV appends a type/length header, the value and the padding to the
// next 4 byte boundary.
func writeTLV(buf *bytes.Buffer, t uint16, value []byte) error {
	if len(value) > maxTLVValueLength {
		return decodeErr(t, "value of %d bytes does not fit a TLV", len(value))
	}
	binary.Write(buf, binary.BigEndian, t)
	binary.Write(buf, binary.BigEndian, uint16(len(value)))
	buf.Write(value)
	buf.Write(make([]byte, padLen(len(value))))
	return nil
}

func padLen(n int) int {
	return (4 - n%4) % 4
}

// readTLV splits the next TLV off data. It returns the value without padding
// and the remaining bytes.
func readTLV(data []byte) (t uint16, value, rest []byte, err error) {
	if len(data) < TLV_HDR_LEN {
		return 0, nil, nil, decodeErr(0, "truncated header: %d bytes", len(data))
	}
	t = binary.BigEndian.Uint16(data)
	length := int(binary.BigEndian.Uint16(data[2:]))
	data = data[TLV_HDR_LEN:]
	if length > len(data) {
		return t, nil, nil, decodeErr(t, "length %d exceeds the %d bytes left", length, len(data))
	}
	value = data[:length]
	skip := length + padLen(length)
	if skip > len(data) {
		// a peer may omit the padding of the last block
		skip = len(data)
	}
	return t, value, data[skip:], nil
}

// subTLVs lists the sub-TLVs that carry the declared attributes.
func (a LinkAttrs) subTLVs() ([]SubTLV, error) {
	var out []SubTLV
	if a.Has(AttrLinkType) {
		out = append(out, &LinkTypeTLV{LinkType: a.LinkType})
	}
	if a.Has(AttrLinkID) {
		if a.LinkID.Type() != addr.TypeIPv4 {
			return nil, decodeErr(SubTLVLinkID, "link id %s is not IPv4", a.LinkID)
		}
		out = append(out, &LinkIDTLV{ID: a.LinkID})
	}
	ifAddrs := []struct {
		bit   AttrMask
		code  uint16
		addrs []addr.Addr
	}{
		{AttrLocalAddrs, SubTLVLocalAddr, a.LocalAddrs},
		{AttrRemoteAddrs, SubTLVRemoteAddr, a.RemoteAddrs},
	}
	for _, ia := range ifAddrs {
		if !a.Has(ia.bit) {
			continue
		}
		for _, x := range ia.addrs {
			if x.Type() != addr.TypeIPv4 {
				return nil, decodeErr(ia.code, "interface address %s is not IPv4", x)
			}
		}
		out = append(out, &IfAddrTLV{code: ia.code, Addrs: ia.addrs})
	}
	if a.Has(AttrMetric) {
		out = append(out, &Uint32TLV{code: SubTLVMetric, Value: a.Metric})
	}
	if a.Has(AttrMaxBw) {
		out = append(out, &BandwidthTLV{code: SubTLVMaxBw, Bw: a.MaxBw})
	}
	if a.Has(AttrMaxResvBw) {
		out = append(out, &BandwidthTLV{code: SubTLVMaxResvBw, Bw: a.MaxResvBw})
	}
	if a.Has(AttrUnresvBw) {
		out = append(out, &UnresvBwTLV{Bw: a.UnresvBw})
	}
	if a.Has(AttrColor) {
		out = append(out, &Uint32TLV{code: SubTLVColor, Value: a.Color})
	}
	if a.Has(AttrLinkIDs) {
		out = append(out, &LinkIDsTLV{Local: a.LocalID, Remote: a.RemoteID})
	}
	if a.Has(AttrProtection) {
		out = append(out, &ProtectionTLV{Protection: a.Protection})
	}
	if a.Has(AttrISCs) {
		for _, d := range a.ISCs {
			out = append(out, &ISCDTLV{ISCD: d})
		}
	}
	if a.Has(AttrSRLGs) {
		out = append(out, &SRLGTLV{SRLGs: a.SRLGs})
	}
	if a.Has(AttrCalendar) {
		out = append(out, &CalendarTLV{Events: a.Calendar})
	}
	if a.Has(AttrAmplifiers) {
		out = append(out, &AmplifierTLV{Amplifiers: a.Amplifiers})
	}
	if a.Has(AttrLambdas) {
		out = append(out, &LambdaTLV{Lambdas: a.Lambdas})
	}
	return out, nil
}

// Encode serializes the declared attributes as a Link TLV.
func (a LinkAttrs) Encode() ([]byte, error) {
	subs, err := a.subTLVs()
	if err != nil {
		return nil, err
	}
	body := &bytes.Buffer{}
	for _, s := range subs {
		if err := writeTLV(body, s.Type(), s.Serialize()); err != nil {
			return nil, err
		}
	}
	buf := &bytes.Buffer{}
	if err := writeTLV(buf, TLVLink, body.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeLinkTLV decodes a Link TLV. Unknown sub-TLVs are skipped. A malformed
// sub-TLV is dropped and reported while the others are still decoded, so the
// returned attributes may be partial when err is non nil.
func DecodeLinkTLV(data []byte) (LinkAttrs, error) {
	attrs := LinkAttrs{}
	t, value, _, err := readTLV(data)
	if err != nil {
		return attrs, err
	}
	if t != TLVLink {
		return attrs, decodeErr(t, "not a Link TLV")
	}
	var errs []error
	for len(value) > 0 {
		st, sv, rest, err := readTLV(value)
		if err != nil {
			// framing is lost, nothing after this point can be trusted
			errs = append(errs, err)
			break
		}
		value = rest
		sub := NewSubTLVByType(st)
		if sub == nil {
			glog.V(4).Infof("DecodeLinkTLV: skipping unknown sub-TLV %d (%d bytes)", st, len(sv))
			continue
		}
		if err := sub.Parse(sv); err != nil {
			glog.V(2).Infof("DecodeLinkTLV: dropping sub-TLV %d: %v", st, err)
			errs = append(errs, err)
			continue
		}
		sub.apply(&attrs)
	}
	return attrs, errors.Join(errs...)
}

// Encode serializes the node as a Router Address TLV followed by a Node
// Attribute TLV, each present only when it has something declared. Declared
// TNAs must not be empty, as an empty list has no wire form.
func (n NodeAttrs) Encode() ([]byte, error) {
	buf := &bytes.Buffer{}
	if n.Has(NodeRouterID) {
		if n.RouterID.Type() != addr.TypeIPv4 {
			return nil, decodeErr(TLVRouterAddr, "router id %s is not IPv4", n.RouterID)
		}
		if err := writeTLV(buf, TLVRouterAddr, n.RouterID.Bytes()); err != nil {
			return nil, err
		}
	}
	if n.Has(NodeTNAs) && len(n.TNAs) == 0 {
		return nil, decodeErr(TLVNodeAttr, "TNAs declared but none given")
	}
	if !n.Has(NodeID) && !n.Has(NodeTNAs) {
		return buf.Bytes(), nil
	}
	body := &bytes.Buffer{}
	if n.Has(NodeID) {
		if n.NodeID.Type() != addr.TypeIPv4 {
			return nil, decodeErr(SubTLVNodeID, "node id %s is not IPv4", n.NodeID)
		}
		if err := writeTLV(body, SubTLVNodeID, n.NodeID.Bytes()); err != nil {
			return nil, err
		}
	}
	if n.Has(NodeTNAs) {
		for _, tna := range n.TNAs {
			code, err := tnaCode(tna.Type())
			if err != nil {
				return nil, err
			}
			v := append([]byte{tna.PrefixLen(), 0, 0, 0}, tna.Bytes()...)
			if err := writeTLV(body, code, v); err != nil {
				return nil, err
			}
		}
	}
	if err := writeTLV(buf, TLVNodeAttr, body.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tnaCode(t addr.Type) (uint16, error) {
	switch t {
	case addr.TypeIPv4:
		return SubTLVTNAIPv4, nil
	case addr.TypeIPv6:
		return SubTLVTNAIPv6, nil
	case addr.TypeNSAP:
		return SubTLVTNANSAP, nil
	}
	return 0, decodeErr(TLVNodeAttr, "no TNA sub-TLV for %s addresses", t)
}

func tnaType(code uint16) addr.Type {
	switch code {
	case SubTLVTNAIPv4:
		return addr.TypeIPv4
	case SubTLVTNAIPv6:
		return addr.TypeIPv6
	case SubTLVTNANSAP:
		return addr.TypeNSAP
	}
	return addr.TypeNone
}

func parseTNA(code uint16, data []byte) (addr.Addr, error) {
	t := tnaType(code)
	if err := checkLen(code, data, tnaHdrLen+t.ByteLen()); err != nil {
		return addr.Addr{}, err
	}
	a, err := addr.Make(t, data[tnaHdrLen:])
	if err != nil {
		return addr.Addr{}, decodeErr(code, "%v", err)
	}
	if a, err = a.WithPrefix(data[0]); err != nil {
		return addr.Addr{}, decodeErr(code, "%v", err)
	}
	return a, nil
}

// DecodeNodeTLVs decodes a sequence of top level TLVs into node attributes.
// Link TLVs and unknown TLVs are skipped.
func DecodeNodeTLVs(data []byte) (NodeAttrs, error) {
	n := NodeAttrs{}
	var errs []error
	for len(data) > 0 {
		t, value, rest, err := readTLV(data)
		if err != nil {
			errs = append(errs, err)
			break
		}
		data = rest
		switch t {
		case TLVRouterAddr:
			if err := checkLen(t, value, 4); err != nil {
				errs = append(errs, err)
				continue
			}
			n.RouterID, _ = addr.Make(addr.TypeIPv4, value)
			n.Mask |= NodeRouterID
		case TLVNodeAttr:
			errs = append(errs, n.decodeNodeAttr(value)...)
		default:
			glog.V(4).Infof("DecodeNodeTLVs: skipping TLV %d", t)
		}
	}
	return n, errors.Join(errs...)
}

func (n *NodeAttrs) decodeNodeAttr(value []byte) (errs []error) {
	for len(value) > 0 {
		st, sv, rest, err := readTLV(value)
		if err != nil {
			return append(errs, err)
		}
		value = rest
		switch st {
		case SubTLVNodeID:
			if err := checkLen(st, sv, 4); err != nil {
				errs = append(errs, err)
				continue
			}
			n.NodeID, _ = addr.Make(addr.TypeIPv4, sv)
			n.Mask |= NodeID
		case SubTLVTNAIPv4, SubTLVTNAIPv6, SubTLVTNANSAP:
			tna, err := parseTNA(st, sv)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !n.Has(NodeTNAs) {
				n.TNAs = nil
			}
			n.TNAs = append(n.TNAs, tna)
			n.Mask |= NodeTNAs
		default:
			glog.V(4).Infof("decodeNodeAttr: skipping sub-TLV %d", st)
		}
	}
	return
}
