// Package addr models the address and label families carried by the GMPLS
// control plane: IPv4, IPv6, unnumbered interface ids and NSAP addresses, plus
// 32-bit and 60-bit generalized labels.
package addr

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

// Type discriminates between the address families.
type Type uint8

const (
	TypeNone Type = iota
	TypeIPv4
	TypeIPv6
	TypeUnnumbered
	TypeNSAP
)

const (
	IPv4Len       = 4
	IPv6Len       = 16
	UnnumberedLen = 4
	NSAPLen       = 20
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeIPv4:
		return "IPv4"
	case TypeIPv6:
		return "IPv6"
	case TypeUnnumbered:
		return "Unnumbered"
	case TypeNSAP:
		return "NSAP"
	}
	return fmt.Sprintf("UNKNOWN (%d)", uint8(t))
}

// MaxPrefix returns the canonical (and maximum) prefix length of the family.
// Unnumbered ids have no subnetting, so their prefix is always 0.
func (t Type) MaxPrefix() uint8 {
	switch t {
	case TypeIPv4:
		return 32
	case TypeIPv6:
		return 128
	case TypeNSAP:
		return 160
	}
	return 0
}

// ByteLen returns the payload size of the family, or 0 for unknown types.
func (t Type) ByteLen() int {
	switch t {
	case TypeIPv4:
		return IPv4Len
	case TypeIPv6:
		return IPv6Len
	case TypeUnnumbered:
		return UnnumberedLen
	case TypeNSAP:
		return NSAPLen
	}
	return 0
}

// Addr is a network address of one of the supported families. Each family
// keeps its payload in its own field; the zero value has TypeNone and is null.
//
// Addr is comparable and can be used as a map key, but == also compares the
// prefix length. Use Equal for address identity.
type Addr struct {
	t      Type
	prefix uint8
	ipv4   uint32
	ipv6   [4]uint32
	unnum  uint32
	nsap   [5]uint32
}

// Make builds an address of type t from its raw big-endian bytes and sets the
// canonical prefix length of the family.
func Make(t Type, b []byte) (Addr, error) {
	n := t.ByteLen()
	if n == 0 {
		return Addr{}, fmt.Errorf("addr.Make: unknown address type %d", uint8(t))
	}
	if len(b) != n {
		return Addr{}, fmt.Errorf("addr.Make: %s address needs %d bytes, got %d", t, n, len(b))
	}
	a := Addr{t: t, prefix: t.MaxPrefix()}
	switch t {
	case TypeIPv4:
		a.ipv4 = binary.BigEndian.Uint32(b)
	case TypeIPv6:
		for i := range a.ipv6 {
			a.ipv6[i] = binary.BigEndian.Uint32(b[4*i:])
		}
	case TypeUnnumbered:
		a.unnum = binary.BigEndian.Uint32(b)
	case TypeNSAP:
		for i := range a.nsap {
			a.nsap[i] = binary.BigEndian.Uint32(b[4*i:])
		}
	}
	return a, nil
}

func IPv4(b [4]byte) Addr {
	return Addr{t: TypeIPv4, prefix: 32, ipv4: binary.BigEndian.Uint32(b[:])}
}

func IPv6(b [16]byte) Addr {
	a, _ := Make(TypeIPv6, b[:])
	return a
}

func Unnumbered(id uint32) Addr {
	return Addr{t: TypeUnnumbered, unnum: id}
}

func NSAP(b [20]byte) Addr {
	a, _ := Make(TypeNSAP, b[:])
	return a
}

// WithPrefix returns a copy of a with the given prefix length.
func (a Addr) WithPrefix(prefix uint8) (Addr, error) {
	if a.t.ByteLen() == 0 {
		return a, fmt.Errorf("addr.WithPrefix: unknown address type %d", uint8(a.t))
	}
	if prefix > a.t.MaxPrefix() {
		return a, fmt.Errorf("addr.WithPrefix: prefix %d out of range for %s", prefix, a.t)
	}
	a.prefix = prefix
	return a, nil
}

func (a Addr) Type() Type {
	return a.t
}

func (a Addr) PrefixLen() uint8 {
	return a.prefix
}

// Uint32 returns the payload of an IPv4 or unnumbered address.
func (a Addr) Uint32() uint32 {
	if a.t == TypeUnnumbered {
		return a.unnum
	}
	return a.ipv4
}

// words returns the payload of the active family as 32-bit words, most
// significant first.
func (a Addr) words() []uint32 {
	switch a.t {
	case TypeIPv4:
		return []uint32{a.ipv4}
	case TypeIPv6:
		return a.ipv6[:]
	case TypeUnnumbered:
		return []uint32{a.unnum}
	case TypeNSAP:
		return a.nsap[:]
	}
	return nil
}

// Bytes returns the raw big-endian payload of the active family.
func (a Addr) Bytes() []byte {
	w := a.words()
	b := make([]byte, 4*len(w))
	for i, v := range w {
		binary.BigEndian.PutUint32(b[4*i:], v)
	}
	return b
}

// IsNull reports whether every payload byte of the active family is zero.
func (a Addr) IsNull() bool {
	for _, w := range a.words() {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal compares family and payload. The prefix length is ignored.
func Equal(a, b Addr) bool {
	if a.t != b.t {
		return false
	}
	switch a.t {
	case TypeIPv4:
		return a.ipv4 == b.ipv4
	case TypeIPv6:
		return a.ipv6 == b.ipv6
	case TypeUnnumbered:
		return a.unnum == b.unnum
	case TypeNSAP:
		return a.nsap == b.nsap
	}
	return true
}

func (a Addr) Equal(b Addr) bool {
	return Equal(a, b)
}

// InNetwork reports whether a lies inside net. Both must be of the same family,
// net's prefix must not be longer than a's and the high net.PrefixLen() bits
// must match. Unnumbered ids never match. Any precondition violation yields
// false.
func InNetwork(net, a Addr) bool {
	if net.t != a.t || net.t == TypeUnnumbered {
		return false
	}
	max := net.t.MaxPrefix()
	if max == 0 || net.prefix > max || a.prefix > max || net.prefix > a.prefix {
		return false
	}
	nw, aw := net.words(), a.words()
	bits := int(net.prefix)
	for i := 0; bits > 0; i++ {
		if bits >= 32 {
			if nw[i] != aw[i] {
				return false
			}
			bits -= 32
			continue
		}
		mask := ^uint32(0) << uint(32-bits)
		if nw[i]&mask != aw[i]&mask {
			return false
		}
		bits = 0
	}
	return true
}

// GreaterThan compares two addresses of the same family. IPv4 and unnumbered
// ids compare numerically. For IPv6 and NSAP every word of a must be strictly
// greater than the matching word of b; this is not a total order and must not
// be used as a sort key.
func GreaterThan(a, b Addr) bool {
	if a.t != b.t {
		return false
	}
	switch a.t {
	case TypeIPv4:
		return a.ipv4 > b.ipv4
	case TypeUnnumbered:
		return a.unnum > b.unnum
	case TypeIPv6, TypeNSAP:
		aw, bw := a.words(), b.words()
		for i := range aw {
			if aw[i] <= bw[i] {
				return false
			}
		}
		return true
	}
	return false
}

func (a Addr) String() string {
	switch a.t {
	case TypeIPv4:
		return fmt.Sprintf("%d.%d.%d.%d/%d",
			a.ipv4>>24, a.ipv4>>16&0xff, a.ipv4>>8&0xff, a.ipv4&0xff, a.prefix)
	case TypeIPv6:
		var b [16]byte
		copy(b[:], a.Bytes())
		return fmt.Sprintf("%s/%d", netip.AddrFrom16(b).String(), a.prefix)
	case TypeUnnumbered:
		return fmt.Sprintf("0x%08x", a.unnum)
	case TypeNSAP:
		return fmt.Sprintf("%08x.%08x.%08x.%08x.%08x/%d",
			a.nsap[0], a.nsap[1], a.nsap[2], a.nsap[3], a.nsap[4], a.prefix)
	}
	return fmt.Sprintf("<unknown addr type %d>", uint8(a.t))
}
