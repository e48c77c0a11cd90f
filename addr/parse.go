package addr

import (
	"encoding/hex"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

// Parse is the inverse of Addr.String. Accepted forms:
//
//	10.0.0.1[/len]                IPv4
//	2001:db8::1[/len]             IPv6
//	0x0000000a                    unnumbered id
//	49000102.03040506.../len      NSAP, five dotted 8-digit hex words
//
// A missing prefix length selects the family's canonical length.
func Parse(s string) (Addr, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		id, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return Addr{}, fmt.Errorf("addr.Parse: bad unnumbered id %q: %v", s, err)
		}
		return Unnumbered(uint32(id)), nil
	}
	body, plen, hasPrefix := strings.Cut(s, "/")
	var (
		a   Addr
		err error
	)
	if parts := strings.Split(body, "."); len(parts) == 5 && len(parts[0]) == 8 {
		a, err = parseNSAP(parts)
	} else {
		var ip netip.Addr
		ip, err = netip.ParseAddr(body)
		if err == nil {
			if ip.Is4() {
				a = IPv4(ip.As4())
			} else {
				a = IPv6(ip.As16())
			}
		}
	}
	if err != nil {
		return Addr{}, fmt.Errorf("addr.Parse: %q: %v", s, err)
	}
	if !hasPrefix {
		return a, nil
	}
	n, err := strconv.ParseUint(plen, 10, 8)
	if err != nil {
		return Addr{}, fmt.Errorf("addr.Parse: bad prefix length in %q", s)
	}
	return a.WithPrefix(uint8(n))
}

func parseNSAP(parts []string) (Addr, error) {
	var b [NSAPLen]byte
	for i, p := range parts {
		if len(p) != 8 {
			return Addr{}, fmt.Errorf("nsap word %d must have 8 hex digits", i)
		}
		if _, err := hex.Decode(b[4*i:4*i+4], []byte(p)); err != nil {
			return Addr{}, err
		}
	}
	return NSAP(b), nil
}

// MustParse calls Parse and panics on error. It is intended for tests and
// hard-coded values.
func MustParse(s string) Addr {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseLabel parses either a 32-bit label written as 0x%08x (or decimal) or a
// 60-bit label written as mac/vlan.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	if mac, vlan, ok := strings.Cut(s, "/"); ok {
		hw, err := net.ParseMAC(mac)
		if err != nil || len(hw) != 6 {
			return Label{}, fmt.Errorf("addr.ParseLabel: bad mac in %q", s)
		}
		v, err := strconv.ParseUint(vlan, 10, 16)
		if err != nil {
			return Label{}, fmt.Errorf("addr.ParseLabel: bad vlan in %q", s)
		}
		var m [6]byte
		copy(m[:], hw)
		return NewLabel60(m, uint16(v))
	}
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return Label{}, fmt.Errorf("addr.ParseLabel: %q: %v", s, err)
	}
	return NewLabel32(uint32(id)), nil
}
