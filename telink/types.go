// Package telink holds the traffic-engineering link and node attributes
// advertised in opaque TE LSAs (RFC 3630, RFC 4203 and the optical
// extensions), their bit-packed label formats and the TLV codec that moves them
// on and off the wire.
package telink

import (
	"fmt"
	"strings"
)

// Reference: RFC 3471, RFC 4202, RFC 4203

// NumPriorities is the number of setup/holding priorities bandwidth is
// tracked for.
const NumPriorities = 8

// SwitchingCap is an interface switching capability. Values are the wire codes.
type SwitchingCap uint8

const (
	SwCapPSC1 SwitchingCap = 1
	SwCapPSC2 SwitchingCap = 2
	SwCapPSC3 SwitchingCap = 3
	SwCapPSC4 SwitchingCap = 4
	SwCapL2SC SwitchingCap = 51
	SwCapTDM  SwitchingCap = 100
	SwCapLSC  SwitchingCap = 150
	SwCapFSC  SwitchingCap = 200
)

var swCapNames = map[SwitchingCap]string{
	SwCapPSC1: "PSC-1",
	SwCapPSC2: "PSC-2",
	SwCapPSC3: "PSC-3",
	SwCapPSC4: "PSC-4",
	SwCapL2SC: "L2SC",
	SwCapTDM:  "TDM",
	SwCapLSC:  "LSC",
	SwCapFSC:  "FSC",
}

// SwitchingCapFromWire maps a wire code to a SwitchingCap. Unknown codes are
// an error.
func SwitchingCapFromWire(v uint8) (SwitchingCap, error) {
	s := SwitchingCap(v)
	if _, ok := swCapNames[s]; !ok {
		return 0, &DecodeError{msg: fmt.Sprintf("unknown switching capability %d", v), Type: SubTLVISCD}
	}
	return s, nil
}

func (s SwitchingCap) String() string {
	if name, ok := swCapNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
}

func (s SwitchingCap) IsPSC() bool {
	return s >= SwCapPSC1 && s <= SwCapPSC4
}

// Encoding is an LSP encoding type. Values are the wire codes.
type Encoding uint8

const (
	EncPacket         Encoding = 1
	EncEthernet       Encoding = 2
	EncPDH            Encoding = 3
	EncSDH            Encoding = 5
	EncDigitalWrapper Encoding = 7
	EncLambda         Encoding = 8
	EncFiber          Encoding = 9
	EncFiberChannel   Encoding = 11
	EncG709ODU        Encoding = 12
	EncG709OCh        Encoding = 13
)

var encNames = map[Encoding]string{
	EncPacket:         "PACKET",
	EncEthernet:       "ETHERNET",
	EncPDH:            "PDH",
	EncSDH:            "SDH",
	EncDigitalWrapper: "DIGITAL_WRAPPER",
	EncLambda:         "LAMBDA",
	EncFiber:          "FIBER",
	EncFiberChannel:   "FIBER_CHANNEL",
	EncG709ODU:        "G709_ODU",
	EncG709OCh:        "G709_OC",
}

// EncodingFromWire maps a wire code to an Encoding. Reserved and unknown codes
// are an error.
func EncodingFromWire(v uint8) (Encoding, error) {
	e := Encoding(v)
	if _, ok := encNames[e]; !ok {
		return 0, &DecodeError{msg: fmt.Sprintf("unknown encoding type %d", v), Type: SubTLVISCD}
	}
	return e, nil
}

func (e Encoding) String() string {
	if name, ok := encNames[e]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(e))
}

type LinkType uint8

const (
	LinkPointToPoint LinkType = 1
	LinkMultiAccess  LinkType = 2
)

func (t LinkType) String() string {
	switch t {
	case LinkPointToPoint:
		return "P2P"
	case LinkMultiAccess:
		return "MULTI_ACCESS"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// Protection is the link protection type bit mask of RFC 4202.
type Protection uint8

const (
	ProtExtraTraffic Protection = 0x01
	ProtUnprotected  Protection = 0x02
	ProtShared       Protection = 0x04
	ProtDedicated1T1 Protection = 0x08
	ProtDedicated1P1 Protection = 0x10
	ProtEnhanced     Protection = 0x20
)

func (p Protection) String() string {
	names := []struct {
		bit  Protection
		name string
	}{
		{ProtExtraTraffic, "EXTRA"},
		{ProtUnprotected, "UNPROTECTED"},
		{ProtShared, "SHARED"},
		{ProtDedicated1T1, "1:1"},
		{ProtDedicated1P1, "1+1"},
		{ProtEnhanced, "ENHANCED"},
	}
	var parts []string
	for _, n := range names {
		if p&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}
