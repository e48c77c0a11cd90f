package telink

import "fmt"

// SDH/SONET labels, RFC 4606:
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|               S               |   U   |   K   |   L   |   M   |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
const (
	sdhSShift = 16
	sdhUShift = 12
	sdhKShift = 8
	sdhLShift = 4
	sdhSMask  = 0xffff
	sdhNibble = 0xf
)

// SignalType is the SDH/SONET signal a label designates.
type SignalType uint8

const (
	SignalUnknown SignalType = iota
	SignalVC4
	SignalVC3AU3
	SignalVC3TUG3
	SignalVC2
	SignalVC12
	SignalVC11
)

func (s SignalType) String() string {
	switch s {
	case SignalUnknown:
		return "UNKNOWN"
	case SignalVC4:
		return "STS-3c/VC-4"
	case SignalVC3AU3:
		return "STS-1/VC-3(AU-3)"
	case SignalVC3TUG3:
		return "VC-3(TUG-3)"
	case SignalVC2:
		return "VT6/VC-2"
	case SignalVC12:
		return "VT2/VC-12"
	case SignalVC11:
		return "VT1.5/VC-11"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
}

// SUKLM is a decomposed SDH/SONET label.
type SUKLM struct {
	S          uint16
	U, K, L, M uint8
}

func DecodeSUKLM(label uint32) SUKLM {
	return SUKLM{
		S: uint16(label >> sdhSShift & sdhSMask),
		U: uint8(label >> sdhUShift & sdhNibble),
		K: uint8(label >> sdhKShift & sdhNibble),
		L: uint8(label >> sdhLShift & sdhNibble),
		M: uint8(label & sdhNibble),
	}
}

func (l SUKLM) Encode() uint32 {
	return uint32(l.S)<<sdhSShift |
		uint32(l.U&sdhNibble)<<sdhUShift |
		uint32(l.K&sdhNibble)<<sdhKShift |
		uint32(l.L&sdhNibble)<<sdhLShift |
		uint32(l.M&sdhNibble)
}

// SignalType derives the signal a label designates. Bit patterns not covered
// by RFC 4606 map to SignalUnknown.
func (l SUKLM) SignalType() SignalType {
	switch {
	case l.S == 0:
		return SignalUnknown
	case l.U > 0 && l.K > 0:
		return SignalUnknown
	case l.L == 0 && l.M == 0:
		switch {
		case l.U == 0 && l.K == 0:
			return SignalVC4
		case l.U > 0:
			return SignalVC3AU3
		default:
			return SignalVC3TUG3
		}
	case l.L == 0 || l.L > 7:
		return SignalUnknown
	case l.U == 0 && l.K == 0:
		// a TUG-2 needs a TUG-3 or an AU-3 to live in
		return SignalUnknown
	}
	switch {
	case l.M == 1:
		return SignalVC2
	case l.M >= 2 && l.M <= 4:
		return SignalVC12
	case l.M >= 5 && l.M <= 8:
		return SignalVC11
	}
	return SignalUnknown
}

func (l SUKLM) String() string {
	return fmt.Sprintf("S=%d U=%d K=%d L=%d M=%d (%s)", l.S, l.U, l.K, l.L, l.M, l.SignalType())
}
