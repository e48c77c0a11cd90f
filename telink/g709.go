package telink

import "fmt"

// G.709 ODUk labels, RFC 4328. Counting from the least significant bit:
//
//	31..10  reserved
//	9..4    t3
//	3..1    t2
//	0       t1
const (
	oduT1Mask  = 0x1
	oduT2Shift = 1
	oduT2Mask  = 0x7
	oduT3Shift = 4
	oduT3Mask  = 0x3f
)

type ODUType uint8

const (
	ODUUnknown ODUType = iota
	ODU1
	ODU2
	ODU3
)

func (o ODUType) String() string {
	switch o {
	case ODUUnknown:
		return "UNKNOWN"
	case ODU1:
		return "ODU1"
	case ODU2:
		return "ODU2"
	case ODU3:
		return "ODU3"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(o))
}

// ODULabel is a decomposed G.709 ODUk label.
type ODULabel struct {
	T1, T2, T3 uint8
}

func DecodeODU(label uint32) ODULabel {
	return ODULabel{
		T1: uint8(label & oduT1Mask),
		T2: uint8(label >> oduT2Shift & oduT2Mask),
		T3: uint8(label >> oduT3Shift & oduT3Mask),
	}
}

func (l ODULabel) Encode() uint32 {
	return uint32(l.T3&oduT3Mask)<<oduT3Shift |
		uint32(l.T2&oduT2Mask)<<oduT2Shift |
		uint32(l.T1&oduT1Mask)
}

// Type maps the label to the ODU it designates. Exactly one of t1, t2, t3
// may be set:
//
//	t3 = 1       ODU3
//	t3 = 2..17   ODU1 in ODU3
//	t3 = 18..21  ODU2 in ODU3
//	t2 = 1       ODU2
//	t2 = 2..5    ODU1 in ODU2
//	t1 = 1       ODU1
func (l ODULabel) Type() ODUType {
	switch {
	case l.T3 != 0 && l.T2 == 0 && l.T1 == 0:
		switch {
		case l.T3 == 1:
			return ODU3
		case l.T3 <= 17:
			return ODU1
		case l.T3 <= 21:
			return ODU2
		}
	case l.T2 != 0 && l.T3 == 0 && l.T1 == 0:
		switch {
		case l.T2 == 1:
			return ODU2
		case l.T2 <= 5:
			return ODU1
		}
	case l.T1 == 1 && l.T2 == 0 && l.T3 == 0:
		return ODU1
	}
	return ODUUnknown
}
