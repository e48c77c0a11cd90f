package telink

import "fmt"

// WDM lambda labels. Counting from the least significant bit:
//
//	31..29  grid
//	28..25  channel spacing (DWDM only)
//	24      sign of n, set for negative (DWDM only)
//	23..16  reserved
//	15..0   n for DWDM, the wavelength in nm for CWDM
const (
	wdmGridShift = 29
	wdmGridMask  = 0x7
	wdmCSShift   = 25
	wdmCSMask    = 0xf
	wdmSignBit   = 1 << 24
	wdmNMask     = 0xffff

	// DWDMAnchorTHz is the ITU-T G.694.1 anchor frequency.
	DWDMAnchorTHz = 193.1
)

type Grid uint8

const (
	GridReserved Grid = 0
	GridDWDM     Grid = 1
	GridCWDM     Grid = 2
)

func (g Grid) String() string {
	switch g {
	case GridDWDM:
		return "ITU-T-DWDM"
	case GridCWDM:
		return "ITU-T-CWDM"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(g))
}

// ChannelSpacing is the DWDM channel spacing code.
type ChannelSpacing uint8

const (
	CS100GHz  ChannelSpacing = 1
	CS50GHz   ChannelSpacing = 2
	CS25GHz   ChannelSpacing = 3
	CS12_5GHz ChannelSpacing = 4
)

// THz returns the frequency quantum of the spacing, or 0 if unknown.
func (c ChannelSpacing) THz() float64 {
	switch c {
	case CS100GHz:
		return 0.1
	case CS50GHz:
		return 0.05
	case CS25GHz:
		return 0.025
	case CS12_5GHz:
		return 0.0125
	}
	return 0
}

func (c ChannelSpacing) String() string {
	switch c {
	case CS100GHz:
		return "100GHz"
	case CS50GHz:
		return "50GHz"
	case CS25GHz:
		return "25GHz"
	case CS12_5GHz:
		return "12.5GHz"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
}

// DWDMLabel is a decomposed DWDM lambda label.
type DWDMLabel struct {
	Grid     Grid
	Spacing  ChannelSpacing
	Negative bool
	N        uint16
}

func DecodeDWDM(label uint32) DWDMLabel {
	return DWDMLabel{
		Grid:     Grid(label >> wdmGridShift & wdmGridMask),
		Spacing:  ChannelSpacing(label >> wdmCSShift & wdmCSMask),
		Negative: label&wdmSignBit != 0,
		N:        uint16(label & wdmNMask),
	}
}

func (l DWDMLabel) Encode() uint32 {
	v := uint32(l.Grid&wdmGridMask)<<wdmGridShift |
		uint32(l.Spacing&wdmCSMask)<<wdmCSShift |
		uint32(l.N)
	if l.Negative {
		v |= wdmSignBit
	}
	return v
}

// FrequencyTHz returns 193.1 THz shifted by n channel spacings. It fails for
// labels not on the DWDM grid or with an unknown spacing.
func (l DWDMLabel) FrequencyTHz() (float64, error) {
	if l.Grid != GridDWDM {
		return 0, fmt.Errorf("DWDMLabel.FrequencyTHz: grid %s is not DWDM", l.Grid)
	}
	q := l.Spacing.THz()
	if q == 0 {
		return 0, fmt.Errorf("DWDMLabel.FrequencyTHz: unknown channel spacing %d", uint8(l.Spacing))
	}
	off := float64(l.N) * q
	if l.Negative {
		off = -off
	}
	return DWDMAnchorTHz + off, nil
}

func (l DWDMLabel) String() string {
	f, err := l.FrequencyTHz()
	if err != nil {
		return fmt.Sprintf("%s cs %s n %d", l.Grid, l.Spacing, l.N)
	}
	return fmt.Sprintf("%s %.4fTHz", l.Grid, f)
}

// CWDMLabel is a decomposed CWDM lambda label.
type CWDMLabel struct {
	Grid       Grid
	Wavelength uint16 // nm
}

func DecodeCWDM(label uint32) CWDMLabel {
	return CWDMLabel{
		Grid:       Grid(label >> wdmGridShift & wdmGridMask),
		Wavelength: uint16(label & wdmNMask),
	}
}

func (l CWDMLabel) Encode() uint32 {
	return uint32(l.Grid&wdmGridMask)<<wdmGridShift | uint32(l.Wavelength)
}

func (l CWDMLabel) String() string {
	return fmt.Sprintf("%s %dnm", l.Grid, l.Wavelength)
}
