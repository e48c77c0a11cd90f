package addr

import (
	"encoding/binary"
	"fmt"
	"net"
)

// LabelType discriminates between generalized label formats.
type LabelType uint8

const (
	LabelNone LabelType = iota
	Label32
	Label60
)

func (t LabelType) String() string {
	switch t {
	case LabelNone:
		return "None"
	case Label32:
		return "32bit"
	case Label60:
		return "60bit"
	}
	return fmt.Sprintf("UNKNOWN (%d)", uint8(t))
}

// Bit layout of a 60-bit label held in a uint64:
//
//	63..60  reserved, zero
//	59..48  VLAN id
//	47..0   MAC address, first octet most significant
const (
	vlanShift = 48
	vlanMask  = 0xfff
	macMask   = 1<<48 - 1

	MaxVLAN = vlanMask
)

// Pack60 packs a MAC address and a 12-bit VLAN id into the 60-bit label layout.
func Pack60(mac [6]byte, vlan uint16) uint64 {
	var v uint64
	for _, b := range mac {
		v = v<<8 | uint64(b)
	}
	return uint64(vlan&vlanMask)<<vlanShift | v&macMask
}

// Unpack60 is the inverse of Pack60.
func Unpack60(v uint64) (mac [6]byte, vlan uint16) {
	vlan = uint16(v >> vlanShift & vlanMask)
	for i := 5; i >= 0; i-- {
		mac[i] = byte(v)
		v >>= 8
	}
	return
}

// Label is a generalized label. The zero value has LabelNone and is null.
type Label struct {
	t    LabelType
	id   uint32
	mac  [6]byte
	vlan uint16
}

func NewLabel32(id uint32) Label {
	return Label{t: Label32, id: id}
}

func NewLabel60(mac [6]byte, vlan uint16) (Label, error) {
	if vlan > MaxVLAN {
		return Label{}, fmt.Errorf("addr.NewLabel60: vlan %d exceeds 12 bits", vlan)
	}
	return Label{t: Label60, mac: mac, vlan: vlan}, nil
}

// DecodeLabel reads a label from its wire form: 4 bytes for 32-bit labels and
// 8 bytes (see Pack60) for 60-bit labels.
func DecodeLabel(t LabelType, b []byte) (Label, error) {
	switch t {
	case Label32:
		if len(b) != 4 {
			return Label{}, fmt.Errorf("addr.DecodeLabel: 32bit label needs 4 bytes, got %d", len(b))
		}
		return NewLabel32(binary.BigEndian.Uint32(b)), nil
	case Label60:
		if len(b) != 8 {
			return Label{}, fmt.Errorf("addr.DecodeLabel: 60bit label needs 8 bytes, got %d", len(b))
		}
		v := binary.BigEndian.Uint64(b)
		if v>>60 != 0 {
			return Label{}, fmt.Errorf("addr.DecodeLabel: reserved bits set in 60bit label")
		}
		mac, vlan := Unpack60(v)
		return Label{t: Label60, mac: mac, vlan: vlan}, nil
	}
	return Label{}, fmt.Errorf("addr.DecodeLabel: unknown label type %d", uint8(t))
}

func (l Label) Type() LabelType {
	return l.t
}

func (l Label) ID() uint32 {
	return l.id
}

func (l Label) MAC() [6]byte {
	return l.mac
}

func (l Label) VLAN() uint16 {
	return l.vlan
}

// Bytes returns the wire form of the label.
func (l Label) Bytes() []byte {
	switch l.t {
	case Label32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, l.id)
		return b
	case Label60:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, Pack60(l.mac, l.vlan))
		return b
	}
	return nil
}

func (l Label) IsNull() bool {
	switch l.t {
	case Label32:
		return l.id == 0
	case Label60:
		return l.vlan == 0 && l.mac == [6]byte{}
	}
	return true
}

func (l Label) Equal(o Label) bool {
	if l.t != o.t {
		return false
	}
	switch l.t {
	case Label32:
		return l.id == o.id
	case Label60:
		return l.vlan == o.vlan && l.mac == o.mac
	}
	return true
}

func (l Label) String() string {
	switch l.t {
	case Label32:
		return fmt.Sprintf("0x%08x", l.id)
	case Label60:
		return fmt.Sprintf("%s/%d", net.HardwareAddr(l.mac[:]).String(), l.vlan)
	}
	return fmt.Sprintf("<unknown label type %d>", uint8(l.t))
}
