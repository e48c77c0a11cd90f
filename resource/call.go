package resource

import (
	"fmt"

	"github.com/mayuresh82/go-gmpls-te/addr"
)

type CallType uint8

const (
	CallNull CallType = iota
	CallOperatorSpecific
	CallGloballyUnique
)

func (t CallType) String() string {
	switch t {
	case CallNull:
		return "NULL"
	case CallOperatorSpecific:
		return "OPERATOR_SPECIFIC"
	case CallGloballyUnique:
		return "GLOBALLY_UNIQUE"
	}
	return fmt.Sprintf("UNKNOWN (%d)", uint8(t))
}

// Role is the kind of adjacency a call is signalled over.
type Role uint8

const (
	RoleUNI Role = iota
	RoleINNI
	RoleENNI
)

func (r Role) String() string {
	switch r {
	case RoleUNI:
		return "UNI"
	case RoleINNI:
		return "INNI"
	case RoleENNI:
		return "ENNI"
	}
	return fmt.Sprintf("UNKNOWN (%d)", uint8(r))
}

// Lengths of the ITU-T segments of a globally unique call id.
const (
	CountryCodeLen = 3
	MaxCarrierLen  = 6
	MaxUniqueAPLen = 13
)

// CallIdent identifies a call. Country, Carrier and UniqueAP are only
// meaningful for globally unique calls.
type CallIdent struct {
	Type     CallType
	Src      addr.Addr
	LocalID  uint64
	Country  string
	Carrier  string
	UniqueAP string
}

// IsNull reports whether the identity carries no payload. The type is not
// considered.
func (c CallIdent) IsNull() bool {
	return c.Src.IsNull() && c.LocalID == 0 &&
		c.Country == "" && c.Carrier == "" && c.UniqueAP == ""
}

func (c CallIdent) Equal(o CallIdent) bool {
	if c.Type != o.Type || !c.Src.Equal(o.Src) || c.LocalID != o.LocalID {
		return false
	}
	if c.Type == CallGloballyUnique {
		return c.Country == o.Country && c.Carrier == o.Carrier && c.UniqueAP == o.UniqueAP
	}
	return true
}

func (c CallIdent) String() string {
	if c.Type == CallGloballyUnique {
		return fmt.Sprintf("%s %s/%s/%s src %s id %d",
			c.Type, c.Country, c.Carrier, c.UniqueAP, c.Src, c.LocalID)
	}
	return fmt.Sprintf("%s src %s id %d", c.Type, c.Src, c.LocalID)
}

// ValidateCallIdent checks an identity against the adjacency it arrives on.
// UNI and ENNI need a non-null identity. INNI rejects a non-null identity
// whose type is NULL.
func ValidateCallIdent(c CallIdent, role Role) error {
	if c.Type > CallGloballyUnique {
		return invalid("call_ident", "ValidateCallIdent: unknown call type %d", uint8(c.Type))
	}
	if c.Type == CallGloballyUnique {
		if len(c.Country) != CountryCodeLen {
			return invalid("call_ident", "ValidateCallIdent: country code must have %d chars", CountryCodeLen)
		}
		if c.Carrier == "" || len(c.Carrier) > MaxCarrierLen {
			return invalid("call_ident", "ValidateCallIdent: bad carrier code %q", c.Carrier)
		}
		if len(c.UniqueAP) > MaxUniqueAPLen {
			return invalid("call_ident", "ValidateCallIdent: unique access point too long")
		}
	}
	switch role {
	case RoleUNI, RoleENNI:
		if c.IsNull() {
			return invalid("call_ident", "ValidateCallIdent: null call identity on %s", role)
		}
	case RoleINNI:
		// Only a payload under a NULL type is rejected here. A typed identity
		// with no payload is let through on INNI.
		if c.Type == CallNull && !c.IsNull() {
			return invalid("call_ident", "ValidateCallIdent: non-null identity with NULL type on INNI")
		}
	default:
		return invalid("role", "ValidateCallIdent: unknown role %d", uint8(role))
	}
	return nil
}

type ConnType uint8

const (
	ConnSwitched ConnType = iota
	ConnSoftPermanent
	ConnPermanent
)

type CallMask uint8

const (
	CallIdentBit CallMask = 1 << iota
	CallSrcTNA
	CallDstTNA
	CallBandwidth
	CallConnType
)

// CallInfo carries the attributes of a call as submitted by a signalling
// controller.
type CallInfo struct {
	Mask      CallMask
	Ident     CallIdent
	SrcTNA    addr.Addr
	DstTNA    addr.Addr
	Bandwidth float32
	ConnType  ConnType
}

func (c CallInfo) Has(bit CallMask) bool {
	return c.Mask&bit != 0
}

func (c *CallInfo) Merge(src CallInfo) {
	if src.Has(CallIdentBit) {
		c.Mask &^= CallIdentBit
		c.Ident = src.Ident
		c.Mask |= CallIdentBit
	}
	if src.Has(CallSrcTNA) {
		c.Mask &^= CallSrcTNA
		c.SrcTNA = src.SrcTNA
		c.Mask |= CallSrcTNA
	}
	if src.Has(CallDstTNA) {
		c.Mask &^= CallDstTNA
		c.DstTNA = src.DstTNA
		c.Mask |= CallDstTNA
	}
	if src.Has(CallBandwidth) {
		c.Mask &^= CallBandwidth
		c.Bandwidth = src.Bandwidth
		c.Mask |= CallBandwidth
	}
	if src.Has(CallConnType) {
		c.Mask &^= CallConnType
		c.ConnType = src.ConnType
		c.Mask |= CallConnType
	}
}

// Validate checks the call attributes for the given adjacency role. The
// identity is required; endpoints, when declared, must be non-null.
func (c CallInfo) Validate(role Role) error {
	if !c.Has(CallIdentBit) {
		return invalid("call_ident", "CallInfo.Validate: call identity not declared")
	}
	if err := ValidateCallIdent(c.Ident, role); err != nil {
		return err
	}
	if c.Has(CallSrcTNA) && c.SrcTNA.IsNull() {
		return invalid("src_tna", "CallInfo.Validate: source TNA is null")
	}
	if c.Has(CallDstTNA) && c.DstTNA.IsNull() {
		return invalid("dst_tna", "CallInfo.Validate: destination TNA is null")
	}
	if c.Has(CallBandwidth) && c.Bandwidth < 0 {
		return invalid("bandwidth", "CallInfo.Validate: negative bandwidth")
	}
	return nil
}

// MergeValid merges src into c only if the result validates for role.
func (c *CallInfo) MergeValid(src CallInfo, role Role) error {
	tmp := *c
	tmp.Merge(src)
	if err := tmp.Validate(role); err != nil {
		return err
	}
	*c = tmp
	return nil
}

func (c CallInfo) Equal(o CallInfo) bool {
	if c.Mask != o.Mask {
		return false
	}
	if c.Has(CallIdentBit) && !c.Ident.Equal(o.Ident) {
		return false
	}
	if c.Has(CallSrcTNA) && !c.SrcTNA.Equal(o.SrcTNA) {
		return false
	}
	if c.Has(CallDstTNA) && !c.DstTNA.Equal(o.DstTNA) {
		return false
	}
	if c.Has(CallBandwidth) && c.Bandwidth != o.Bandwidth {
		return false
	}
	if c.Has(CallConnType) && c.ConnType != o.ConnType {
		return false
	}
	return true
}
