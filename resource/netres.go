// Package resource implements the sparse descriptor algebra used by the
// resource manager: network, grid and call descriptors whose fields are
// independently declared through a mask, with validation, selective merge and
// equality.
//
// A field's value is meaningful only when its mask bit is set. Merge copies
// exactly the declared fields of the source; every slice or string-backed
// value is deep-copied so two descriptors never share storage.
package resource

import (
	"fmt"
	"strings"

	"github.com/mayuresh82/go-gmpls-te/addr"
)

// ValidationError is returned when a descriptor fails its invariants. The
// submitting peer is expected to fix Field and resubmit.
type ValidationError struct {
	msg   string
	Field string
}

func (e ValidationError) Error() string {
	return e.msg
}

func invalid(field, format string, args ...interface{}) error {
	return ValidationError{msg: fmt.Sprintf(format, args...), Field: field}
}

type NetResMask uint8

const (
	NetResTNA NetResMask = 1 << iota
	NetResDataLink
	NetResLabel
)

// NetResSpec identifies a network resource: a TNA address, optionally
// narrowed to a data link and a label on it.
type NetResSpec struct {
	Mask     NetResMask
	TNA      addr.Addr
	DataLink addr.Addr
	Label    addr.Label
}

func (s NetResSpec) Has(bit NetResMask) bool {
	return s.Mask&bit != 0
}

// Validate checks that a non-null TNA is declared, and that a declared label
// is non-null and accompanied by a declared, non-null data link.
func (s NetResSpec) Validate() error {
	if !s.Has(NetResTNA) {
		return invalid("tna", "NetResSpec.Validate: TNA address not declared")
	}
	if s.TNA.IsNull() {
		return invalid("tna", "NetResSpec.Validate: TNA address is null")
	}
	if !s.Has(NetResLabel) {
		return nil
	}
	if !s.Has(NetResDataLink) {
		return invalid("data_link", "NetResSpec.Validate: label declared without data link")
	}
	if s.DataLink.IsNull() {
		return invalid("data_link", "NetResSpec.Validate: data link is null")
	}
	if s.Label.IsNull() {
		return invalid("label", "NetResSpec.Validate: label is null")
	}
	return nil
}

// IsNull reports whether TNA, data link and label are all null, whatever the
// mask says.
func (s NetResSpec) IsNull() bool {
	return s.TNA.IsNull() && s.DataLink.IsNull() && s.Label.IsNull()
}

// Merge copies every field declared in src into s.
func (s *NetResSpec) Merge(src NetResSpec) {
	if src.Has(NetResTNA) {
		s.Mask &^= NetResTNA
		s.TNA = src.TNA
		s.Mask |= NetResTNA
	}
	if src.Has(NetResDataLink) {
		s.Mask &^= NetResDataLink
		s.DataLink = src.DataLink
		s.Mask |= NetResDataLink
	}
	if src.Has(NetResLabel) {
		s.Mask &^= NetResLabel
		s.Label = src.Label
		s.Mask |= NetResLabel
	}
}

// MergeValid merges src into s only if the result validates. On error s is
// left unchanged.
func (s *NetResSpec) MergeValid(src NetResSpec) error {
	tmp := *s
	tmp.Merge(src)
	if err := tmp.Validate(); err != nil {
		return err
	}
	*s = tmp
	return nil
}

func (s NetResSpec) Equal(o NetResSpec) bool {
	if s.Mask != o.Mask {
		return false
	}
	if s.Has(NetResTNA) && !s.TNA.Equal(o.TNA) {
		return false
	}
	if s.Has(NetResDataLink) && !s.DataLink.Equal(o.DataLink) {
		return false
	}
	if s.Has(NetResLabel) && !s.Label.Equal(o.Label) {
		return false
	}
	return true
}

func (s NetResSpec) String() string {
	var parts []string
	if s.Has(NetResTNA) {
		parts = append(parts, "tna "+s.TNA.String())
	}
	if s.Has(NetResDataLink) {
		parts = append(parts, "dl "+s.DataLink.String())
	}
	if s.Has(NetResLabel) {
		parts = append(parts, "label "+s.Label.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
