package domain

import (
	"strings"
	"unique"
)

// InternedString is a canonicalized string backed by a unique.Handle[string].
// Task names and outputs repeat across a build, so equal values share one allocation
// and compare by handle. The cache writes the handle through its string table.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// IsZero reports whether the value was never set.
func (is InternedString) IsZero() bool {
	var zero unique.Handle[string]
	return is.h == zero
}

// String returns the underlying string value.
func (is InternedString) String() string {
	if is.IsZero() {
		return ""
	}
	return is.h.Value()
}

// Value returns the underlying handle.
func (is InternedString) Value() unique.Handle[string] {
	return is.h
}

// Compare orders interned strings by their text.
func (is InternedString) Compare(other InternedString) int {
	if is.h == other.h {
		return 0
	}
	return strings.Compare(is.String(), other.String())
}
