package ir

import (
	"llvet/internal/source"
	"llvet/internal/types"
)

// Attribute is one parameter, return, function or call-site attribute.
// Enum attributes carry only Kind; integer attributes (align 8,
// dereferenceable(16)) set HasInt; type attributes (byval(T), sret(T)) set
// Type; string attributes ("key"="value") set Str.
type Attribute struct {
	Kind   string
	Int    uint64
	HasInt bool
	Type   types.TypeID
	Str    bool
	Value  string // string attribute value, or raw arguments of memory(...)/allocsize(...)
	Span   source.Span
}

// AttrSet is an ordered attribute list as written.
type AttrSet []Attribute

// Has reports whether an enum/int/type attribute kind is present.
func (s AttrSet) Has(kind string) bool {
	_, ok := s.Get(kind)
	return ok
}

// Get returns the first attribute of the given kind.
func (s AttrSet) Get(kind string) (Attribute, bool) {
	for _, a := range s {
		if !a.Str && a.Kind == kind {
			return a, true
		}
	}
	return Attribute{}, false
}

// GetString returns a "key"="value" attribute.
func (s AttrSet) GetString(key string) (Attribute, bool) {
	for _, a := range s {
		if a.Str && a.Kind == key {
			return a, true
		}
	}
	return Attribute{}, false
}

// Merge returns s followed by other.
func (s AttrSet) Merge(other AttrSet) AttrSet {
	if len(other) == 0 {
		return s
	}
	out := make(AttrSet, 0, len(s)+len(other))
	out = append(out, s...)
	return append(out, other...)
}
