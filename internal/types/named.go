package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// DeclareNamed returns the nominal struct for name, allocating an opaque
// placeholder on first use. Later references to the same name share the id.
func (c *Context) DeclareNamed(name string) TypeID {
	if id, ok := c.byName[name]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(c.named))
	if err != nil {
		panic(fmt.Errorf("len(named) overflow: %w", err))
	}
	c.named = append(c.named, NamedInfo{Name: name, Opaque: true})
	id := c.internRaw(Type{Kind: KindStruct, Named: true, Payload: slot})
	c.byName[name] = id
	return id
}

// NamedByName returns a previously declared named struct.
func (c *Context) NamedByName(name string) (TypeID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// DefineNamed fills the body of a declared named struct. A struct may refer to
// itself only through a pointer; containing itself by value (directly or via
// arrays, vectors and other named structs) is rejected.
func (c *Context) DefineNamed(id TypeID, fields []TypeID, packed bool) error {
	info, err := c.namedInfo(id)
	if err != nil {
		return err
	}
	if info.Defined {
		return fmt.Errorf("%w: %%%s", ErrRedefinition, info.Name)
	}
	if err := c.checkFields(fields); err != nil {
		return fmt.Errorf("%%%s: %w", info.Name, err)
	}
	for _, f := range fields {
		if c.containsByValue(f, id, make(map[TypeID]bool)) {
			return fmt.Errorf("%w: %%%s", ErrSelfContaining, info.Name)
		}
	}
	info.Fields = slices.Clone(fields)
	info.Packed = packed
	info.Defined = true
	info.Opaque = false
	return nil
}

// DefineOpaque records "%name = type opaque".
func (c *Context) DefineOpaque(id TypeID) error {
	info, err := c.namedInfo(id)
	if err != nil {
		return err
	}
	if info.Defined {
		return fmt.Errorf("%w: %%%s", ErrRedefinition, info.Name)
	}
	info.Defined = true
	info.Opaque = true
	return nil
}

// Named returns the descriptor of a named struct.
func (c *Context) Named(id TypeID) (NamedInfo, bool) {
	info, err := c.namedInfo(id)
	if err != nil {
		return NamedInfo{}, false
	}
	return *info, true
}

// UndefinedNamed lists named structs that were referenced but never given a
// body or "opaque", in declaration order.
func (c *Context) UndefinedNamed() []TypeID {
	var out []TypeID
	for _, id := range c.byName {
		if info, _ := c.namedInfo(id); info != nil && !info.Defined {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// NamedTypes returns all named structs in declaration order.
func (c *Context) NamedTypes() []TypeID {
	out := make([]TypeID, 0, len(c.byName))
	for _, id := range c.byName {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (c *Context) namedInfo(id TypeID) (*NamedInfo, error) {
	t, ok := c.Lookup(id)
	if !ok || t.Kind != KindStruct || !t.Named {
		return nil, ErrNotNamed
	}
	return &c.named[t.Payload], nil
}

// containsByValue reports whether id holds target without pointer indirection.
func (c *Context) containsByValue(id, target TypeID, seen map[TypeID]bool) bool {
	if id == target {
		return true
	}
	if seen[id] {
		return false
	}
	seen[id] = true
	t, ok := c.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindArray, KindVector:
		return c.containsByValue(t.Elem, target, seen)
	case KindStruct:
		for _, f := range c.StructFields(id) {
			if c.containsByValue(f, target, seen) {
				return true
			}
		}
	}
	return false
}
