package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Void     TypeID
	Label    TypeID
	Token    TypeID
	Metadata TypeID
	I1       TypeID
	I8       TypeID
	I16      TypeID
	I32      TypeID
	I64      TypeID
	Half     TypeID
	BFloat   TypeID
	Float    TypeID
	Double   TypeID
	X86FP80  TypeID
	FP128    TypeID
	PPCFP128 TypeID
	X86AMX   TypeID
	X86MMX   TypeID
	Ptr      TypeID
}

// NamedInfo describes a nominal struct declared with "%name = type ...".
type NamedInfo struct {
	Name    string
	Fields  []TypeID
	Packed  bool
	Defined bool // a body or "opaque" was given
	Opaque  bool
}

// TargetInfo stores the parameters of target("name", T..., N...).
type TargetInfo struct {
	Name  string
	Types []TypeID
	Ints  []uint32
}

// Context owns every type of one parse/verify session. It is not safe for
// concurrent use; independent sessions create their own Context.
type Context struct {
	types     []Type
	index     map[typeKey]TypeID
	lists     [][]TypeID
	listIdx   map[string]uint32
	named     []NamedInfo
	byName    map[string]TypeID
	targets   []TargetInfo
	targetIdx map[string]uint32
	builtins  Builtins
}

// NewContext constructs a Context seeded with built-in primitives.
func NewContext() *Context {
	c := &Context{
		index:     make(map[typeKey]TypeID, 64),
		listIdx:   make(map[string]uint32, 16),
		byName:    make(map[string]TypeID),
		targetIdx: make(map[string]uint32),
	}
	c.lists = append(c.lists, nil) // slot 0: пустой список
	c.listIdx[""] = 0
	c.named = append(c.named, NamedInfo{}) // reserve 0 as invalid sentinel
	c.targets = append(c.targets, TargetInfo{})
	c.internRaw(Type{Kind: KindInvalid})

	b := &c.builtins
	b.Void = c.Intern(Type{Kind: KindVoid})
	b.Label = c.Intern(Type{Kind: KindLabel})
	b.Token = c.Intern(Type{Kind: KindToken})
	b.Metadata = c.Intern(Type{Kind: KindMetadata})
	b.I1 = c.Intern(Type{Kind: KindInt, Width: 1})
	b.I8 = c.Intern(Type{Kind: KindInt, Width: 8})
	b.I16 = c.Intern(Type{Kind: KindInt, Width: 16})
	b.I32 = c.Intern(Type{Kind: KindInt, Width: 32})
	b.I64 = c.Intern(Type{Kind: KindInt, Width: 64})
	b.Half = c.Intern(Type{Kind: KindHalf})
	b.BFloat = c.Intern(Type{Kind: KindBFloat})
	b.Float = c.Intern(Type{Kind: KindFloat})
	b.Double = c.Intern(Type{Kind: KindDouble})
	b.X86FP80 = c.Intern(Type{Kind: KindX86FP80})
	b.FP128 = c.Intern(Type{Kind: KindFP128})
	b.PPCFP128 = c.Intern(Type{Kind: KindPPCFP128})
	b.X86AMX = c.Intern(Type{Kind: KindX86AMX})
	b.X86MMX = c.Intern(Type{Kind: KindX86MMX})
	b.Ptr = c.Intern(Type{Kind: KindPointer})
	return c
}

// Builtins returns TypeIDs for primitive types.
func (c *Context) Builtins() Builtins {
	return c.builtins
}

// Intern ensures the provided descriptor has a stable TypeID. Named structs
// are never merged: their descriptors carry a unique Payload slot.
func (c *Context) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := c.index[typeKey(t)]; ok {
		return id
	}
	return c.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (c *Context) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(c.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	c.types = append(c.types, t)
	c.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (c *Context) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(c.types) {
		return Type{}, false
	}
	return c.types[id], true
}

// MustLookup panics when id is invalid.
func (c *Context) MustLookup(id TypeID) Type {
	tt, ok := c.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len returns the number of interned types, the invalid sentinel included.
func (c *Context) Len() int {
	return len(c.types)
}

// internList stores ids once per distinct sequence and returns its slot.
func (c *Context) internList(ids []TypeID) uint32 {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	key := sb.String()
	if slot, ok := c.listIdx[key]; ok {
		return slot
	}
	slot, err := safecast.Conv[uint32](len(c.lists))
	if err != nil {
		panic(fmt.Errorf("len(lists) overflow: %w", err))
	}
	c.lists = append(c.lists, append([]TypeID(nil), ids...))
	c.listIdx[key] = slot
	return slot
}

func (c *Context) list(slot uint32) []TypeID {
	if int(slot) >= len(c.lists) {
		return nil
	}
	return c.lists[slot]
}
