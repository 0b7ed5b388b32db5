package types

import "fmt"

// Kind returns the kind of id, KindInvalid for unknown ids.
func (c *Context) Kind(id TypeID) Kind {
	return c.kind(id)
}

// Equal reports type identity. Pointers are opaque, so two pointer types are
// equal exactly when their address spaces match, which interning already
// guarantees.
func (c *Context) Equal(a, b TypeID) bool {
	return a == b
}

// StructFields returns the members of a literal or named struct.
func (c *Context) StructFields(id TypeID) []TypeID {
	t, ok := c.Lookup(id)
	if !ok || t.Kind != KindStruct {
		return nil
	}
	if t.Named {
		return c.named[t.Payload].Fields
	}
	return c.list(t.Payload)
}

// IsPacked reports whether a struct is packed.
func (c *Context) IsPacked(id TypeID) bool {
	t, ok := c.Lookup(id)
	if !ok || t.Kind != KindStruct {
		return false
	}
	if t.Named {
		return c.named[t.Payload].Packed
	}
	return t.Packed
}

// IsOpaqueStruct reports whether id is a named struct without a body.
func (c *Context) IsOpaqueStruct(id TypeID) bool {
	info, err := c.namedInfo(id)
	return err == nil && info.Opaque
}

// FuncResult returns the result type of a function type.
func (c *Context) FuncResult(id TypeID) TypeID {
	t, ok := c.Lookup(id)
	if !ok || t.Kind != KindFunc {
		return NoTypeID
	}
	return t.Elem
}

// FuncParams returns the fixed parameter types of a function type.
func (c *Context) FuncParams(id TypeID) []TypeID {
	t, ok := c.Lookup(id)
	if !ok || t.Kind != KindFunc {
		return nil
	}
	return c.list(t.Payload)
}

// IsVariadic reports whether a function type accepts "...".
func (c *Context) IsVariadic(id TypeID) bool {
	t, ok := c.Lookup(id)
	return ok && t.Kind == KindFunc && t.Variadic
}

// Target returns the parameters of a target extension type.
func (c *Context) Target(id TypeID) (TargetInfo, bool) {
	t, ok := c.Lookup(id)
	if !ok || t.Kind != KindTargetExt {
		return TargetInfo{}, false
	}
	return c.targets[t.Payload], true
}

// ElementType returns the element of an array or vector.
func (c *Context) ElementType(id TypeID) TypeID {
	t, ok := c.Lookup(id)
	if !ok || (t.Kind != KindArray && t.Kind != KindVector) {
		return NoTypeID
	}
	return t.Elem
}

// ScalarType returns the element type of a vector and id itself otherwise.
func (c *Context) ScalarType(id TypeID) TypeID {
	t, ok := c.Lookup(id)
	if ok && t.Kind == KindVector {
		return t.Elem
	}
	return id
}

// VectorLen returns the (minimum) element count of a vector.
func (c *Context) VectorLen(id TypeID) (n uint64, scalable, ok bool) {
	t, found := c.Lookup(id)
	if !found || t.Kind != KindVector {
		return 0, false, false
	}
	return t.Count, t.Scalable, true
}

// ArrayLen returns the element count of an array.
func (c *Context) ArrayLen(id TypeID) (uint64, bool) {
	t, ok := c.Lookup(id)
	if !ok || t.Kind != KindArray {
		return 0, false
	}
	return t.Count, true
}

// AddrSpace returns the address space of a pointer or vector of pointers.
func (c *Context) AddrSpace(id TypeID) (uint32, bool) {
	t, ok := c.Lookup(c.ScalarType(id))
	if !ok || t.Kind != KindPointer {
		return 0, false
	}
	return t.AddrSpace, true
}

func (c *Context) IsVoid(id TypeID) bool    { return c.kind(id) == KindVoid }
func (c *Context) IsInteger(id TypeID) bool { return c.kind(id) == KindInt }
func (c *Context) IsFloat(id TypeID) bool   { return c.kind(id).IsFloat() }
func (c *Context) IsPointer(id TypeID) bool { return c.kind(id) == KindPointer }
func (c *Context) IsVector(id TypeID) bool  { return c.kind(id) == KindVector }
func (c *Context) IsStruct(id TypeID) bool  { return c.kind(id) == KindStruct }
func (c *Context) IsArray(id TypeID) bool   { return c.kind(id) == KindArray }
func (c *Context) IsFunc(id TypeID) bool    { return c.kind(id) == KindFunc }
func (c *Context) IsLabel(id TypeID) bool   { return c.kind(id) == KindLabel }
func (c *Context) IsToken(id TypeID) bool   { return c.kind(id) == KindToken }

// IsIntOrIntVector reports iN or <N x iN>.
func (c *Context) IsIntOrIntVector(id TypeID) bool {
	return c.IsInteger(c.ScalarType(id))
}

// IsFPOrFPVector reports a floating-point scalar or vector of them.
func (c *Context) IsFPOrFPVector(id TypeID) bool {
	return c.IsFloat(c.ScalarType(id))
}

// IsPtrOrPtrVector reports ptr or <N x ptr>.
func (c *Context) IsPtrOrPtrVector(id TypeID) bool {
	return c.IsPointer(c.ScalarType(id))
}

// IsAggregate reports arrays and structs.
func (c *Context) IsAggregate(id TypeID) bool {
	k := c.kind(id)
	return k == KindArray || k == KindStruct
}

// IsFirstClass reports types that can be produced by an instruction.
func (c *Context) IsFirstClass(id TypeID) bool {
	switch c.kind(id) {
	case KindInvalid, KindVoid, KindFunc:
		return false
	default:
		return true
	}
}

// IsSingleValue reports scalars and vectors.
func (c *Context) IsSingleValue(id TypeID) bool {
	k := c.kind(id)
	return k == KindInt || k.IsFloat() || k == KindPointer || k == KindVector || k == KindX86MMX
}

// IsSized reports whether values of the type have a known storage size.
// Opaque structs and anything containing them are unsized.
func (c *Context) IsSized(id TypeID) bool {
	return c.isSized(id, make(map[TypeID]bool))
}

func (c *Context) isSized(id TypeID, seen map[TypeID]bool) bool {
	t, ok := c.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindInt, KindPointer, KindX86AMX, KindX86MMX, KindVector:
		return true
	case KindArray:
		return c.isSized(t.Elem, seen)
	case KindStruct:
		if seen[id] {
			return false
		}
		if t.Named && c.named[t.Payload].Opaque {
			return false
		}
		seen[id] = true
		defer delete(seen, id)
		for _, f := range c.StructFields(id) {
			if !c.isSized(f, seen) {
				return false
			}
		}
		return true
	}
	return t.Kind.IsFloat()
}

// ScalarBits returns the bit width of an integer or floating-point scalar and
// 0 for everything else, pointers included.
func (c *Context) ScalarBits(id TypeID) uint64 {
	t, ok := c.Lookup(id)
	if !ok {
		return 0
	}
	switch t.Kind {
	case KindInt:
		return uint64(t.Width)
	case KindHalf, KindBFloat:
		return 16
	case KindFloat:
		return 32
	case KindDouble, KindX86MMX:
		return 64
	case KindX86FP80:
		return 80
	case KindFP128, KindPPCFP128:
		return 128
	case KindX86AMX:
		return 8192
	}
	return 0
}

// PrimitiveBits returns the bit size of scalars and fixed vectors of scalars.
// Pointers, scalable vectors and aggregates report 0.
func (c *Context) PrimitiveBits(id TypeID) uint64 {
	t, ok := c.Lookup(id)
	if !ok {
		return 0
	}
	if t.Kind == KindVector {
		if t.Scalable {
			return 0
		}
		return t.Count * c.ScalarBits(t.Elem)
	}
	return c.ScalarBits(id)
}

// IndexedType walks extractvalue/insertvalue indices into an aggregate.
func (c *Context) IndexedType(agg TypeID, indices []uint64) (TypeID, error) {
	cur := agg
	for _, idx := range indices {
		t, ok := c.Lookup(cur)
		if !ok {
			return NoTypeID, ErrNotAggregate
		}
		switch t.Kind {
		case KindArray:
			if idx >= t.Count {
				return NoTypeID, fmt.Errorf("%w: %d >= %d in %s", ErrIndexOutOfRange, idx, t.Count, c.String(cur))
			}
			cur = t.Elem
		case KindStruct:
			fields := c.StructFields(cur)
			if idx >= uint64(len(fields)) {
				return NoTypeID, fmt.Errorf("%w: %d >= %d in %s", ErrIndexOutOfRange, idx, len(fields), c.String(cur))
			}
			cur = fields[idx]
		default:
			return NoTypeID, fmt.Errorf("%w: %s", ErrNotAggregate, c.String(cur))
		}
	}
	return cur, nil
}
