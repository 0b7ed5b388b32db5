package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Int returns iN.
func (c *Context) Int(bits uint32) (TypeID, error) {
	if bits == 0 || bits > MaxIntWidth {
		return NoTypeID, fmt.Errorf("%w: i%d", ErrInvalidWidth, bits)
	}
	return c.Intern(Type{Kind: KindInt, Width: bits}), nil
}

// MustInt is Int for widths known to be valid.
func (c *Context) MustInt(bits uint32) TypeID {
	id, err := c.Int(bits)
	if err != nil {
		panic(err)
	}
	return id
}

// Pointer returns the opaque pointer type of the address space.
func (c *Context) Pointer(addrSpace uint32) TypeID {
	return c.Intern(Type{Kind: KindPointer, AddrSpace: addrSpace})
}

// Array returns [n x elem].
func (c *Context) Array(n uint64, elem TypeID) (TypeID, error) {
	if !c.isValidElement(elem) {
		return NoTypeID, fmt.Errorf("%w: array of %s", ErrInvalidElement, c.String(elem))
	}
	return c.Intern(Type{Kind: KindArray, Count: n, Elem: elem}), nil
}

// Vector returns <n x elem> or <vscale x n x elem>.
func (c *Context) Vector(n uint64, elem TypeID, scalable bool) (TypeID, error) {
	if n == 0 {
		return NoTypeID, ErrZeroLengthVector
	}
	if !c.isValidVectorElement(elem) {
		return NoTypeID, fmt.Errorf("%w: vector of %s", ErrInvalidElement, c.String(elem))
	}
	return c.Intern(Type{Kind: KindVector, Count: n, Elem: elem, Scalable: scalable}), nil
}

// Struct returns the literal struct {fields} or <{fields}> when packed.
func (c *Context) Struct(fields []TypeID, packed bool) (TypeID, error) {
	if err := c.checkFields(fields); err != nil {
		return NoTypeID, err
	}
	return c.Intern(Type{Kind: KindStruct, Packed: packed, Payload: c.internList(fields)}), nil
}

// Func returns the function type ret (params[, ...]).
func (c *Context) Func(ret TypeID, params []TypeID, variadic bool) (TypeID, error) {
	switch c.kind(ret) {
	case KindInvalid, KindFunc, KindLabel, KindMetadata:
		return NoTypeID, fmt.Errorf("%w: %s", ErrInvalidReturn, c.String(ret))
	}
	for _, p := range params {
		switch c.kind(p) {
		case KindInvalid, KindVoid, KindFunc, KindLabel:
			return NoTypeID, fmt.Errorf("%w: %s", ErrInvalidParam, c.String(p))
		}
	}
	return c.Intern(Type{Kind: KindFunc, Elem: ret, Variadic: variadic, Payload: c.internList(params)}), nil
}

// TargetExt returns target("name", types..., ints...).
func (c *Context) TargetExt(name string, params []TypeID, ints []uint32) TypeID {
	key := name + "|" + fmt.Sprint(params) + "|" + fmt.Sprint(ints)
	slot, ok := c.targetIdx[key]
	if !ok {
		n, err := safecast.Conv[uint32](len(c.targets))
		if err != nil {
			panic(fmt.Errorf("len(targets) overflow: %w", err))
		}
		slot = n
		c.targets = append(c.targets, TargetInfo{
			Name:  name,
			Types: append([]TypeID(nil), params...),
			Ints:  append([]uint32(nil), ints...),
		})
		c.targetIdx[key] = slot
	}
	return c.Intern(Type{Kind: KindTargetExt, Payload: slot})
}

func (c *Context) kind(id TypeID) Kind {
	t, ok := c.Lookup(id)
	if !ok {
		return KindInvalid
	}
	return t.Kind
}

func (c *Context) isValidElement(id TypeID) bool {
	t, ok := c.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindVoid, KindLabel, KindMetadata, KindFunc, KindToken, KindX86AMX:
		return false
	case KindVector:
		return !t.Scalable
	}
	return true
}

func (c *Context) isValidVectorElement(id TypeID) bool {
	t, ok := c.Lookup(id)
	if !ok {
		return false
	}
	return t.Kind == KindInt || t.Kind.IsFloat() || t.Kind == KindPointer
}

func (c *Context) checkFields(fields []TypeID) error {
	for i, f := range fields {
		t, ok := c.Lookup(f)
		if !ok {
			return fmt.Errorf("%w: field %d", ErrInvalidElement, i)
		}
		if t.Kind == KindVector && t.Scalable {
			return fmt.Errorf("%w: field %d is %s", ErrScalableInStruct, i, c.String(f))
		}
		if !c.isValidElement(f) {
			return fmt.Errorf("%w: field %d is %s", ErrInvalidElement, i, c.String(f))
		}
	}
	return nil
}
