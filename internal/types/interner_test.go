package types

import (
	"errors"
	"testing"
)

func TestContextBuiltins(t *testing.T) {
	c := NewContext()
	b := c.Builtins()
	if b.Void == NoTypeID || b.I1 == NoTypeID || b.Ptr == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	i1, _ := c.Lookup(b.I1)
	if i1.Kind != KindInt || i1.Width != 1 {
		t.Fatalf("expected i1, got %+v", i1)
	}
	if c.MustInt(32) != b.I32 {
		t.Fatalf("i32 must intern to the builtin")
	}
}

func TestInternIdentityForStructuralTypes(t *testing.T) {
	c := NewContext()
	b := c.Builtins()

	mk := func() []TypeID {
		arr, _ := c.Array(4, b.I8)
		vec, _ := c.Vector(4, b.Float, false)
		svec, _ := c.Vector(2, b.I64, true)
		st, _ := c.Struct([]TypeID{b.I32, arr, b.Ptr}, false)
		pst, _ := c.Struct([]TypeID{b.I32, arr, b.Ptr}, true)
		fn, _ := c.Func(b.I32, []TypeID{b.Ptr, b.I64}, true)
		tx := c.TargetExt("spirv.Image", []TypeID{b.Float}, []uint32{1, 0})
		return []TypeID{arr, vec, svec, st, pst, fn, tx, c.Pointer(3)}
	}
	first, second := mk(), mk()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("type %d: %s interned twice to different ids", i, c.String(first[i]))
		}
	}
	if first[3] == first[4] {
		t.Fatalf("packed and unpacked struct must differ")
	}
	if c.Pointer(0) != b.Ptr || c.Pointer(3) == b.Ptr {
		t.Fatalf("pointer identity must follow the address space")
	}
}

func TestNamedStructsAreNominal(t *testing.T) {
	c := NewContext()
	b := c.Builtins()
	a := c.DeclareNamed("A")
	bb := c.DeclareNamed("B")
	if a == bb {
		t.Fatalf("named structs must not be merged")
	}
	if err := c.DefineNamed(a, []TypeID{b.I32}, false); err != nil {
		t.Fatalf("define A: %v", err)
	}
	if err := c.DefineNamed(bb, []TypeID{b.I32}, false); err != nil {
		t.Fatalf("define B: %v", err)
	}
	if c.DeclareNamed("A") != a {
		t.Fatalf("redeclaring a name must return the same id")
	}
	if err := c.DefineNamed(a, []TypeID{b.I8}, false); !errors.Is(err, ErrRedefinition) {
		t.Fatalf("expected ErrRedefinition, got %v", err)
	}
}

func TestSelfReferenceThroughPointerOnly(t *testing.T) {
	c := NewContext()
	b := c.Builtins()

	node := c.DeclareNamed("node")
	if err := c.DefineNamed(node, []TypeID{b.I32, b.Ptr}, false); err != nil {
		t.Fatalf("pointer self reference must be allowed: %v", err)
	}

	bad := c.DeclareNamed("bad")
	arr, _ := c.Array(2, bad)
	if err := c.DefineNamed(bad, []TypeID{b.I32, arr}, false); !errors.Is(err, ErrSelfContaining) {
		t.Fatalf("expected ErrSelfContaining, got %v", err)
	}

	// взаимная рекурсия по значению: X { Y }, Y { X }
	x := c.DeclareNamed("X")
	y := c.DeclareNamed("Y")
	if err := c.DefineNamed(y, []TypeID{x}, false); err != nil {
		t.Fatalf("define Y over opaque X: %v", err)
	}
	if err := c.DefineNamed(x, []TypeID{y}, false); !errors.Is(err, ErrSelfContaining) {
		t.Fatalf("expected mutual by-value recursion to be rejected, got %v", err)
	}
}

func TestScalableVectorCannotBeStructMember(t *testing.T) {
	c := NewContext()
	b := c.Builtins()
	sv, err := c.Vector(4, b.I32, true)
	if err != nil {
		t.Fatalf("scalable vector: %v", err)
	}
	if _, err := c.Struct([]TypeID{sv}, false); !errors.Is(err, ErrScalableInStruct) {
		t.Fatalf("expected ErrScalableInStruct, got %v", err)
	}
	n := c.DeclareNamed("S")
	if err := c.DefineNamed(n, []TypeID{b.I8, sv}, false); !errors.Is(err, ErrScalableInStruct) {
		t.Fatalf("expected ErrScalableInStruct for named struct, got %v", err)
	}
}

func TestInvalidConstructions(t *testing.T) {
	c := NewContext()
	b := c.Builtins()
	if _, err := c.Int(0); !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("i0 must be rejected")
	}
	if _, err := c.Int(MaxIntWidth + 1); !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("too wide integer must be rejected")
	}
	if _, err := c.Array(2, b.Void); !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("array of void must be rejected")
	}
	if _, err := c.Vector(0, b.I32, false); !errors.Is(err, ErrZeroLengthVector) {
		t.Fatalf("zero-length vector must be rejected")
	}
	st, _ := c.Struct(nil, false)
	if _, err := c.Vector(2, st, false); !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("vector of struct must be rejected")
	}
	if _, err := c.Func(b.Label, nil, false); !errors.Is(err, ErrInvalidReturn) {
		t.Fatalf("label return must be rejected")
	}
	if _, err := c.Func(b.Void, []TypeID{b.Void}, false); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("void param must be rejected")
	}
}

func TestString(t *testing.T) {
	c := NewContext()
	b := c.Builtins()
	arr, _ := c.Array(3, b.I8)
	vec, _ := c.Vector(4, b.Float, true)
	st, _ := c.Struct([]TypeID{b.I32, arr}, true)
	fn, _ := c.Func(b.Void, []TypeID{b.Ptr}, true)
	named := c.DeclareNamed("struct.pair")
	cases := map[TypeID]string{
		b.I1:          "i1",
		b.X86FP80:     "x86_fp80",
		arr:           "[3 x i8]",
		vec:           "<vscale x 4 x float>",
		st:            "<{ i32, [3 x i8] }>",
		fn:            "void (ptr, ...)",
		c.Pointer(1):  "ptr addrspace(1)",
		named:         "%struct.pair",
		c.DeclareNamed("a b"): `%"a b"`,
		c.DeclareNamed("7"):   "%7",
	}
	for id, want := range cases {
		if got := c.String(id); got != want {
			t.Fatalf("want %q, got %q", want, got)
		}
	}
}

func TestSizedness(t *testing.T) {
	c := NewContext()
	b := c.Builtins()
	opaque := c.DeclareNamed("opaque.t")
	if err := c.DefineOpaque(opaque); err != nil {
		t.Fatalf("define opaque: %v", err)
	}
	holder, _ := c.Struct([]TypeID{b.I32, opaque}, false)
	arr, _ := c.Array(8, b.Double)
	for id, want := range map[TypeID]bool{
		b.I32:     true,
		b.Ptr:     true,
		arr:       true,
		b.Void:    false,
		b.Label:   false,
		opaque:    false,
		holder:    false,
		b.Token:   false,
		b.Metadata: false,
	} {
		if got := c.IsSized(id); got != want {
			t.Fatalf("IsSized(%s) = %v, want %v", c.String(id), got, want)
		}
	}
}

func TestIndexedTypeAndBits(t *testing.T) {
	c := NewContext()
	b := c.Builtins()
	arr, _ := c.Array(2, b.I16)
	st, _ := c.Struct([]TypeID{b.I8, arr}, false)
	got, err := c.IndexedType(st, []uint64{1, 0})
	if err != nil || got != b.I16 {
		t.Fatalf("expected i16, got %s (%v)", c.String(got), err)
	}
	if _, err := c.IndexedType(st, []uint64{2}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	vec, _ := c.Vector(4, b.I32, false)
	if c.PrimitiveBits(vec) != 128 || c.PrimitiveBits(b.Double) != 64 || c.PrimitiveBits(b.Ptr) != 0 {
		t.Fatalf("unexpected primitive bit widths")
	}
}

func TestUndefinedNamed(t *testing.T) {
	c := NewContext()
	used := c.DeclareNamed("used")
	c.DeclareNamed("defined")
	def, _ := c.NamedByName("defined")
	_ = c.DefineNamed(def, nil, false)
	undef := c.UndefinedNamed()
	if len(undef) != 1 || undef[0] != used {
		t.Fatalf("expected only %%used to be undefined, got %v", undef)
	}
}
