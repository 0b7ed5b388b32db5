package ir

import (
	"math/big"
	"testing"

	"llvet/internal/types"
)

func newTestModule() (*Module, types.Builtins) {
	ctx := types.NewContext()
	return NewModule(ctx), ctx.Builtins()
}

func TestNameRendering(t *testing.T) {
	cases := []struct {
		n      Name
		local  string
		global string
	}{
		{Named("x"), "%x", "@x"},
		{Numbered(3), "%3", "@3"},
		{Named("a b"), `%"a b"`, `@"a b"`},
		{Name{}, "", ""},
	}
	for _, c := range cases {
		if got := c.n.Local(); got != c.local {
			t.Fatalf("Local: want %q, got %q", c.local, got)
		}
		if got := c.n.Global(); got != c.global {
			t.Fatalf("Global: want %q, got %q", c.global, got)
		}
	}
}

func TestOperandSlotsCoverEveryInstruction(t *testing.T) {
	_, b := newTestModule()
	one := &ConstInt{Typ: b.I32, V: big.NewInt(1)}
	insts := []Instruction{
		&Ret{}, &Br{}, &Switch{}, &IndirectBr{}, &Invoke{}, &Resume{}, &Unreachable{},
		&CleanupRet{}, &CatchRet{}, &CatchSwitch{}, &UnaryOp{Op: OpFNeg}, &BinaryOp{Op: OpAdd},
		&ExtractElement{}, &InsertElement{}, &ShuffleVector{}, &ExtractValue{}, &InsertValue{},
		&Alloca{}, &Load{}, &Store{}, &Fence{}, &CmpXchg{}, &AtomicRMW{}, &GetElementPtr{},
		&Cast{Op: OpTrunc}, &Cmp{Op: OpICmp}, &Phi{}, &Select{}, &Freeze{}, &Call{},
		&VAArg{}, &LandingPad{}, &FuncletPad{Op: OpCatchPad},
	}
	for _, inst := range insts {
		// не должно паниковать
		_ = OperandSlots(inst)
	}
	bin := &BinaryOp{Op: OpAdd, X: one, Y: one}
	slots := OperandSlots(bin)
	if len(slots) != 2 {
		t.Fatalf("expected 2 operand slots, got %d", len(slots))
	}
	two := &ConstInt{Typ: b.I32, V: big.NewInt(2)}
	*slots[1] = two
	if bin.Y != two {
		t.Fatalf("writing through a slot must update the instruction")
	}
}

func TestOpcodeTable(t *testing.T) {
	for op := OpRet; op < opCount; op++ {
		got, ok := OpcodeByName(op.String())
		if !ok || got != op {
			t.Fatalf("opcode %d (%s) does not round-trip", op, op)
		}
	}
	if !OpCatchSwitch.IsTerminator() || OpFNeg.IsTerminator() {
		t.Fatalf("terminator range is wrong")
	}
	if !OpAddrSpaceCast.IsCast() || OpICmp.IsCast() {
		t.Fatalf("cast range is wrong")
	}
}

func TestSuccessors(t *testing.T) {
	a, c, d := &Block{Name: Named("a")}, &Block{Name: Named("c")}, &Block{Name: Named("d")}
	br := &Br{True: a}
	if s := Successors(br); len(s) != 1 || s[0] != a {
		t.Fatalf("unconditional br successors wrong: %v", s)
	}
	sw := &Switch{Default: a, Cases: []Case{{Dest: c}, {Dest: d}}}
	if s := Successors(sw); len(s) != 3 || s[2] != d {
		t.Fatalf("switch successors wrong: %v", s)
	}
	if s := Successors(&CleanupRet{}); len(s) != 0 {
		t.Fatalf("cleanupret to caller has no successors")
	}
}

func TestRewriteReplacesPlaceholders(t *testing.T) {
	m, b := newTestModule()
	ph := &Placeholder{Typ: b.Ptr, Name: Named("g"), Global: true}
	g := &GlobalVar{GlobalHeader: GlobalHeader{Name: Named("g"), Typ: b.Ptr}, ValueType: b.I32}

	f := &Function{GlobalHeader: GlobalHeader{Name: Named("f"), Typ: b.Ptr}}
	blk := &Block{Name: Numbered(0), Typ: b.Label, Parent: f}
	load := &Load{InstBase: InstBase{Typ: b.I32}, ElemType: b.I32, Ptr: ph}
	blk.Append(load)
	blk.Append(&Ret{Val: load})
	f.Blocks = []*Block{blk}

	holder := &GlobalVar{
		GlobalHeader: GlobalHeader{Name: Named("h"), Typ: b.Ptr},
		Init:         &ConstAggregate{Typ: b.Ptr, Kind: AggStruct, Elems: []Value{ph}},
	}
	m.Globals = []*GlobalVar{g, holder}
	m.Funcs = []*Function{f}

	m.Rewrite(func(v Value) Value {
		if v == Value(ph) {
			return g
		}
		return v
	})
	if load.Ptr != Value(g) {
		t.Fatalf("instruction operand was not rewritten")
	}
	agg := holder.Init.(*ConstAggregate)
	if agg.Elems[0] != Value(g) {
		t.Fatalf("nested constant operand was not rewritten")
	}
	if blk.Terminator() == nil || load.Parent != blk {
		t.Fatalf("block bookkeeping broken")
	}
}

func TestAttrSet(t *testing.T) {
	s := AttrSet{{Kind: "nonnull"}, {Kind: "align", Int: 8, HasInt: true}, {Kind: "frame-pointer", Str: true, Value: "all"}}
	if !s.Has("nonnull") || s.Has("frame-pointer") {
		t.Fatalf("Has must ignore string attributes")
	}
	if a, ok := s.Get("align"); !ok || a.Int != 8 {
		t.Fatalf("expected align 8")
	}
	if a, ok := s.GetString("frame-pointer"); !ok || a.Value != "all" {
		t.Fatalf("expected frame-pointer=all")
	}
	merged := s.Merge(AttrSet{{Kind: "noalias"}})
	if len(merged) != 4 || len(s) != 3 {
		t.Fatalf("Merge must not mutate the receiver")
	}
}

func TestFastMathWords(t *testing.T) {
	if w := FMFast.Words(); len(w) != 1 || w[0] != "fast" {
		t.Fatalf("fast should render as one word, got %v", w)
	}
	fm, _ := FastMathByName("nnan")
	fm2, _ := FastMathByName("nsz")
	if w := (fm | fm2).Words(); len(w) != 2 || w[0] != "nnan" || w[1] != "nsz" {
		t.Fatalf("unexpected words %v", w)
	}
}
