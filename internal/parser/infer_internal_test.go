package parser

import (
	"testing"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/source"
	"llvet/internal/types"
)

func newTestParser(t *testing.T, src string) (*Parser, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("v.ll", []byte(src)))
	bag := diag.NewBag(0)
	return newParser(nil, file, Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func TestValueWithoutExpectedTypeWarns(t *testing.T) {
	p, bag := newTestParser(t, "42")
	v := p.parseValue(types.NoTypeID)
	if v.Type() != types.NoTypeID {
		t.Fatalf("untyped literal got type %s", p.ctx.String(v.Type()))
	}
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(items))
	}
	if items[0].Code != diag.SynMissingExpectedType || items[0].Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %s %s", items[0].Code.ID(), items[0].Severity)
	}
}

func TestTypedValueDoesNotWarn(t *testing.T) {
	p, bag := newTestParser(t, "i64 -5")
	v := p.parseTypedValue()
	if v.Type() != p.b.I64 {
		t.Fatalf("literal typed %s", p.ctx.String(v.Type()))
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
}

type unknownInst struct{ ir.InstBase }

func (*unknownInst) Opcode() ir.Opcode { return ir.OpInvalid }

func TestResultTypeFlagsUnknownVariant(t *testing.T) {
	p, bag := newTestParser(t, "")
	if got := p.resultType(&unknownInst{}); got != types.NoTypeID {
		t.Fatalf("unknown variant typed %s", p.ctx.String(got))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynMissingExpectedType {
		t.Fatalf("missing flag for unknown variant")
	}
}

func TestResultTypeTable(t *testing.T) {
	p, _ := newTestParser(t, "")
	b := p.b
	v4, _ := p.ctx.Vector(4, b.I32, false)
	v4i1, _ := p.ctx.Vector(4, b.I1, false)
	mask, _ := p.ctx.Vector(2, b.I32, false)
	v2, _ := p.ctx.Vector(2, b.I32, false)
	x := &ir.ConstUndef{Typ: v4}
	tests := []struct {
		name string
		inst ir.Instruction
		want types.TypeID
	}{
		{"store", &ir.Store{}, b.Void},
		{"br", &ir.Br{}, b.Void},
		{"load", &ir.Load{ElemType: b.I16}, b.I16},
		{"icmp vector", &ir.Cmp{Op: ir.OpICmp, X: x, Y: x}, v4i1},
		{"extractelement", &ir.ExtractElement{Vec: x}, b.I32},
		{"shufflevector", &ir.ShuffleVector{X: x, Y: x, Mask: &ir.ConstUndef{Typ: mask}}, v2},
		{"cast", &ir.Cast{Op: ir.OpZExt, To: b.I64}, b.I64},
		{"alloca", &ir.Alloca{ElemType: b.I8}, b.Ptr},
		{"catchpad", &ir.FuncletPad{Op: ir.OpCatchPad}, b.Token},
		{"catchswitch", &ir.CatchSwitch{}, b.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.resultType(tt.inst); got != tt.want {
				t.Fatalf("got %s, want %s", p.ctx.String(got), p.ctx.String(tt.want))
			}
		})
	}
}
