package verify

import (
	"math/big"

	"llvet/internal/ir"
	"llvet/internal/metadata"
	"llvet/internal/types"
)

// metadata: форма известных вложений и !llvm.module.flags. Графы отладочной
// информации целиком не проверяются.
func (v *verifier) metadata() {
	v.checkModuleFlags()
	for _, g := range v.m.Globals {
		for _, a := range g.Attachments {
			if !v.attachmentResolves(a, func(format string, args ...any) { v.modulef(IllegalMetadata, format, args...) }) {
				continue
			}
			if a.Kind == "dbg" && !v.m.MD.IsSpecialized(a.Op, "DIGlobalVariableExpression") {
				v.modulef(IllegalMetadata, "!dbg on %s must be a DIGlobalVariableExpression", g.Name.Global())
			}
		}
	}
	for _, f := range v.m.Funcs {
		for _, a := range f.Attachments {
			if !v.attachmentResolves(a, func(format string, args ...any) { v.funcf(f, IllegalMetadata, format, args...) }) {
				continue
			}
			if a.Kind == "dbg" && !v.m.MD.IsSpecialized(a.Op, "DISubprogram") {
				v.funcf(f, IllegalMetadata, "function !dbg attachment must be a DISubprogram")
			}
		}
	}
	v.m.Instructions(func(_ *ir.Function, _ *ir.Block, inst ir.Instruction) {
		for _, a := range inst.Base().Attachments {
			v.checkInstAttachment(inst, a)
		}
	})
}

func (v *verifier) attachmentResolves(a ir.Attachment, report attrReport) bool {
	if a.Op.Kind == metadata.OpRef {
		if _, ok := v.m.MD.Lookup(a.Op.Ref); !ok {
			report("!%s refers to undefined metadata !%d", a.Kind, a.Op.Ref)
			return false
		}
	}
	return true
}

func (v *verifier) checkInstAttachment(inst ir.Instruction, a ir.Attachment) {
	md := v.m.MD
	bad := func(format string, args ...any) {
		v.instf(inst, IllegalMetadata, format, args...)
	}
	if !v.attachmentResolves(a, bad) {
		return
	}
	load, isLoad := inst.(*ir.Load)
	switch a.Kind {
	case "dbg":
		if !md.IsLocation(a.Op) {
			bad("!dbg attachment on an instruction must be a DILocation")
		}
	case "range":
		var t types.TypeID
		switch in := inst.(type) {
		case *ir.Load:
			t = in.ElemType
		case *ir.Call, *ir.Invoke:
			t = in.Type()
		default:
			bad("!range is only allowed on load, call and invoke")
			return
		}
		v.checkRange(bad, a.Op, v.ctx.ScalarType(t))
	case "nonnull":
		switch {
		case !isLoad:
			bad("!nonnull is only allowed on load")
		case !v.ctx.IsPointer(load.ElemType):
			bad("!nonnull applies only to pointer loads, found %s", v.ty(load.ElemType))
		case !md.IsEmptyTuple(a.Op):
			bad("!nonnull must be an empty node")
		}
	case "noundef", "invariant.load":
		switch {
		case !isLoad:
			bad("!%s is only allowed on load", a.Kind)
		case !md.IsEmptyTuple(a.Op):
			bad("!%s must be an empty node", a.Kind)
		}
	case "align", "dereferenceable", "dereferenceable_or_null":
		if !isLoad {
			bad("!%s is only allowed on load", a.Kind)
			return
		}
		if !v.ctx.IsPointer(load.ElemType) {
			bad("!%s applies only to pointer loads, found %s", a.Kind, v.ty(load.ElemType))
			return
		}
		ints, ok := md.TupleInts(a.Op)
		if !ok || len(ints) != 1 || ints[0].Type != v.b.I64 {
			bad("!%s must be a single i64 constant", a.Kind)
			return
		}
		if a.Kind == "align" {
			n := ints[0].Int
			if n.Sign() <= 0 || !isPow2(n) {
				bad("!align value %s is not a positive power of two", n)
			}
		}
	case "tbaa":
		n, ok := md.Resolve(a.Op)
		if !ok || !n.IsTuple() || len(n.Elems) == 0 {
			bad("!tbaa must be a non-empty tuple")
		}
	case "prof":
		n, ok := md.Resolve(a.Op)
		if !ok || !n.IsTuple() || len(n.Elems) == 0 || n.Elems[0].Kind != metadata.OpString {
			bad("!prof must be a tuple whose first element is a string")
		}
	case "annotation":
		n, ok := md.Resolve(a.Op)
		if !ok || !n.IsTuple() {
			bad("!annotation must be a tuple")
		}
	}
}

// checkRange: пары [lo, hi) констант типа t.
func (v *verifier) checkRange(bad attrReport, op metadata.Operand, t types.TypeID) {
	if !v.ctx.IsInteger(t) {
		bad("!range requires an integer type, found %s", v.ty(t))
		return
	}
	ints, ok := v.m.MD.TupleInts(op)
	if !ok {
		bad("!range must be a tuple of integer constants")
		return
	}
	if len(ints) == 0 || len(ints)%2 != 0 {
		bad("!range must have a non-zero even number of operands, found %d", len(ints))
		return
	}
	for i, e := range ints {
		if e.Type != t {
			bad("!range operand %d has type %s, expected %s", i, v.ty(e.Type), v.ty(t))
			return
		}
	}
	for i := 0; i < len(ints); i += 2 {
		if ints[i].Int.Cmp(ints[i+1].Int) == 0 {
			bad("!range pair %d is empty", i/2)
		}
	}
}

func isPow2(n *big.Int) bool {
	return n.Sign() > 0 && new(big.Int).And(n, new(big.Int).Sub(n, big.NewInt(1))).Sign() == 0
}

func (v *verifier) checkModuleFlags() {
	flags, bad := v.m.MD.ModuleFlags()
	for _, id := range bad {
		v.modulef(IllegalMetadata, "module flag !%d must be a 3-tuple of a behavior integer, a string key and a value", id)
	}
	seen := make(map[string]bool, len(flags))
	for _, fl := range flags {
		if !fl.Behavior.IsInt64() || fl.Behavior.Int64() < 1 || fl.Behavior.Int64() > 8 {
			v.modulef(IllegalMetadata, "module flag %q has invalid behavior %s", fl.Key, fl.Behavior)
		}
		if seen[fl.Key] {
			v.modulef(IllegalMetadata, "module flag %q is defined more than once", fl.Key)
		}
		seen[fl.Key] = true
	}
}
