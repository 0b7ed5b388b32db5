package verify

import (
	"strings"

	"llvet/internal/ir"
	"llvet/internal/types"
)

// Классы атрибутов по допустимому месту.
var (
	ptrOnlyAttrs = map[string]bool{
		"byval": true, "byref": true, "sret": true, "inalloca": true,
		"preallocated": true, "nocapture": true, "captures": true, "nonnull": true,
		"dereferenceable": true, "dereferenceable_or_null": true, "noalias": true,
		"readonly": true, "writeonly": true, "readnone": true, "align": true,
		"swifterror": true, "swiftself": true, "swiftasync": true, "nofree": true,
		"initializes": true, "dead_on_unwind": true, "writable": true,
	}
	intOnlyAttrs = map[string]bool{
		"zeroext": true, "signext": true, "range": true,
	}
	fnOnlyAttrs = map[string]bool{
		"alwaysinline": true, "noinline": true, "inlinehint": true, "optnone": true,
		"optsize": true, "minsize": true, "cold": true, "hot": true, "naked": true,
		"noreturn": true, "nounwind": true, "norecurse": true, "willreturn": true,
		"mustprogress": true, "uwtable": true, "ssp": true, "sspreq": true,
		"sspstrong": true, "builtin": true, "nobuiltin": true, "convergent": true,
		"speculatable": true, "returns_twice": true, "noduplicate": true,
		"memory": true, "allockind": true, "allocsize": true,
		"nosync": true, "nomerge": true, "noimplicitfloat": true, "noredzone": true,
		"null_pointer_is_valid": true, "vscale_range": true, "sanitize_address": true,
		"sanitize_memory": true, "sanitize_thread": true, "safestack": true,
		"shadowcallstack": true, "strictfp": true, "nocallback": true,
		"disable_sanitizer_instrumentation": true, "jumptable": true, "argmemonly": true,
		"inaccessiblememonly": true, "inaccessiblemem_or_argmemonly": true,
	}
	paramOnlyAttrs = map[string]bool{
		"byval": true, "byref": true, "sret": true, "inalloca": true,
		"preallocated": true, "nest": true, "returned": true, "swiftself": true,
		"swifterror": true, "swiftasync": true, "nocapture": true, "captures": true,
		"immarg": true, "elementtype": true, "allocalign": true, "allocptr": true,
		"initializes": true, "dead_on_unwind": true, "writable": true,
	}
	// на возвращаемом значении запрещены атрибуты передачи и доступа к памяти
	notOnReturnAttrs = map[string]bool{
		"byval": true, "byref": true, "sret": true, "inalloca": true,
		"preallocated": true, "nest": true, "returned": true, "swiftself": true,
		"swifterror": true, "swiftasync": true, "nocapture": true, "captures": true,
		"readonly": true, "writeonly": true, "readnone": true, "immarg": true,
		"nofree": true, "elementtype": true, "allocalign": true, "allocptr": true,
		"initializes": true, "dead_on_unwind": true, "writable": true,
	}

	exclusiveAttrs = [][]string{
		{"byval", "byref", "inalloca", "preallocated", "sret", "nest", "inreg"},
		{"zeroext", "signext"},
		{"readnone", "readonly"},
		{"readnone", "writeonly"},
		{"readonly", "writeonly"},
		{"nocapture", "returned"},
	}
)

// attributes: размещение атрибутов, их совместимость с типами и musttail.
func (v *verifier) attributes() {
	for _, f := range v.m.Funcs {
		v.checkFuncAttrs(f)
	}
	v.m.Instructions(func(f *ir.Function, _ *ir.Block, inst ir.Instruction) {
		cs, ok := ir.CallSiteOf(inst)
		if !ok {
			return
		}
		v.checkCallSiteAttrs(inst, cs)
		if call, isCall := inst.(*ir.Call); isCall && call.Tail == ir.TailMust {
			v.checkMustTail(f, call)
		}
	})
}

func (v *verifier) checkFuncAttrs(f *ir.Function) {
	fnAttrs := v.m.FnAttrs(f)
	for _, a := range fnAttrs {
		if a.Str {
			continue
		}
		if paramOnlyAttrs[a.Kind] {
			v.funcf(f, IllegalAttribute, "attribute %s does not apply to functions", a.Kind)
		}
	}
	if fnAttrs.Has("alwaysinline") && fnAttrs.Has("noinline") {
		v.funcf(f, IllegalAttribute, "attributes alwaysinline and noinline are incompatible")
	}
	if fnAttrs.Has("optnone") && !fnAttrs.Has("noinline") {
		v.funcf(f, IllegalAttribute, "attribute optnone requires noinline")
	}
	if fnAttrs.Has("optnone") && (fnAttrs.Has("optsize") || fnAttrs.Has("minsize")) {
		v.funcf(f, IllegalAttribute, "attribute optnone is incompatible with optsize and minsize")
	}

	ret := v.ctx.FuncResult(f.Sig)
	v.checkRetAttrs(func(format string, args ...any) {
		v.funcf(f, IllegalAttribute, format, args...)
	}, f.RetAttrs, ret)

	sretAt, returned := -1, 0
	for i, p := range f.Params {
		report := func(format string, args ...any) {
			v.funcf(f, IllegalAttribute, "parameter %d: "+format, append([]any{i}, args...)...)
		}
		v.checkParamAttrs(report, p.Attrs, p.Typ)
		if p.Attrs.Has("sret") {
			if sretAt >= 0 {
				report("cannot have multiple sret parameters")
			} else if i > 1 {
				report("sret is only allowed on the first or second parameter")
			}
			sretAt = i
		}
		if p.Attrs.Has("returned") {
			returned++
			if returned > 1 {
				report("cannot have multiple returned parameters")
			}
			if !v.ctx.IsVoid(ret) && !v.ctx.Equal(p.Typ, ret) {
				report("returned parameter type %s does not match return type %s", v.ty(p.Typ), v.ty(ret))
			}
		}
	}

	if fnAttrs.Has("naked") && !f.Declaration {
		v.checkNakedParams(f)
	}
}

func (v *verifier) checkNakedParams(f *ir.Function) {
	params := make(map[ir.Value]*ir.Param, len(f.Params))
	for _, p := range f.Params {
		params[p] = p
	}
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			for _, op := range ir.Operands(inst) {
				if p, ok := params[op]; ok {
					v.instf(inst, IllegalAttribute, "naked function parameter %s cannot be used", p.Name.Local())
				}
			}
		}
	}
}

type attrReport func(format string, args ...any)

func (v *verifier) checkParamAttrs(report attrReport, set ir.AttrSet, t types.TypeID) {
	c := v.ctx
	for _, a := range set {
		if a.Str {
			continue
		}
		switch {
		case fnOnlyAttrs[a.Kind]:
			report("attribute %s only applies to functions", a.Kind)
		case ptrOnlyAttrs[a.Kind] && !c.IsPtrOrPtrVector(t):
			report("attribute %s requires a pointer, found %s", a.Kind, v.ty(t))
		case intOnlyAttrs[a.Kind] && !c.IsIntOrIntVector(t):
			report("attribute %s requires an integer, found %s", a.Kind, v.ty(t))
		}
		if a.Kind == "byval" || a.Kind == "byref" || a.Kind == "sret" || a.Kind == "inalloca" || a.Kind == "preallocated" {
			if a.Type != types.NoTypeID && !c.IsSized(a.Type) {
				report("attribute %s does not support unsized type %s", a.Kind, v.ty(a.Type))
			}
		}
		if a.Kind == "align" && a.HasInt && (a.Int == 0 || a.Int&(a.Int-1) != 0) {
			report("alignment %d is not a power of two", a.Int)
		}
	}
	checkExclusive(report, set)
}

func (v *verifier) checkRetAttrs(report attrReport, set ir.AttrSet, ret types.TypeID) {
	c := v.ctx
	for _, a := range set {
		if a.Str {
			continue
		}
		switch {
		case notOnReturnAttrs[a.Kind], fnOnlyAttrs[a.Kind]:
			report("attribute %s does not apply to return values", a.Kind)
		case c.IsVoid(ret):
			report("attribute %s on a void return value", a.Kind)
		case ptrOnlyAttrs[a.Kind] && !c.IsPtrOrPtrVector(ret):
			report("return attribute %s requires a pointer, found %s", a.Kind, v.ty(ret))
		case intOnlyAttrs[a.Kind] && !c.IsIntOrIntVector(ret):
			report("return attribute %s requires an integer, found %s", a.Kind, v.ty(ret))
		}
	}
	checkExclusive(report, set)
}

func checkExclusive(report attrReport, set ir.AttrSet) {
	for _, group := range exclusiveAttrs {
		var present []string
		for _, k := range group {
			if set.Has(k) {
				present = append(present, k)
			}
		}
		if len(present) > 1 {
			report("attributes %s are incompatible", strings.Join(present, ", "))
		}
	}
}

func (v *verifier) checkCallSiteAttrs(inst ir.Instruction, cs *ir.CallSite) {
	report := func(format string, args ...any) {
		v.instf(inst, IllegalAttribute, format, args...)
	}
	sig, _ := calleeSig(cs)
	if v.ctx.IsFunc(sig) {
		v.checkRetAttrs(report, cs.RetAttrs, v.ctx.FuncResult(sig))
	}
	for i, arg := range cs.Args {
		if arg.Val == nil {
			continue
		}
		v.checkParamAttrs(func(format string, args ...any) {
			report("argument %d: "+format, append([]any{i}, args...)...)
		}, arg.Attrs, arg.Val.Type())
	}
	attrs := v.m.CallAttrs(cs)
	for _, a := range attrs {
		if !a.Str && paramOnlyAttrs[a.Kind] {
			report("attribute %s does not apply to call sites", a.Kind)
		}
	}
	if attrs.Has("alwaysinline") && attrs.Has("noinline") {
		report("attributes alwaysinline and noinline are incompatible")
	}
}

// checkMustTail: за вызовом идёт ret (возможно через один bitcast), сигнатуры
// вызывающей и вызываемой функций совпадают.
func (v *verifier) checkMustTail(caller *ir.Function, call *ir.Call) {
	c := v.ctx
	report := func(format string, args ...any) {
		v.instf(call, IllegalAttribute, "musttail: "+format, args...)
	}
	b := call.Parent
	i := indexOf(b, call)
	var next ir.Instruction
	if i >= 0 && i+1 < len(b.Insts) {
		next = b.Insts[i+1]
	}
	result := ir.Value(call)
	if bc, ok := next.(*ir.Cast); ok && bc.Op == ir.OpBitCast && bc.X == ir.Value(call) {
		result = bc
		next = nil
		if i+2 < len(b.Insts) {
			next = b.Insts[i+2]
		}
	}
	ret, ok := next.(*ir.Ret)
	switch {
	case !ok:
		report("call must be immediately followed by a return")
	case ret.Val != nil && ret.Val != result:
		report("return must return the call result")
	case ret.Val == nil && !c.IsVoid(call.Typ):
		report("return must return the call result")
	}

	sig, _ := calleeSig(&call.CallSite)
	if !c.IsFunc(sig) {
		return
	}
	if call.CallConv != caller.CallConv {
		report("caller and callee calling conventions differ")
	}
	if c.IsVariadic(sig) != c.IsVariadic(caller.Sig) {
		report("caller and callee must agree on varargs")
	}
	if !c.Equal(c.FuncResult(sig), c.FuncResult(caller.Sig)) {
		report("caller returns %s but callee returns %s", v.ty(c.FuncResult(caller.Sig)), v.ty(c.FuncResult(sig)))
	}
	cp, ep := c.FuncParams(caller.Sig), c.FuncParams(sig)
	if len(cp) != len(ep) {
		report("caller has %d parameters, callee has %d", len(cp), len(ep))
		return
	}
	for k := range cp {
		if !c.Equal(cp[k], ep[k]) {
			report("parameter %d type differs: caller %s, callee %s", k, v.ty(cp[k]), v.ty(ep[k]))
		}
	}
}
