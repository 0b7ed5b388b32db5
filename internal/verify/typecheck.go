package verify

import (
	"llvet/internal/ir"
	"llvet/internal/types"
)

// typeCheck: правила операндов и результата для каждого опкода.
func (v *verifier) typeCheck() {
	for _, g := range v.m.Globals {
		if g.Init != nil && !v.ctx.Equal(g.Init.Type(), g.ValueType) {
			v.modulef(TypeMismatch, "initializer of %s has type %s, expected %s",
				g.Name.Global(), v.ty(g.Init.Type()), v.ty(g.ValueType))
		}
	}
	for _, f := range v.defined() {
		ret := v.ctx.FuncResult(f.Sig)
		for _, b := range f.Blocks {
			for _, inst := range b.Insts {
				v.typeCheckInst(ret, inst)
			}
		}
	}
}

// typeCheckInst reports untyped operands first; rules below assume every
// operand has a type. For opcodes whose result type is derived from operand
// shape the opcode rule explains a missing result, the generic report is
// kept only when that rule found nothing.
func (v *verifier) typeCheckInst(ret types.TypeID, inst ir.Instruction) {
	if !v.operandsTyped(inst) {
		return
	}
	if inst.Base().Typ != types.NoTypeID {
		v.checkInst(ret, inst)
		return
	}
	if derivesResult(inst) {
		before := v.seen()
		v.checkInst(ret, inst)
		if v.seen() > before {
			return
		}
	}
	v.instf(inst, IllegalUse, "result type of %s could not be determined", inst.Opcode())
}

// derivesResult: тип результата вычисляется из формы операндов.
func derivesResult(inst ir.Instruction) bool {
	switch inst.(type) {
	case *ir.ExtractValue, *ir.ExtractElement, *ir.ShuffleVector:
		return true
	}
	return false
}

func (v *verifier) operandsTyped(inst ir.Instruction) bool {
	ok := true
	for i, slot := range ir.OperandSlots(inst) {
		if *slot == nil {
			continue
		}
		if (*slot).Type() == types.NoTypeID {
			v.instf(inst, IllegalUse, "operand %d has no type and cannot be materialised", i)
			ok = false
		}
	}
	return ok
}

func (v *verifier) checkInst(ret types.TypeID, inst ir.Instruction) {
	c := v.ctx
	switch in := inst.(type) {
	// terminators
	case *ir.Ret:
		switch {
		case c.IsVoid(ret) && in.Val != nil:
			v.instf(in, TypeMismatch, "function returns void but ret has a value of type %s", v.ty(in.Val.Type()))
		case !c.IsVoid(ret) && in.Val == nil:
			v.instf(in, TypeMismatch, "function returns %s but ret has no value", v.ty(ret))
		case in.Val != nil && !c.Equal(in.Val.Type(), ret):
			v.instf(in, TypeMismatch, "function returns %s but ret has a value of type %s", v.ty(ret), v.ty(in.Val.Type()))
		}
	case *ir.Br:
		if in.Cond != nil && in.Cond.Type() != v.b.I1 {
			v.instf(in, TypeMismatch, "branch condition must be i1, found %s", v.ty(in.Cond.Type()))
		}
	case *ir.Switch:
		v.checkSwitch(in)
	case *ir.IndirectBr:
		if !c.IsPointer(in.Addr.Type()) {
			v.instf(in, TypeMismatch, "indirectbr address must be a pointer, found %s", v.ty(in.Addr.Type()))
		}
	case *ir.Invoke:
		v.checkCallSite(in, &in.CallSite)
	case *ir.Resume:
		if !c.IsFirstClass(in.Val.Type()) {
			v.instf(in, TypeMismatch, "resume operand must be a first-class value")
		}
	case *ir.Unreachable:
	case *ir.CleanupRet:
		if !isPad(in.Pad, ir.OpCleanupPad) {
			v.instf(in, IllegalUse, "cleanupret must return from a cleanuppad")
		}
	case *ir.CatchRet:
		if !isPad(in.Pad, ir.OpCatchPad) {
			v.instf(in, IllegalUse, "catchret must return from a catchpad")
		}
	case *ir.CatchSwitch:
		if !isParentPad(in.Within) {
			v.instf(in, IllegalUse, "catchswitch parent must be none or an EH pad")
		}
		if len(in.Handlers) == 0 {
			v.instf(in, IllegalStructure, "catchswitch must have at least one handler")
		}

	// arithmetic
	case *ir.UnaryOp:
		if !c.IsFPOrFPVector(in.X.Type()) {
			v.instf(in, TypeMismatch, "fneg operand must be floating point, found %s", v.ty(in.X.Type()))
		}
	case *ir.BinaryOp:
		v.checkBinary(in)

	// vector / aggregate
	case *ir.ExtractElement:
		if !c.IsVector(in.Vec.Type()) {
			v.instf(in, TypeMismatch, "extractelement operand must be a vector, found %s", v.ty(in.Vec.Type()))
		}
		if !c.IsInteger(in.Index.Type()) {
			v.instf(in, TypeMismatch, "extractelement index must be an integer, found %s", v.ty(in.Index.Type()))
		}
	case *ir.InsertElement:
		switch {
		case !c.IsVector(in.Vec.Type()):
			v.instf(in, TypeMismatch, "insertelement operand must be a vector, found %s", v.ty(in.Vec.Type()))
		case !c.Equal(in.Elem.Type(), c.ElementType(in.Vec.Type())):
			v.instf(in, TypeMismatch, "inserted element has type %s, vector holds %s",
				v.ty(in.Elem.Type()), v.ty(c.ElementType(in.Vec.Type())))
		}
		if !c.IsInteger(in.Index.Type()) {
			v.instf(in, TypeMismatch, "insertelement index must be an integer, found %s", v.ty(in.Index.Type()))
		}
	case *ir.ShuffleVector:
		v.checkShuffle(in)
	case *ir.ExtractValue:
		if _, err := c.IndexedType(in.Agg.Type(), in.Indices); err != nil {
			v.instf(in, TypeMismatch, "invalid extractvalue indices: %v", err)
		}
	case *ir.InsertValue:
		t, err := c.IndexedType(in.Agg.Type(), in.Indices)
		switch {
		case err != nil:
			v.instf(in, TypeMismatch, "invalid insertvalue indices: %v", err)
		case !c.Equal(t, in.Elem.Type()):
			v.instf(in, TypeMismatch, "inserted value has type %s, member is %s", v.ty(in.Elem.Type()), v.ty(t))
		}

	// memory
	case *ir.Alloca:
		if !c.IsSized(in.ElemType) {
			v.instf(in, TypeMismatch, "cannot allocate unsized type %s", v.ty(in.ElemType))
		}
		if in.Count != nil && !c.IsInteger(in.Count.Type()) {
			v.instf(in, TypeMismatch, "alloca element count must be an integer, found %s", v.ty(in.Count.Type()))
		}
	case *ir.Load:
		v.checkMemAccess(in, in.Ptr, in.ElemType)
		if in.Atomic {
			v.checkAtomicAccess(in, in.ElemType, in.Ordering, in.Align)
			if in.Ordering == ir.Release || in.Ordering == ir.AcqRel {
				v.instf(in, TypeMismatch, "load cannot have %s ordering", in.Ordering)
			}
		}
	case *ir.Store:
		v.checkMemAccess(in, in.Ptr, in.Val.Type())
		if in.Atomic {
			v.checkAtomicAccess(in, in.Val.Type(), in.Ordering, in.Align)
			if in.Ordering == ir.Acquire || in.Ordering == ir.AcqRel {
				v.instf(in, TypeMismatch, "store cannot have %s ordering", in.Ordering)
			}
		}
	case *ir.Fence:
		if in.Ordering < ir.Acquire {
			v.instf(in, TypeMismatch, "fence ordering must be acquire, release, acq_rel or seq_cst")
		}
	case *ir.CmpXchg:
		v.checkCmpXchg(in)
	case *ir.AtomicRMW:
		v.checkAtomicRMW(in)
	case *ir.GetElementPtr:
		v.checkGEP(in)

	// casts and comparisons
	case *ir.Cast:
		v.checkCast(in)
	case *ir.Cmp:
		v.checkCmp(in)

	// other
	case *ir.Phi:
		if c.IsVoid(in.Typ) || c.IsLabel(in.Typ) || !c.IsFirstClass(in.Typ) {
			v.instf(in, TypeMismatch, "phi cannot have type %s", v.ty(in.Typ))
		}
		for i, inc := range in.Incoming {
			if !c.Equal(inc.Val.Type(), in.Typ) {
				v.instf(in, TypeMismatch, "phi incoming value %d has type %s, expected %s", i, v.ty(inc.Val.Type()), v.ty(in.Typ))
			}
		}
	case *ir.Select:
		v.checkSelect(in)
	case *ir.Freeze:
		if !c.IsFirstClass(in.X.Type()) || c.IsLabel(in.X.Type()) {
			v.instf(in, TypeMismatch, "cannot freeze a value of type %s", v.ty(in.X.Type()))
		}
	case *ir.Call:
		v.checkCallSite(in, &in.CallSite)
	case *ir.VAArg:
		if !c.IsPointer(in.List.Type()) {
			v.instf(in, TypeMismatch, "va_arg list must be a pointer, found %s", v.ty(in.List.Type()))
		}
		if !c.IsFirstClass(in.To) {
			v.instf(in, TypeMismatch, "va_arg cannot produce %s", v.ty(in.To))
		}
	case *ir.LandingPad:
		if !in.Cleanup && len(in.Clauses) == 0 {
			v.instf(in, IllegalStructure, "landingpad must have at least one clause or be a cleanup")
		}
		for i, cl := range in.Clauses {
			if cl.Filter && !c.IsArray(cl.Val.Type()) {
				v.instf(in, TypeMismatch, "filter clause %d must be an array constant", i)
			}
			if !cl.Filter && !c.IsPointer(cl.Val.Type()) {
				v.instf(in, TypeMismatch, "catch clause %d must be a pointer", i)
			}
		}
	case *ir.FuncletPad:
		if in.Op == ir.OpCatchPad {
			if _, ok := in.Within.(*ir.CatchSwitch); !ok {
				v.instf(in, IllegalUse, "catchpad must be within a catchswitch")
			}
		} else if !isParentPad(in.Within) {
			v.instf(in, IllegalUse, "cleanuppad parent must be none or an EH pad")
		}
	default:
		v.instf(inst, Internal, "no type rule for %s", inst.Opcode())
	}
}

func isPad(val ir.Value, op ir.Opcode) bool {
	fp, ok := val.(*ir.FuncletPad)
	return ok && fp.Op == op
}

func isParentPad(val ir.Value) bool {
	switch val.(type) {
	case *ir.ConstNone, *ir.FuncletPad, *ir.CatchSwitch:
		return true
	}
	return false
}

func (v *verifier) checkSwitch(in *ir.Switch) {
	ct := in.Cond.Type()
	if !v.ctx.IsInteger(ct) {
		v.instf(in, TypeMismatch, "switch condition must be an integer, found %s", v.ty(ct))
		return
	}
	seen := make(map[string]bool, len(in.Cases))
	for i, cs := range in.Cases {
		if !v.ctx.Equal(cs.Val.Type(), ct) {
			v.instf(in, TypeMismatch, "switch case %d has type %s, condition is %s", i, v.ty(cs.Val.Type()), v.ty(ct))
			continue
		}
		ci, ok := cs.Val.(*ir.ConstInt)
		if !ok {
			v.instf(in, TypeMismatch, "switch case %d must be an integer constant", i)
			continue
		}
		key := ci.V.String()
		if seen[key] {
			v.instf(in, IllegalControlFlow, "duplicate switch case value %s", key)
		}
		seen[key] = true
	}
}

func (v *verifier) checkBinary(in *ir.BinaryOp) {
	c := v.ctx
	xt, yt := in.X.Type(), in.Y.Type()
	if !c.Equal(xt, yt) {
		v.instf(in, TypeMismatch, "%s operands have different types %s and %s", in.Op, v.ty(xt), v.ty(yt))
		return
	}
	switch {
	case in.Op.IsFPBinary():
		if !c.IsFPOrFPVector(xt) {
			v.instf(in, TypeMismatch, "%s requires floating point operands, found %s", in.Op, v.ty(xt))
		}
	case !c.IsIntOrIntVector(xt):
		v.instf(in, TypeMismatch, "%s requires integer operands, found %s", in.Op, v.ty(xt))
	}
}

func (v *verifier) checkShuffle(in *ir.ShuffleVector) {
	c := v.ctx
	xt := in.X.Type()
	if !c.IsVector(xt) || !c.Equal(xt, in.Y.Type()) {
		v.instf(in, TypeMismatch, "shufflevector operands must be vectors of the same type, found %s and %s",
			v.ty(xt), v.ty(in.Y.Type()))
	}
	mt := in.Mask.Type()
	if !c.IsVector(mt) || c.ElementType(mt) != v.b.I32 {
		v.instf(in, TypeMismatch, "shufflevector mask must be a vector of i32, found %s", v.ty(mt))
		return
	}
	switch in.Mask.(type) {
	case *ir.ConstAggregate, *ir.ConstZero, *ir.ConstUndef, *ir.ConstPoison:
	default:
		v.instf(in, TypeMismatch, "shufflevector mask must be a constant")
	}
}

func (v *verifier) checkMemAccess(in ir.Instruction, ptr ir.Value, elem types.TypeID) {
	c := v.ctx
	if !c.IsPointer(ptr.Type()) {
		v.instf(in, TypeMismatch, "%s address must be a pointer, found %s", in.Opcode(), v.ty(ptr.Type()))
	}
	if !c.IsFirstClass(elem) || !c.IsSized(elem) {
		v.instf(in, TypeMismatch, "%s of unsized or non first-class type %s", in.Opcode(), v.ty(elem))
	}
}

func (v *verifier) checkAtomicAccess(in ir.Instruction, elem types.TypeID, ord ir.Ordering, align uint64) {
	c := v.ctx
	if ord == ir.NotAtomic {
		v.instf(in, TypeMismatch, "atomic %s requires an ordering", in.Opcode())
	}
	if align == 0 {
		v.instf(in, TypeMismatch, "atomic %s must have an explicit alignment", in.Opcode())
	}
	if !c.IsInteger(elem) && !c.IsFloat(elem) && !c.IsPointer(elem) {
		v.instf(in, TypeMismatch, "atomic %s operand must be integer, pointer or floating point, found %s",
			in.Opcode(), v.ty(elem))
	}
}

func (v *verifier) checkCmpXchg(in *ir.CmpXchg) {
	c := v.ctx
	if !c.IsPointer(in.Ptr.Type()) {
		v.instf(in, TypeMismatch, "cmpxchg address must be a pointer, found %s", v.ty(in.Ptr.Type()))
	}
	ct := in.Cmp.Type()
	if !c.Equal(ct, in.New.Type()) {
		v.instf(in, TypeMismatch, "cmpxchg compare and new values differ: %s and %s", v.ty(ct), v.ty(in.New.Type()))
	} else if !c.IsInteger(ct) && !c.IsPointer(ct) {
		v.instf(in, TypeMismatch, "cmpxchg operand must be an integer or pointer, found %s", v.ty(ct))
	}
	if in.Success < ir.Monotonic || in.Failure < ir.Monotonic {
		v.instf(in, TypeMismatch, "cmpxchg orderings must be at least monotonic")
	}
	if in.Failure == ir.Release || in.Failure == ir.AcqRel {
		v.instf(in, TypeMismatch, "cmpxchg failure ordering cannot be %s", in.Failure)
	}
}

func (v *verifier) checkAtomicRMW(in *ir.AtomicRMW) {
	c := v.ctx
	if !c.IsPointer(in.Ptr.Type()) {
		v.instf(in, TypeMismatch, "atomicrmw address must be a pointer, found %s", v.ty(in.Ptr.Type()))
	}
	vt := in.Val.Type()
	switch ir.AtomicRMWOps[in.RMWOp] {
	case 'i':
		if !c.IsInteger(vt) {
			v.instf(in, TypeMismatch, "atomicrmw %s operand must be an integer, found %s", in.RMWOp, v.ty(vt))
		}
	case 'f':
		if !c.IsFPOrFPVector(vt) {
			v.instf(in, TypeMismatch, "atomicrmw %s operand must be floating point, found %s", in.RMWOp, v.ty(vt))
		}
	case 'x':
		if !c.IsInteger(vt) && !c.IsFloat(vt) && !c.IsPointer(vt) {
			v.instf(in, TypeMismatch, "atomicrmw xchg operand must be integer, pointer or floating point, found %s", v.ty(vt))
		}
	default:
		v.instf(in, TypeMismatch, "unknown atomicrmw operation %q", in.RMWOp)
	}
	if in.Ordering < ir.Monotonic {
		v.instf(in, TypeMismatch, "atomicrmw ordering must be at least monotonic")
	}
}

// checkGEP: первый индекс шагает по указателю, остальные внутрь SrcType.
func (v *verifier) checkGEP(in *ir.GetElementPtr) {
	c := v.ctx
	if !c.IsSized(in.SrcType) {
		v.instf(in, TypeMismatch, "getelementptr source type %s is unsized", v.ty(in.SrcType))
		return
	}
	if !c.IsPtrOrPtrVector(in.Ptr.Type()) {
		v.instf(in, TypeMismatch, "getelementptr base must be a pointer, found %s", v.ty(in.Ptr.Type()))
	}
	cur := in.SrcType
	for i, idx := range in.Indices {
		if !c.IsIntOrIntVector(idx.Type()) {
			v.instf(in, TypeMismatch, "getelementptr index %d must be an integer, found %s", i, v.ty(idx.Type()))
			return
		}
		if i == 0 {
			continue
		}
		switch c.Kind(cur) {
		case types.KindArray, types.KindVector:
			cur = c.ElementType(cur)
		case types.KindStruct:
			ci, ok := idx.(*ir.ConstInt)
			fields := c.StructFields(cur)
			if !ok || !ci.V.IsUint64() || ci.V.Uint64() >= uint64(len(fields)) {
				v.instf(in, TypeMismatch, "getelementptr struct index %d must be a constant in range", i)
				return
			}
			cur = fields[ci.V.Uint64()]
		default:
			v.instf(in, TypeMismatch, "getelementptr index %d steps into non-aggregate %s", i, v.ty(cur))
			return
		}
	}
}

// checkCast: правила для каждого приведения; векторы сравниваются поэлементно.
func (v *verifier) checkCast(in *ir.Cast) {
	c := v.ctx
	src, dst := in.X.Type(), in.To
	if in.Op != ir.OpBitCast {
		sn, ss, sv := c.VectorLen(src)
		dn, ds, dv := c.VectorLen(dst)
		if sv != dv || sn != dn || ss != ds {
			v.instf(in, TypeMismatch, "%s source %s and destination %s must both be scalars or vectors of the same length",
				in.Op, v.ty(src), v.ty(dst))
			return
		}
	}
	se, de := c.ScalarType(src), c.ScalarType(dst)
	sb, db := c.ScalarBits(se), c.ScalarBits(de)
	bad := func(format string, args ...any) {
		v.instf(in, TypeMismatch, format, args...)
	}
	switch in.Op {
	case ir.OpTrunc:
		if !c.IsInteger(se) || !c.IsInteger(de) {
			bad("trunc requires integer types, found %s to %s", v.ty(src), v.ty(dst))
		} else if db >= sb {
			bad("trunc target type %s must be strictly narrower than source type %s", v.ty(dst), v.ty(src))
		}
	case ir.OpZExt, ir.OpSExt:
		if !c.IsInteger(se) || !c.IsInteger(de) {
			bad("%s requires integer types, found %s to %s", in.Op, v.ty(src), v.ty(dst))
		} else if db <= sb {
			bad("%s target type %s must be strictly wider than source type %s", in.Op, v.ty(dst), v.ty(src))
		}
	case ir.OpFPTrunc:
		if !c.IsFloat(se) || !c.IsFloat(de) {
			bad("fptrunc requires floating point types, found %s to %s", v.ty(src), v.ty(dst))
		} else if db >= sb {
			bad("fptrunc target type %s must be strictly narrower than source type %s", v.ty(dst), v.ty(src))
		}
	case ir.OpFPExt:
		if !c.IsFloat(se) || !c.IsFloat(de) {
			bad("fpext requires floating point types, found %s to %s", v.ty(src), v.ty(dst))
		} else if db <= sb {
			bad("fpext target type %s must be strictly wider than source type %s", v.ty(dst), v.ty(src))
		}
	case ir.OpFPToUI, ir.OpFPToSI:
		if !c.IsFloat(se) || !c.IsInteger(de) {
			bad("%s converts floating point to integer, found %s to %s", in.Op, v.ty(src), v.ty(dst))
		}
	case ir.OpUIToFP, ir.OpSIToFP:
		if !c.IsInteger(se) || !c.IsFloat(de) {
			bad("%s converts integer to floating point, found %s to %s", in.Op, v.ty(src), v.ty(dst))
		}
	case ir.OpPtrToInt:
		if !c.IsPointer(se) || !c.IsInteger(de) {
			bad("ptrtoint converts pointer to integer, found %s to %s", v.ty(src), v.ty(dst))
		}
	case ir.OpIntToPtr:
		if !c.IsInteger(se) || !c.IsPointer(de) {
			bad("inttoptr converts integer to pointer, found %s to %s", v.ty(src), v.ty(dst))
		}
	case ir.OpBitCast:
		v.checkBitCast(in, src, dst)
	case ir.OpAddrSpaceCast:
		sa, sok := c.AddrSpace(se)
		da, dok := c.AddrSpace(de)
		switch {
		case !sok || !dok:
			bad("addrspacecast requires pointer types, found %s to %s", v.ty(src), v.ty(dst))
		case sa == da:
			bad("addrspacecast must change the address space, both are %d", sa)
		}
	default:
		v.instf(in, Internal, "no cast rule for %s", in.Op)
	}
}

func (v *verifier) checkBitCast(in *ir.Cast, src, dst types.TypeID) {
	c := v.ctx
	if !c.IsSingleValue(src) || !c.IsSingleValue(dst) {
		v.instf(in, TypeMismatch, "bitcast requires non-aggregate first-class types, found %s to %s", v.ty(src), v.ty(dst))
		return
	}
	sp, dp := c.IsPtrOrPtrVector(src), c.IsPtrOrPtrVector(dst)
	switch {
	case sp != dp:
		v.instf(in, TypeMismatch, "bitcast cannot convert between pointer and non-pointer types (%s to %s)", v.ty(src), v.ty(dst))
	case sp:
		sa, _ := c.AddrSpace(c.ScalarType(src))
		da, _ := c.AddrSpace(c.ScalarType(dst))
		if sa != da {
			v.instf(in, TypeMismatch, "bitcast cannot change the address space (%d to %d), use addrspacecast", sa, da)
		}
		sn, _, _ := c.VectorLen(src)
		dn, _, _ := c.VectorLen(dst)
		if sn != dn {
			v.instf(in, TypeMismatch, "bitcast of pointer vectors must keep the length")
		}
	default:
		sb, db := c.PrimitiveBits(src), c.PrimitiveBits(dst)
		if sb == 0 || sb != db {
			v.instf(in, TypeMismatch, "bitcast requires types of the same size, found %s (%d bits) to %s (%d bits)",
				v.ty(src), sb, v.ty(dst), db)
		}
	}
}

func (v *verifier) checkCmp(in *ir.Cmp) {
	c := v.ctx
	xt := in.X.Type()
	if !c.Equal(xt, in.Y.Type()) {
		v.instf(in, TypeMismatch, "%s operands have different types %s and %s", in.Op, v.ty(xt), v.ty(in.Y.Type()))
		return
	}
	if in.Op == ir.OpICmp {
		if !c.IsIntOrIntVector(xt) && !c.IsPtrOrPtrVector(xt) {
			v.instf(in, TypeMismatch, "icmp requires integer or pointer operands, found %s", v.ty(xt))
		}
		if !ir.ICmpPredicates[in.Pred] {
			v.instf(in, TypeMismatch, "invalid icmp predicate %q", in.Pred)
		}
		return
	}
	if !c.IsFPOrFPVector(xt) {
		v.instf(in, TypeMismatch, "fcmp requires floating point operands, found %s", v.ty(xt))
	}
	if !ir.FCmpPredicates[in.Pred] {
		v.instf(in, TypeMismatch, "invalid fcmp predicate %q", in.Pred)
	}
}

func (v *verifier) checkSelect(in *ir.Select) {
	c := v.ctx
	xt := in.X.Type()
	if !c.Equal(xt, in.Y.Type()) {
		v.instf(in, TypeMismatch, "select operands have different types %s and %s", v.ty(xt), v.ty(in.Y.Type()))
	}
	ct := in.Cond.Type()
	if ct == v.b.I1 {
		return
	}
	cn, cs, cv := c.VectorLen(ct)
	xn, xs, xv := c.VectorLen(xt)
	if !cv || c.ElementType(ct) != v.b.I1 {
		v.instf(in, TypeMismatch, "select condition must be i1 or a vector of i1, found %s", v.ty(ct))
		return
	}
	if !xv || cn != xn || cs != xs {
		v.instf(in, TypeMismatch, "select vector condition %s does not match operand %s", v.ty(ct), v.ty(xt))
	}
}

// calleeSig: тип вызываемой функции. Для прямого вызова берётся сигнатура
// определения, иначе тип, записанный в месте вызова.
func calleeSig(cs *ir.CallSite) (types.TypeID, *ir.Function) {
	if fn, ok := cs.Callee.(*ir.Function); ok {
		return fn.Sig, fn
	}
	return cs.FnType, nil
}

func (v *verifier) checkCallSite(in ir.Instruction, cs *ir.CallSite) {
	c := v.ctx
	if _, asm := cs.Callee.(*ir.InlineAsm); !asm && !c.IsPointer(cs.Callee.Type()) {
		v.instf(in, TypeMismatch, "callee must be a pointer, found %s", v.ty(cs.Callee.Type()))
		return
	}
	sig, fn := calleeSig(cs)
	if !c.IsFunc(sig) {
		v.instf(in, TypeMismatch, "called value does not have a function type")
		return
	}
	params := c.FuncParams(sig)
	variadic := c.IsVariadic(sig)
	name := "callee"
	if fn != nil {
		name = fn.Name.Global()
	}
	switch {
	case variadic && len(cs.Args) < len(params):
		v.instf(in, TypeMismatch, "call to variadic %s passes %d arguments, at least %d required", name, len(cs.Args), len(params))
		return
	case !variadic && len(cs.Args) != len(params):
		v.instf(in, TypeMismatch, "call to %s passes %d arguments, %d expected", name, len(cs.Args), len(params))
		return
	}
	for i, p := range params {
		if at := cs.Args[i].Val.Type(); !c.Equal(at, p) {
			v.instf(in, TypeMismatch, "argument %d of %s has type %s, parameter is %s", i, name, v.ty(at), v.ty(p))
		}
	}
	if fn != nil && c.IsFunc(cs.FnType) {
		if want, got := c.FuncResult(sig), c.FuncResult(cs.FnType); !c.Equal(want, got) {
			v.instf(in, TypeMismatch, "call expects %s to return %s, it returns %s", name, v.ty(got), v.ty(want))
		}
	}
}
