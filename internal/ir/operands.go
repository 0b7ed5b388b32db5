package ir

import "fmt"

// OperandSlots returns pointers to every Value operand of inst in operand
// order. Block targets are not Values and are not included; see Successors.
func OperandSlots(inst Instruction) []*Value {
	switch in := inst.(type) {
	case *Ret:
		if in.Val == nil {
			return nil
		}
		return []*Value{&in.Val}
	case *Br:
		if in.Cond == nil {
			return nil
		}
		return []*Value{&in.Cond}
	case *Switch:
		out := []*Value{&in.Cond}
		for i := range in.Cases {
			out = append(out, &in.Cases[i].Val)
		}
		return out
	case *IndirectBr:
		return []*Value{&in.Addr}
	case *Invoke:
		return callSiteSlots(&in.CallSite)
	case *Resume:
		return []*Value{&in.Val}
	case *Unreachable:
		return nil
	case *CleanupRet:
		return []*Value{&in.Pad}
	case *CatchRet:
		return []*Value{&in.Pad}
	case *CatchSwitch:
		return []*Value{&in.Within}
	case *UnaryOp:
		return []*Value{&in.X}
	case *BinaryOp:
		return []*Value{&in.X, &in.Y}
	case *ExtractElement:
		return []*Value{&in.Vec, &in.Index}
	case *InsertElement:
		return []*Value{&in.Vec, &in.Elem, &in.Index}
	case *ShuffleVector:
		return []*Value{&in.X, &in.Y, &in.Mask}
	case *ExtractValue:
		return []*Value{&in.Agg}
	case *InsertValue:
		return []*Value{&in.Agg, &in.Elem}
	case *Alloca:
		if in.Count == nil {
			return nil
		}
		return []*Value{&in.Count}
	case *Load:
		return []*Value{&in.Ptr}
	case *Store:
		return []*Value{&in.Val, &in.Ptr}
	case *Fence:
		return nil
	case *CmpXchg:
		return []*Value{&in.Ptr, &in.Cmp, &in.New}
	case *AtomicRMW:
		return []*Value{&in.Ptr, &in.Val}
	case *GetElementPtr:
		out := []*Value{&in.Ptr}
		for i := range in.Indices {
			out = append(out, &in.Indices[i])
		}
		return out
	case *Cast:
		return []*Value{&in.X}
	case *Cmp:
		return []*Value{&in.X, &in.Y}
	case *Phi:
		out := make([]*Value, len(in.Incoming))
		for i := range in.Incoming {
			out[i] = &in.Incoming[i].Val
		}
		return out
	case *Select:
		return []*Value{&in.Cond, &in.X, &in.Y}
	case *Freeze:
		return []*Value{&in.X}
	case *Call:
		return callSiteSlots(&in.CallSite)
	case *VAArg:
		return []*Value{&in.List}
	case *LandingPad:
		out := make([]*Value, len(in.Clauses))
		for i := range in.Clauses {
			out[i] = &in.Clauses[i].Val
		}
		return out
	case *FuncletPad:
		out := []*Value{&in.Within}
		for i := range in.Args {
			out = append(out, &in.Args[i])
		}
		return out
	}
	panic(fmt.Sprintf("ir: OperandSlots: unhandled instruction %T", inst))
}

func callSiteSlots(cs *CallSite) []*Value {
	out := []*Value{&cs.Callee}
	for i := range cs.Args {
		out = append(out, &cs.Args[i].Val)
	}
	for i := range cs.Bundles {
		for j := range cs.Bundles[i].Inputs {
			out = append(out, &cs.Bundles[i].Inputs[j])
		}
	}
	return out
}

// ConstantSlots returns pointers to the nested operands of a constant.
func ConstantSlots(v Value) []*Value {
	switch c := v.(type) {
	case *ConstAggregate:
		out := make([]*Value, len(c.Elems))
		for i := range c.Elems {
			out[i] = &c.Elems[i]
		}
		return out
	case *ConstExpr:
		out := make([]*Value, len(c.Ops))
		for i := range c.Ops {
			out[i] = &c.Ops[i]
		}
		return out
	case *BlockAddress:
		return []*Value{&c.Func}
	case *DSOLocalEquivalent:
		return []*Value{&c.Func}
	case *NoCFI:
		return []*Value{&c.Func}
	}
	return nil
}

// Operands returns the operand values of inst.
func Operands(inst Instruction) []Value {
	slots := OperandSlots(inst)
	out := make([]Value, len(slots))
	for i, s := range slots {
		out[i] = *s
	}
	return out
}

// Rewrite calls fn for every value slot in the module, descending into
// constants, and stores what fn returns. It visits global initialisers,
// aliasees, resolvers, function prefix/prologue/personality and every
// instruction operand.
func (m *Module) Rewrite(fn func(Value) Value) {
	var visit func(*Value)
	visit = func(slot *Value) {
		if *slot == nil {
			return
		}
		*slot = fn(*slot)
		for _, s := range ConstantSlots(*slot) {
			visit(s)
		}
	}
	for _, g := range m.Globals {
		visit(&g.Init)
	}
	for _, a := range m.Aliases {
		visit(&a.Aliasee)
	}
	for _, i := range m.IFuncs {
		visit(&i.Resolver)
	}
	for _, f := range m.Funcs {
		visit(&f.Prefix)
		visit(&f.Prologue)
		visit(&f.Personality)
		for _, b := range f.Blocks {
			for _, inst := range b.Insts {
				for _, s := range OperandSlots(inst) {
					visit(s)
				}
			}
		}
	}
}
