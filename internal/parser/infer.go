package parser

import (
	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/types"
)

// resultType: таблица вывода типа результата. Перечисляет все варианты
// ir.Instruction; новый вариант без строки здесь получает NoTypeID и
// предупреждение, верификатор затем сообщает о нём.
func (p *Parser) resultType(inst ir.Instruction) types.TypeID {
	switch in := inst.(type) {
	// terminators
	case *ir.Ret, *ir.Br, *ir.Switch, *ir.IndirectBr, *ir.Resume, *ir.Unreachable,
		*ir.CleanupRet, *ir.CatchRet:
		return p.b.Void
	case *ir.Invoke:
		return p.ctx.FuncResult(in.FnType)
	case *ir.CatchSwitch:
		return p.b.Token

	// arithmetic
	case *ir.UnaryOp:
		return in.X.Type()
	case *ir.BinaryOp:
		return in.X.Type()

	// vector / aggregate
	case *ir.ExtractElement:
		return p.ctx.ElementType(in.Vec.Type())
	case *ir.InsertElement:
		return in.Vec.Type()
	case *ir.ShuffleVector:
		return p.shuffleResult(in.X.Type(), in.Mask.Type())
	case *ir.ExtractValue:
		t, err := p.ctx.IndexedType(in.Agg.Type(), in.Indices)
		if err != nil {
			return types.NoTypeID
		}
		return t
	case *ir.InsertValue:
		return in.Agg.Type()

	// memory
	case *ir.Alloca:
		return p.ctx.Pointer(in.AddrSpace)
	case *ir.Load:
		return in.ElemType
	case *ir.Store, *ir.Fence:
		return p.b.Void
	case *ir.CmpXchg:
		t, err := p.ctx.Struct([]types.TypeID{in.Cmp.Type(), p.b.I1}, false)
		if err != nil {
			return types.NoTypeID
		}
		return t
	case *ir.AtomicRMW:
		return in.Val.Type()
	case *ir.GetElementPtr:
		return p.gepResult(in.Ptr, in.Indices)

	// casts and comparisons
	case *ir.Cast:
		return in.To
	case *ir.Cmp:
		return p.cmpResult(in.X.Type())

	// other
	case *ir.Phi:
		return in.Typ
	case *ir.Select:
		return in.X.Type()
	case *ir.Freeze:
		return in.X.Type()
	case *ir.Call:
		return p.ctx.FuncResult(in.FnType)
	case *ir.VAArg:
		return in.To
	case *ir.LandingPad:
		return in.Typ
	case *ir.FuncletPad:
		return p.b.Token
	}
	p.warn(diag.SynMissingExpectedType, inst.Base().Span,
		"no result type rule for "+inst.Opcode().String())
	return types.NoTypeID
}

// cmpResult: i1 или <N x i1> той же длины, что и операнд.
func (p *Parser) cmpResult(operand types.TypeID) types.TypeID {
	n, scalable, ok := p.ctx.VectorLen(operand)
	if !ok {
		return p.b.I1
	}
	t, err := p.ctx.Vector(n, p.b.I1, scalable)
	if err != nil {
		return types.NoTypeID
	}
	return t
}

// shuffleResult: вектор элементов vec длины маски.
func (p *Parser) shuffleResult(vec, mask types.TypeID) types.TypeID {
	n, scalable, ok := p.ctx.VectorLen(mask)
	if !ok || !p.ctx.IsVector(vec) {
		return types.NoTypeID
	}
	t, err := p.ctx.Vector(n, p.ctx.ElementType(vec), scalable)
	if err != nil {
		return types.NoTypeID
	}
	return t
}

// gepResult: ptr в адресном пространстве базы, или вектор ptr, если база
// или какой-либо индекс: вектор.
func (p *Parser) gepResult(base ir.Value, indices []ir.Value) types.TypeID {
	bt := base.Type()
	as, _ := p.ctx.AddrSpace(p.ctx.ScalarType(bt))
	ptr := p.ctx.Pointer(as)
	n, scalable, vec := p.ctx.VectorLen(bt)
	for _, idx := range indices {
		if vec {
			break
		}
		n, scalable, vec = p.ctx.VectorLen(idx.Type())
	}
	if !vec {
		return ptr
	}
	t, err := p.ctx.Vector(n, ptr, scalable)
	if err != nil {
		return types.NoTypeID
	}
	return t
}
