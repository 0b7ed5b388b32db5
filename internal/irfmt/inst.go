package irfmt

import (
	"strconv"
	"strings"

	"llvet/internal/ir"
	"llvet/internal/types"
)

// Instruction renders one instruction of m as it appears inside a block,
// without indentation.
func Instruction(m *ir.Module, inst ir.Instruction) string {
	p := &printer{m: m, ctx: m.Types}
	return p.inst(inst)
}

func (p *printer) inst(inst ir.Instruction) string {
	var sb strings.Builder
	base := inst.Base()
	if base.Name.Set && !p.ctx.IsVoid(base.Typ) {
		sb.WriteString(base.Name.Local() + " = ")
	}
	sb.WriteString(p.instBody(inst))
	for _, a := range base.Attachments {
		sb.WriteString(", " + p.attachment(a))
	}
	return sb.String()
}

func label(b *ir.Block) string {
	return "label " + b.Name.Local()
}

func align(n uint64) string {
	if n == 0 {
		return ""
	}
	return ", align " + strconv.FormatUint(n, 10)
}

func syncScope(s string) string {
	if s == "" {
		return ""
	}
	return " syncscope(" + quote([]byte(s)) + ")"
}

func unwindDest(b *ir.Block) string {
	if b == nil {
		return "unwind to caller"
	}
	return "unwind " + label(b)
}

func indices(idx []uint64) string {
	var sb strings.Builder
	for _, i := range idx {
		sb.WriteString(", " + strconv.FormatUint(i, 10))
	}
	return sb.String()
}

func (p *printer) instBody(inst ir.Instruction) string {
	op := inst.Opcode().String()
	switch in := inst.(type) {
	case *ir.Ret:
		if in.Val == nil {
			return "ret void"
		}
		return "ret " + p.typed(in.Val)
	case *ir.Br:
		if in.Cond == nil {
			return "br " + label(in.True)
		}
		return "br " + p.typed(in.Cond) + ", " + label(in.True) + ", " + label(in.False)
	case *ir.Switch:
		var sb strings.Builder
		sb.WriteString("switch " + p.typed(in.Cond) + ", " + label(in.Default) + " [")
		for _, c := range in.Cases {
			sb.WriteString("\n" + p.indent(2) + p.typed(c.Val) + ", " + label(c.Dest))
		}
		if len(in.Cases) > 0 {
			sb.WriteString("\n" + p.indent(1))
		}
		sb.WriteString("]")
		return sb.String()
	case *ir.IndirectBr:
		dests := make([]string, len(in.Dests))
		for i, d := range in.Dests {
			dests[i] = label(d)
		}
		return "indirectbr " + p.typed(in.Addr) + ", [" + strings.Join(dests, ", ") + "]"
	case *ir.Invoke:
		return "invoke" + p.callSite(&in.CallSite) + " to " + label(in.Normal) + " unwind " + label(in.Unwind)
	case *ir.Resume:
		return "resume " + p.typed(in.Val)
	case *ir.Unreachable:
		return "unreachable"
	case *ir.CleanupRet:
		return "cleanupret from " + p.value(in.Pad) + " " + unwindDest(in.Unwind)
	case *ir.CatchRet:
		return "catchret from " + p.value(in.Pad) + " to " + label(in.Dest)
	case *ir.CatchSwitch:
		handlers := make([]string, len(in.Handlers))
		for i, h := range in.Handlers {
			handlers[i] = label(h)
		}
		return "catchswitch within " + p.value(in.Within) + " [" + strings.Join(handlers, ", ") + "] " + unwindDest(in.Unwind)

	case *ir.UnaryOp:
		return op + fastMathWords(in.FastMath) + " " + p.typed(in.X)
	case *ir.BinaryOp:
		mods := flagWords(in.Flags)
		if in.Op.IsFPBinary() {
			mods = fastMathWords(in.FastMath)
		}
		return op + mods + " " + p.typed(in.X) + ", " + p.value(in.Y)

	case *ir.ExtractElement:
		return op + " " + p.typed(in.Vec) + ", " + p.typed(in.Index)
	case *ir.InsertElement:
		return op + " " + p.typed(in.Vec) + ", " + p.typed(in.Elem) + ", " + p.typed(in.Index)
	case *ir.ShuffleVector:
		return op + " " + p.typed(in.X) + ", " + p.typed(in.Y) + ", " + p.typed(in.Mask)
	case *ir.ExtractValue:
		return op + " " + p.typed(in.Agg) + indices(in.Indices)
	case *ir.InsertValue:
		return op + " " + p.typed(in.Agg) + ", " + p.typed(in.Elem) + indices(in.Indices)

	case *ir.Alloca:
		var sb strings.Builder
		sb.WriteString("alloca ")
		if in.InAlloca {
			sb.WriteString("inalloca ")
		}
		sb.WriteString(p.ty(in.ElemType))
		if in.Count != nil {
			sb.WriteString(", " + p.typed(in.Count))
		}
		sb.WriteString(align(in.Align))
		if in.AddrSpace != 0 {
			sb.WriteString(", addrspace(" + strconv.FormatUint(uint64(in.AddrSpace), 10) + ")")
		}
		return sb.String()
	case *ir.Load:
		var sb strings.Builder
		sb.WriteString("load ")
		if in.Atomic {
			sb.WriteString("atomic ")
		}
		if in.Volatile {
			sb.WriteString("volatile ")
		}
		sb.WriteString(p.ty(in.ElemType) + ", " + p.typed(in.Ptr))
		if in.Atomic {
			sb.WriteString(syncScope(in.SyncScope) + " " + in.Ordering.String())
		}
		sb.WriteString(align(in.Align))
		return sb.String()
	case *ir.Store:
		var sb strings.Builder
		sb.WriteString("store ")
		if in.Atomic {
			sb.WriteString("atomic ")
		}
		if in.Volatile {
			sb.WriteString("volatile ")
		}
		sb.WriteString(p.typed(in.Val) + ", " + p.typed(in.Ptr))
		if in.Atomic {
			sb.WriteString(syncScope(in.SyncScope) + " " + in.Ordering.String())
		}
		sb.WriteString(align(in.Align))
		return sb.String()
	case *ir.Fence:
		return "fence" + syncScope(in.SyncScope) + " " + in.Ordering.String()
	case *ir.CmpXchg:
		var sb strings.Builder
		sb.WriteString("cmpxchg ")
		if in.Weak {
			sb.WriteString("weak ")
		}
		if in.Volatile {
			sb.WriteString("volatile ")
		}
		sb.WriteString(p.typed(in.Ptr) + ", " + p.typed(in.Cmp) + ", " + p.typed(in.New))
		sb.WriteString(syncScope(in.SyncScope) + " " + in.Success.String() + " " + in.Failure.String())
		sb.WriteString(align(in.Align))
		return sb.String()
	case *ir.AtomicRMW:
		var sb strings.Builder
		sb.WriteString("atomicrmw ")
		if in.Volatile {
			sb.WriteString("volatile ")
		}
		sb.WriteString(in.RMWOp + " " + p.typed(in.Ptr) + ", " + p.typed(in.Val))
		sb.WriteString(syncScope(in.SyncScope) + " " + in.Ordering.String())
		sb.WriteString(align(in.Align))
		return sb.String()
	case *ir.GetElementPtr:
		var sb strings.Builder
		sb.WriteString("getelementptr ")
		if in.InBounds {
			sb.WriteString("inbounds ")
		}
		sb.WriteString(p.ty(in.SrcType) + ", " + p.typed(in.Ptr))
		for _, idx := range in.Indices {
			sb.WriteString(", " + p.typed(idx))
		}
		return sb.String()

	case *ir.Cast:
		return op + flagWords(in.Flags) + " " + p.typed(in.X) + " to " + p.ty(in.To)
	case *ir.Cmp:
		mods := fastMathWords(in.FastMath)
		if in.SameSign {
			mods = " samesign"
		}
		return op + mods + " " + in.Pred + " " + p.typed(in.X) + ", " + p.value(in.Y)

	case *ir.Phi:
		incoming := make([]string, len(in.Incoming))
		for i, inc := range in.Incoming {
			incoming[i] = "[ " + p.value(inc.Val) + ", " + inc.Block.Name.Local() + " ]"
		}
		return "phi" + fastMathWords(in.FastMath) + " " + p.ty(in.Typ) + " " + strings.Join(incoming, ", ")
	case *ir.Select:
		return "select" + fastMathWords(in.FastMath) + " " + p.typed(in.Cond) + ", " + p.typed(in.X) + ", " + p.typed(in.Y)
	case *ir.Freeze:
		return "freeze " + p.typed(in.X)
	case *ir.Call:
		tail := ""
		if in.Tail != ir.TailNone {
			tail = in.Tail.String() + " "
		}
		return tail + "call" + p.callSite(&in.CallSite)
	case *ir.VAArg:
		return "va_arg " + p.typed(in.List) + ", " + p.ty(in.To)
	case *ir.LandingPad:
		var sb strings.Builder
		sb.WriteString("landingpad " + p.ty(in.Typ))
		if in.Cleanup {
			sb.WriteString(" cleanup")
		}
		for _, c := range in.Clauses {
			kw := " catch "
			if c.Filter {
				kw = " filter "
			}
			sb.WriteString(kw + p.typed(c.Val))
		}
		return sb.String()
	case *ir.FuncletPad:
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = p.typed(a)
		}
		return op + " within " + p.value(in.Within) + " [" + strings.Join(args, ", ") + "]"
	}
	return "<unknown instruction " + op + ">"
}

func (p *printer) indent(level int) string {
	width := 2
	if p.w != nil {
		width = p.w.indentWidth
	}
	return strings.Repeat(" ", level*width)
}

// callSite renders everything after "call"/"invoke" up to the bundles,
// with a leading space.
func (p *printer) callSite(cs *ir.CallSite) string {
	var sb strings.Builder
	sb.WriteString(fastMathWords(cs.FastMath))
	if cs.CallConv != "" {
		sb.WriteString(" " + cs.CallConv)
	}
	if len(cs.RetAttrs) > 0 {
		sb.WriteString(" " + p.attrs(cs.RetAttrs))
	}
	if as, ok := p.ctx.AddrSpace(cs.Callee.Type()); ok && as != 0 {
		sb.WriteString(" addrspace(" + strconv.FormatUint(uint64(as), 10) + ")")
	}
	sb.WriteString(" " + p.calleeType(cs) + " " + p.value(cs.Callee) + "(")
	for i, a := range cs.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.ty(a.Val.Type()))
		if len(a.Attrs) > 0 {
			sb.WriteString(" " + p.attrs(a.Attrs))
		}
		sb.WriteString(" " + p.value(a.Val))
	}
	sb.WriteString(")")
	if len(cs.FnAttrs) > 0 {
		sb.WriteString(" " + p.attrs(cs.FnAttrs))
	}
	for _, g := range cs.FnAttrGroups {
		sb.WriteString(" #" + strconv.FormatUint(uint64(g), 10))
	}
	if len(cs.Bundles) > 0 {
		bundles := make([]string, len(cs.Bundles))
		for i, b := range cs.Bundles {
			inputs := make([]string, len(b.Inputs))
			for j, in := range b.Inputs {
				inputs[j] = p.typed(in)
			}
			bundles[i] = quote([]byte(b.Tag)) + "(" + strings.Join(inputs, ", ") + ")"
		}
		sb.WriteString(" [ " + strings.Join(bundles, ", ") + " ]")
	}
	return sb.String()
}

// calleeType печатает только тип результата, если тип функции
// восстанавливается из аргументов; иначе полный тип.
func (p *printer) calleeType(cs *ir.CallSite) string {
	params := p.ctx.FuncParams(cs.FnType)
	full := p.ctx.IsVariadic(cs.FnType) || len(params) != len(cs.Args)
	for i := 0; !full && i < len(params); i++ {
		full = !p.ctx.Equal(params[i], cs.Args[i].Val.Type())
	}
	if full || cs.FnType == types.NoTypeID {
		return p.ty(cs.FnType)
	}
	return p.ty(p.ctx.FuncResult(cs.FnType))
}
