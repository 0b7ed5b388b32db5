package irfmt

import (
	"strconv"
	"strings"

	"llvet/internal/ir"
	"llvet/internal/metadata"
	"llvet/internal/types"
)

func (p *printer) ty(id types.TypeID) string {
	return p.ctx.String(id)
}

// typed renders "T v".
func (p *printer) typed(v ir.Value) string {
	return p.ty(v.Type()) + " " + p.value(v)
}

// value renders an operand without its type.
func (p *printer) value(v ir.Value) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case ir.Instruction:
		return v.Base().Name.Local()
	case *ir.Param:
		return v.Name.Local()
	case *ir.Block:
		return v.Name.Local()
	case ir.Global:
		return v.Header().Name.Global()
	case *ir.Placeholder:
		if v.Global {
			return v.Name.Global()
		}
		return v.Name.Local()
	case *ir.ConstInt:
		if p.ctx.IsInteger(v.Typ) && p.ctx.ScalarBits(v.Typ) == 1 {
			if v.IsTrue() {
				return "true"
			}
			return "false"
		}
		return v.V.String()
	case *ir.ConstFloat:
		return v.Text
	case *ir.ConstNull:
		return "null"
	case *ir.ConstNone:
		return "none"
	case *ir.ConstUndef:
		return "undef"
	case *ir.ConstPoison:
		return "poison"
	case *ir.ConstZero:
		return "zeroinitializer"
	case *ir.ConstString:
		return "c" + quote(v.Data)
	case *ir.ConstAggregate:
		return p.aggregate(v)
	case *ir.ConstExpr:
		return p.constExpr(v)
	case *ir.BlockAddress:
		return "blockaddress(" + p.value(v.Func) + ", " + v.Block.Local() + ")"
	case *ir.DSOLocalEquivalent:
		return "dso_local_equivalent " + p.value(v.Func)
	case *ir.NoCFI:
		return "no_cfi " + p.value(v.Func)
	case *ir.InlineAsm:
		var sb strings.Builder
		sb.WriteString("asm ")
		if v.SideEffect {
			sb.WriteString("sideeffect ")
		}
		if v.AlignStack {
			sb.WriteString("alignstack ")
		}
		if v.IntelDialect {
			sb.WriteString("inteldialect ")
		}
		if v.Unwind {
			sb.WriteString("unwind ")
		}
		sb.WriteString(quote([]byte(v.Asm)) + ", " + quote([]byte(v.Constraints)))
		return sb.String()
	case *ir.MetadataValue:
		return p.mdOperand(v.Op, false)
	}
	return "<unknown>"
}

func (p *printer) aggregate(c *ir.ConstAggregate) string {
	elems := make([]string, len(c.Elems))
	for i, e := range c.Elems {
		elems[i] = p.typed(e)
	}
	body := strings.Join(elems, ", ")
	switch c.Kind {
	case ir.AggArray:
		return "[" + body + "]"
	case ir.AggVector:
		return "<" + body + ">"
	}
	s := "{}"
	if body != "" {
		s = "{ " + body + " }"
	}
	if p.ctx.IsPacked(c.Typ) {
		return "<" + s + ">"
	}
	return s
}

func (p *printer) constExpr(c *ir.ConstExpr) string {
	var sb strings.Builder
	sb.WriteString(c.Op.String())
	ops := make([]string, len(c.Ops))
	for i, op := range c.Ops {
		ops[i] = p.typed(op)
	}
	switch {
	case c.Op.IsCast():
		sb.WriteString(flagWords(c.Flags))
		sb.WriteString(" (" + ops[0] + " to " + p.ty(c.Typ) + ")")
	case c.Op == ir.OpGetElementPtr:
		if c.InBounds {
			sb.WriteString(" inbounds")
		}
		sb.WriteString(" (" + p.ty(c.SrcType))
		for _, op := range ops {
			sb.WriteString(", " + op)
		}
		sb.WriteString(")")
	case c.Op == ir.OpICmp || c.Op == ir.OpFCmp:
		sb.WriteString(" " + c.Pred + " (" + strings.Join(ops, ", ") + ")")
	default:
		sb.WriteString(flagWords(c.Flags))
		sb.WriteString(" (" + strings.Join(ops, ", ") + ")")
	}
	return sb.String()
}

// flagWords renders poison flags with a leading space.
func flagWords(f ir.ArithFlags) string {
	var sb strings.Builder
	for _, fw := range []struct {
		flag ir.ArithFlags
		word string
	}{
		{ir.FlagNUW, "nuw"}, {ir.FlagNSW, "nsw"}, {ir.FlagExact, "exact"},
		{ir.FlagDisjoint, "disjoint"}, {ir.FlagNNeg, "nneg"},
	} {
		if f&fw.flag != 0 {
			sb.WriteString(" " + fw.word)
		}
	}
	return sb.String()
}

func fastMathWords(fm ir.FastMath) string {
	words := fm.Words()
	if len(words) == 0 {
		return ""
	}
	return " " + strings.Join(words, " ")
}

// ===== attributes =====

func (p *printer) attrs(set ir.AttrSet) string {
	out := make([]string, len(set))
	for i, a := range set {
		out[i] = p.attr(a)
	}
	return strings.Join(out, " ")
}

func (p *printer) attr(a ir.Attribute) string {
	switch {
	case a.Str:
		if a.Value == "" {
			return quote([]byte(a.Kind))
		}
		return quote([]byte(a.Kind)) + "=" + quote([]byte(a.Value))
	case a.Type != types.NoTypeID:
		return a.Kind + "(" + p.ty(a.Type) + ")"
	case a.HasInt:
		if a.Kind == "align" {
			return "align " + strconv.FormatUint(a.Int, 10)
		}
		return a.Kind + "(" + strconv.FormatUint(a.Int, 10) + ")"
	case a.Value != "":
		return a.Kind + "(" + a.Value + ")"
	}
	return a.Kind
}

// ===== metadata =====

func (p *printer) attachment(a ir.Attachment) string {
	return "!" + a.Kind + " " + p.mdOperand(a.Op, false)
}

// mdOperand renders an operand; inField selects the bare "..." string form
// used inside specialised nodes.
func (p *printer) mdOperand(op metadata.Operand, inField bool) string {
	switch op.Kind {
	case metadata.OpNull:
		return "null"
	case metadata.OpRef:
		return "!" + strconv.FormatUint(uint64(op.Ref), 10)
	case metadata.OpString:
		if inField {
			return quote([]byte(op.Text))
		}
		return "!" + quote([]byte(op.Text))
	case metadata.OpValue:
		return p.ty(op.Type) + " " + op.Text
	case metadata.OpEnum, metadata.OpBool:
		return op.Text
	case metadata.OpInt:
		if op.Text != "" {
			return op.Text
		}
		if op.Int != nil {
			return op.Int.String()
		}
		return "0"
	case metadata.OpInline:
		return p.mdNode(op.Node)
	}
	return "null"
}

func (p *printer) mdNode(n *metadata.Node) string {
	if n == nil {
		return "!{}"
	}
	var sb strings.Builder
	if n.IsTuple() {
		sb.WriteString("!{")
		for i, e := range n.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.mdOperand(e, false))
		}
		sb.WriteString("}")
		return sb.String()
	}
	sb.WriteString("!" + n.Specialized + "(")
	for i, f := range n.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		if f.Name != "" {
			sb.WriteString(f.Name + ": ")
		}
		sb.WriteString(p.mdOperand(f.Op, true))
	}
	sb.WriteString(")")
	return sb.String()
}

func (p *printer) printMetadata() {
	md := p.m.MD
	for _, name := range md.NamedLists() {
		ids, _ := md.Named(name)
		refs := make([]string, len(ids))
		for i, id := range ids {
			refs[i] = "!" + strconv.FormatUint(uint64(id), 10)
		}
		p.line("!", name, " = !{", strings.Join(refs, ", "), "}")
	}
	for _, id := range md.IDs() {
		n, _ := md.Lookup(id)
		distinct := ""
		if n.Distinct {
			distinct = "distinct "
		}
		p.line("!", strconv.FormatUint(uint64(id), 10), " = ", distinct, p.mdNode(n))
	}
}

// quote renders "..." escaping quotes, backslashes and non-printable bytes
// as \XX.
func quote(data []byte) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(data) + 2)
	sb.WriteByte('"')
	for _, b := range data {
		switch {
		case b == '\\':
			sb.WriteString(`\\`)
		case b == '"' || b < 0x20 || b >= 0x7f:
			sb.WriteByte('\\')
			sb.WriteByte(hex[b>>4])
			sb.WriteByte(hex[b&0xf])
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
