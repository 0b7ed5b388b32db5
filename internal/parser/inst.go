package parser

import (
	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/token"
	"llvet/internal/types"
)

// parseInstruction: [%name =] opcode ... {, !kind !N}.
func (p *Parser) parseInstruction() ir.Instruction {
	start := p.peek().Span
	var nameTok token.Token
	named := false
	if p.at(token.LocalVar) || p.at(token.LocalID) {
		nameTok = p.next()
		p.expect(token.Equal, "'='")
		named = true
	}

	opTok := p.peek()
	if opTok.Kind != token.Keyword {
		p.failExpected("instruction opcode")
	}
	inst := p.parseInstBody(opTok)
	base := inst.Base()
	base.Span = start.Cover(p.lastSpan)
	base.Typ = p.resultType(inst)

	if p.ctx.IsVoid(base.Typ) {
		if named {
			p.failAt(nameTok.Span, diag.SynUnexpectedToken,
				"instructions returning void cannot have a name")
		}
		return inst
	}
	var name ir.Name
	if named {
		name = p.nameOf(nameTok)
	} else {
		nameTok = opTok
	}
	final, err := p.locals.Define(name, inst)
	p.checkDefine(nameTok, err)
	base.Name = final
	return inst
}

func (p *Parser) parseInstBody(tok token.Token) ir.Instruction {
	switch tok.Text {
	case "tail", "musttail", "notail":
		p.next()
		kind := map[string]ir.TailKind{"tail": ir.TailTail, "musttail": ir.TailMust, "notail": ir.TailNo}[tok.Text]
		if !p.atKw("call") {
			p.failExpected("'call'")
		}
		p.next()
		return p.parseCall(kind)
	}

	op, ok := ir.OpcodeByName(tok.Text)
	if !ok {
		p.fail(diag.SynUnknownOpcode, tok.Span, "instruction opcode", tok.Describe())
	}
	p.next()
	switch {
	case op.IsBinary():
		return p.parseBinary(op)
	case op.IsCast():
		return p.parseCast(op)
	}

	switch op {
	case ir.OpRet:
		return p.parseRet()
	case ir.OpBr:
		return p.parseBr()
	case ir.OpSwitch:
		return p.parseSwitch()
	case ir.OpIndirectBr:
		return p.parseIndirectBr()
	case ir.OpInvoke:
		return p.parseInvoke()
	case ir.OpResume:
		in := &ir.Resume{Val: p.parseTypedValue()}
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpUnreachable:
		in := &ir.Unreachable{}
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpCleanupRet:
		return p.parseCleanupRet()
	case ir.OpCatchRet:
		return p.parseCatchRet()
	case ir.OpCatchSwitch:
		return p.parseCatchSwitch()
	case ir.OpFNeg:
		in := &ir.UnaryOp{Op: op, FastMath: p.parseFastMath()}
		in.X = p.parseTypedValue()
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpExtractElement:
		in := &ir.ExtractElement{Vec: p.parseTypedValue()}
		p.expect(token.Comma, "','")
		in.Index = p.parseTypedValue()
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpInsertElement:
		in := &ir.InsertElement{Vec: p.parseTypedValue()}
		p.expect(token.Comma, "','")
		in.Elem = p.parseTypedValue()
		p.expect(token.Comma, "','")
		in.Index = p.parseTypedValue()
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpShuffleVector:
		in := &ir.ShuffleVector{X: p.parseTypedValue()}
		p.expect(token.Comma, "','")
		in.Y = p.parseTypedValue()
		p.expect(token.Comma, "','")
		in.Mask = p.parseTypedValue()
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpExtractValue:
		in := &ir.ExtractValue{Agg: p.parseTypedValue()}
		p.trailing(&in.InstBase, p.indexClause(&in.Indices))
		p.needIndices(tok, in.Indices)
		return in
	case ir.OpInsertValue:
		in := &ir.InsertValue{Agg: p.parseTypedValue()}
		p.expect(token.Comma, "','")
		in.Elem = p.parseTypedValue()
		p.trailing(&in.InstBase, p.indexClause(&in.Indices))
		p.needIndices(tok, in.Indices)
		return in
	case ir.OpAlloca:
		return p.parseAlloca()
	case ir.OpLoad:
		return p.parseLoad()
	case ir.OpStore:
		return p.parseStore()
	case ir.OpFence:
		in := &ir.Fence{SyncScope: p.parseSyncScope()}
		in.Ordering = p.parseOrdering()
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpCmpXchg:
		return p.parseCmpXchg()
	case ir.OpAtomicRMW:
		return p.parseAtomicRMW()
	case ir.OpGetElementPtr:
		return p.parseGEP()
	case ir.OpICmp, ir.OpFCmp:
		return p.parseCmp(op)
	case ir.OpPhi:
		return p.parsePhi()
	case ir.OpSelect:
		in := &ir.Select{FastMath: p.parseFastMath()}
		in.Cond = p.parseTypedValue()
		p.expect(token.Comma, "','")
		in.X = p.parseTypedValue()
		p.expect(token.Comma, "','")
		in.Y = p.parseTypedValue()
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpFreeze:
		in := &ir.Freeze{X: p.parseTypedValue()}
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpCall:
		return p.parseCall(ir.TailNone)
	case ir.OpVAArg:
		in := &ir.VAArg{List: p.parseTypedValue()}
		p.expect(token.Comma, "','")
		in.To = p.parseType()
		p.trailing(&in.InstBase, nil)
		return in
	case ir.OpLandingPad:
		return p.parseLandingPad()
	case ir.OpCatchPad, ir.OpCleanupPad:
		return p.parseFuncletPad(op)
	}
	p.fail(diag.SynUnknownOpcode, tok.Span, "instruction opcode", tok.Describe())
	return nil
}

// trailing разбирает хвост ", X" после обязательных операндов: вложения
// метаданных всегда, прочее через clause. clause возвращает false, если
// не узнал элемент.
func (p *Parser) trailing(base *ir.InstBase, clause func() bool) {
	for p.eat(token.Comma) {
		if p.at(token.MetadataVar) {
			base.Attachments = append(base.Attachments, p.parseAttachment())
			clause = nil
			continue
		}
		if clause == nil || !clause() {
			p.failExpected("instruction operand or metadata attachment")
		}
	}
}

func (p *Parser) indexClause(dst *[]uint64) func() bool {
	return func() bool {
		if !p.at(token.IntLit) {
			return false
		}
		*dst = append(*dst, p.parseUint64())
		return true
	}
}

func (p *Parser) needIndices(tok token.Token, idx []uint64) {
	if len(idx) == 0 {
		p.failAt(tok.Span, diag.SynExpectValue, tok.Text+" needs at least one index")
	}
}

// alignClause принимает ", align N".
func (p *Parser) alignClause(dst *uint64) func() bool {
	return func() bool {
		if !p.eatKw("align") {
			return false
		}
		*dst = p.parseAlignValue()
		return true
	}
}

func (p *Parser) labelRef() *ir.Block {
	p.expectKw("label")
	return p.blockRef()
}

func (p *Parser) blockRef() *ir.Block {
	tok := p.peek()
	if tok.Kind != token.LocalVar && tok.Kind != token.LocalID {
		p.failExpected("basic block name")
	}
	p.next()
	return p.locals.Block(p.nameOf(tok), tok.Span)
}

// ===== terminators =====

func (p *Parser) parseRet() ir.Instruction {
	in := &ir.Ret{}
	t := p.parseType()
	if t != p.b.Void {
		in.Val = p.parseValue(t)
	}
	p.trailing(&in.InstBase, nil)
	return in
}

func (p *Parser) parseBr() ir.Instruction {
	in := &ir.Br{}
	if p.atKw("label") {
		in.True = p.labelRef()
		p.trailing(&in.InstBase, nil)
		return in
	}
	in.Cond = p.parseTypedValue()
	p.expect(token.Comma, "','")
	in.True = p.labelRef()
	p.expect(token.Comma, "','")
	in.False = p.labelRef()
	p.trailing(&in.InstBase, nil)
	return in
}

// switch T v, label %d [ T c, label %b ... ]
func (p *Parser) parseSwitch() ir.Instruction {
	in := &ir.Switch{Cond: p.parseTypedValue()}
	p.expect(token.Comma, "','")
	in.Default = p.labelRef()
	p.expect(token.LBracket, "'['")
	for !p.at(token.RBracket) {
		val := p.parseTypedValue()
		p.expect(token.Comma, "','")
		in.Cases = append(in.Cases, ir.Case{Val: val, Dest: p.labelRef()})
	}
	p.expect(token.RBracket, "']'")
	p.trailing(&in.InstBase, nil)
	return in
}

func (p *Parser) parseIndirectBr() ir.Instruction {
	in := &ir.IndirectBr{Addr: p.parseTypedValue()}
	p.expect(token.Comma, "','")
	p.expect(token.LBracket, "'['")
	for !p.at(token.RBracket) {
		in.Dests = append(in.Dests, p.labelRef())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "']'")
	p.trailing(&in.InstBase, nil)
	return in
}

func (p *Parser) parseInvoke() ir.Instruction {
	in := &ir.Invoke{}
	p.parseCallSite(&in.CallSite)
	p.expectKw("to")
	in.Normal = p.labelRef()
	p.expectKw("unwind")
	in.Unwind = p.labelRef()
	p.trailing(&in.InstBase, nil)
	return in
}

// unwind to caller | unwind label %bb
func (p *Parser) parseUnwindDest() *ir.Block {
	p.expectKw("unwind")
	if p.eatKw("to") {
		p.expectKw("caller")
		return nil
	}
	return p.labelRef()
}

func (p *Parser) parseCleanupRet() ir.Instruction {
	in := &ir.CleanupRet{}
	p.expectKw("from")
	in.Pad = p.parseValue(p.b.Token)
	in.Unwind = p.parseUnwindDest()
	p.trailing(&in.InstBase, nil)
	return in
}

func (p *Parser) parseCatchRet() ir.Instruction {
	in := &ir.CatchRet{}
	p.expectKw("from")
	in.Pad = p.parseValue(p.b.Token)
	p.expectKw("to")
	in.Dest = p.labelRef()
	p.trailing(&in.InstBase, nil)
	return in
}

// catchswitch within P [label %h, ...] unwind ...
func (p *Parser) parseCatchSwitch() ir.Instruction {
	in := &ir.CatchSwitch{}
	p.expectKw("within")
	in.Within = p.parseValue(p.b.Token)
	p.expect(token.LBracket, "'['")
	for !p.at(token.RBracket) {
		in.Handlers = append(in.Handlers, p.labelRef())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "']'")
	in.Unwind = p.parseUnwindDest()
	p.trailing(&in.InstBase, nil)
	return in
}

// ===== arithmetic, casts, comparisons =====

func (p *Parser) parseBinary(op ir.Opcode) ir.Instruction {
	in := &ir.BinaryOp{Op: op}
	if op.IsFPBinary() {
		in.FastMath = p.parseFastMath()
	} else {
		in.Flags = p.parseArithFlags(op)
	}
	in.X = p.parseTypedValue()
	p.expect(token.Comma, "','")
	in.Y = p.parseValue(in.X.Type())
	p.trailing(&in.InstBase, nil)
	return in
}

func (p *Parser) parseCast(op ir.Opcode) ir.Instruction {
	in := &ir.Cast{Op: op, Flags: p.parseArithFlags(op)}
	in.X = p.parseTypedValue()
	p.expectKw("to")
	in.To = p.parseType()
	p.trailing(&in.InstBase, nil)
	return in
}

func (p *Parser) parseCmp(op ir.Opcode) ir.Instruction {
	in := &ir.Cmp{Op: op}
	if op == ir.OpFCmp {
		in.FastMath = p.parseFastMath()
	} else if p.eatKw("samesign") {
		in.SameSign = true
	}
	in.Pred = p.parsePredicate(op)
	in.X = p.parseTypedValue()
	p.expect(token.Comma, "','")
	in.Y = p.parseValue(in.X.Type())
	p.trailing(&in.InstBase, nil)
	return in
}

// ===== memory =====

// alloca [inalloca] T [, T n] [, align N] [, addrspace(N)]
func (p *Parser) parseAlloca() ir.Instruction {
	in := &ir.Alloca{InAlloca: p.eatKw("inalloca")}
	in.ElemType = p.parseType()
	align := p.alignClause(&in.Align)
	p.trailing(&in.InstBase, func() bool {
		switch {
		case align():
		case p.eatKw("addrspace"):
			in.AddrSpace = p.parseAddrSpaceValue()
		case in.Count == nil && in.Align == 0:
			in.Count = p.parseTypedValue()
		default:
			return false
		}
		return true
	})
	return in
}

// load [atomic] [volatile] T, ptr %p [syncscope("s")] [ordering] [, align N]
func (p *Parser) parseLoad() ir.Instruction {
	in := &ir.Load{Atomic: p.eatKw("atomic")}
	in.Volatile = p.eatKw("volatile")
	in.ElemType = p.parseType()
	p.expect(token.Comma, "','")
	in.Ptr = p.parseTypedValue()
	if in.Atomic {
		in.SyncScope = p.parseSyncScope()
		in.Ordering = p.parseOrdering()
	}
	p.trailing(&in.InstBase, p.alignClause(&in.Align))
	return in
}

func (p *Parser) parseStore() ir.Instruction {
	in := &ir.Store{Atomic: p.eatKw("atomic")}
	in.Volatile = p.eatKw("volatile")
	in.Val = p.parseTypedValue()
	p.expect(token.Comma, "','")
	in.Ptr = p.parseTypedValue()
	if in.Atomic {
		in.SyncScope = p.parseSyncScope()
		in.Ordering = p.parseOrdering()
	}
	p.trailing(&in.InstBase, p.alignClause(&in.Align))
	return in
}

// cmpxchg [weak] [volatile] ptr %p, T %cmp, T %new [syncscope] succ fail [, align N]
func (p *Parser) parseCmpXchg() ir.Instruction {
	in := &ir.CmpXchg{Weak: p.eatKw("weak")}
	in.Volatile = p.eatKw("volatile")
	in.Ptr = p.parseTypedValue()
	p.expect(token.Comma, "','")
	in.Cmp = p.parseTypedValue()
	p.expect(token.Comma, "','")
	in.New = p.parseTypedValue()
	in.SyncScope = p.parseSyncScope()
	in.Success = p.parseOrdering()
	in.Failure = p.parseOrdering()
	p.trailing(&in.InstBase, p.alignClause(&in.Align))
	return in
}

func (p *Parser) parseAtomicRMW() ir.Instruction {
	in := &ir.AtomicRMW{Volatile: p.eatKw("volatile")}
	tok := p.peek()
	if _, ok := ir.AtomicRMWOps[tok.Text]; tok.Kind != token.Keyword || !ok {
		p.failExpected("atomicrmw operation")
	}
	p.next()
	in.RMWOp = tok.Text
	in.Ptr = p.parseTypedValue()
	p.expect(token.Comma, "','")
	in.Val = p.parseTypedValue()
	in.SyncScope = p.parseSyncScope()
	in.Ordering = p.parseOrdering()
	p.trailing(&in.InstBase, p.alignClause(&in.Align))
	return in
}

func (p *Parser) parseGEP() ir.Instruction {
	in := &ir.GetElementPtr{}
	for {
		switch {
		case p.eatKw("inbounds"):
			in.InBounds = true
			continue
		case p.eatKw("nuw"), p.eatKw("nusw"):
			continue
		}
		break
	}
	in.SrcType = p.parseType()
	p.expect(token.Comma, "','")
	in.Ptr = p.parseTypedValue()
	p.trailing(&in.InstBase, func() bool {
		in.Indices = append(in.Indices, p.parseTypedValue())
		return true
	})
	return in
}

// ===== other =====

// phi [fmf] T [v, %bb], ... Значения могут ссылаться вперёд.
func (p *Parser) parsePhi() ir.Instruction {
	in := &ir.Phi{FastMath: p.parseFastMath()}
	in.Typ = p.parseType()
	incoming := func() bool {
		if !p.at(token.LBracket) {
			return false
		}
		p.next()
		p.inPhi = true
		val := p.parseValue(in.Typ)
		p.inPhi = false
		p.expect(token.Comma, "','")
		blk := p.blockRef()
		p.expect(token.RBracket, "']'")
		in.Incoming = append(in.Incoming, ir.Incoming{Val: val, Block: blk})
		return true
	}
	if !incoming() {
		p.failExpected("'['")
	}
	p.trailing(&in.InstBase, incoming)
	return in
}

// landingpad T [cleanup] (catch T v | filter T v)*
func (p *Parser) parseLandingPad() ir.Instruction {
	in := &ir.LandingPad{}
	in.Typ = p.parseType()
	in.Cleanup = p.eatKw("cleanup")
	for {
		switch {
		case p.eatKw("catch"):
			in.Clauses = append(in.Clauses, ir.Clause{Val: p.parseTypedValue()})
			continue
		case p.eatKw("filter"):
			in.Clauses = append(in.Clauses, ir.Clause{Filter: true, Val: p.parseTypedValue()})
			continue
		}
		break
	}
	p.trailing(&in.InstBase, nil)
	return in
}

// catchpad within %cs [args] | cleanuppad within none [args]
func (p *Parser) parseFuncletPad(op ir.Opcode) ir.Instruction {
	in := &ir.FuncletPad{Op: op}
	p.expectKw("within")
	in.Within = p.parseValue(p.b.Token)
	p.expect(token.LBracket, "'['")
	for !p.at(token.RBracket) {
		in.Args = append(in.Args, p.parseTypedValue())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "']'")
	p.trailing(&in.InstBase, nil)
	return in
}

func (p *Parser) parseCall(tail ir.TailKind) ir.Instruction {
	in := &ir.Call{Tail: tail}
	p.parseCallSite(&in.CallSite)
	p.trailing(&in.InstBase, nil)
	return in
}

// parseCallSite: [fmf] [cc] [retattrs] [addrspace(N)] T callee(args) [fnattrs] [bundles].
// T: либо полный тип функции, либо только тип результата.
func (p *Parser) parseCallSite(cs *ir.CallSite) {
	cs.FastMath = p.parseFastMath()
	cs.CallConv = p.parseCallConv()
	cs.RetAttrs = p.parseAttrs(attrParam, nil)
	calleeType := p.b.Ptr
	if p.eatKw("addrspace") {
		calleeType = p.ctx.Pointer(p.parseAddrSpaceValue())
	}
	tyTok := p.peek()
	t := p.parseType()
	cs.Callee = p.parseValue(calleeType)
	cs.Args = p.parseCallArgs()

	if p.ctx.IsFunc(t) {
		cs.FnType = t
	} else {
		params := make([]types.TypeID, len(cs.Args))
		for i, a := range cs.Args {
			params[i] = a.Val.Type()
		}
		fnty, err := p.ctx.Func(t, params, false)
		cs.FnType = p.mustType(tyTok, fnty, err)
	}

	cs.FnAttrs = p.parseAttrs(attrFunc, &cs.FnAttrGroups)
	if p.at(token.LBracket) {
		cs.Bundles = p.parseBundles()
	}
}

func (p *Parser) parseCallArgs() []ir.Arg {
	p.expect(token.LParen, "'('")
	var args []ir.Arg
	for !p.at(token.RParen) {
		if p.eat(token.DotDotDot) {
			break
		}
		t := p.parseType()
		attrs := p.parseAttrs(attrParam, nil)
		args = append(args, ir.Arg{Val: p.parseValue(t), Attrs: attrs})
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')'")
	return args
}

// [ "tag"(T v, ...), ... ]
func (p *Parser) parseBundles() []ir.Bundle {
	p.expect(token.LBracket, "'['")
	var out []ir.Bundle
	for !p.at(token.RBracket) {
		b := ir.Bundle{Tag: p.parseString()}
		p.expect(token.LParen, "'('")
		for !p.at(token.RParen) {
			b.Inputs = append(b.Inputs, p.parseTypedValue())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, "')'")
		out = append(out, b)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBracket, "']'")
	return out
}
