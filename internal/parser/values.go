package parser

import (
	"fmt"
	"math/big"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/token"
	"llvet/internal/types"
)

// parseTypedValue: T v.
func (p *Parser) parseTypedValue() ir.Value {
	t := p.parseType()
	return p.parseValue(t)
}

// parseValue строит значение, тип которого задан контекстом. Голые литералы
// получают expected; если его нет (NoTypeID), значение остаётся без типа и
// выдаётся предупреждение SynMissingExpectedType.
func (p *Parser) parseValue(expected types.TypeID) ir.Value {
	tok := p.peek()
	if expected == types.NoTypeID {
		p.warn(diag.SynMissingExpectedType, tok.Span,
			"value "+tok.Describe()+" has no expected type")
	}
	switch tok.Kind {
	case token.LocalVar, token.LocalID:
		p.next()
		return p.localRef(tok, expected)
	case token.GlobalVar, token.GlobalID:
		p.next()
		return p.globalRef(tok, expected)
	case token.MetadataID, token.MetadataVar, token.Exclaim:
		if expected != p.b.Metadata {
			p.failAt(tok.Span, diag.SynOperandTypeMismatch, "metadata used where a value of type "+p.ctx.String(expected)+" is expected")
		}
		return &ir.MetadataValue{Typ: expected, Op: p.parseMDOperand()}
	}
	if expected == p.b.Metadata {
		// metadata i32 7 / metadata ptr %x
		return &ir.MetadataValue{Typ: expected, Op: p.parseMDOperand()}
	}
	return p.parseConstant(expected)
}

func (p *Parser) localRef(tok token.Token, expected types.TypeID) ir.Value {
	name := p.nameOf(tok)
	if p.locals == nil {
		p.failAt(tok.Span, diag.ResUndefinedValue, "local value "+tok.Text+" used outside a function body")
	}
	v, ok := p.locals.Lookup(name)
	if !ok {
		if p.inPhi {
			return p.locals.DeferPhi(name, expected, tok.Span)
		}
		p.failAt(tok.Span, diag.ResUseBeforeDef, "use of value "+tok.Text+" before its definition")
	}
	p.checkRefType(tok, v.Type(), expected)
	return v
}

func (p *Parser) globalRef(tok token.Token, expected types.TypeID) ir.Value {
	name := p.nameOf(tok)
	if expected == types.NoTypeID {
		expected = p.b.Ptr
	}
	v := p.globals.Ref(name, expected, tok.Span)
	p.checkRefType(tok, v.Type(), expected)
	return v
}

func (p *Parser) checkRefType(tok token.Token, got, want types.TypeID) {
	if want == types.NoTypeID || p.ctx.Equal(got, want) {
		return
	}
	p.failAt(tok.Span, diag.SynOperandTypeMismatch,
		fmt.Sprintf("%s defined with type '%s' but expected '%s'", tok.Text, p.ctx.String(got), p.ctx.String(want)))
}

// parseConstant разбирает литералы, агрегаты и константные выражения.
func (p *Parser) parseConstant(typ types.TypeID) ir.Value {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.next()
		return p.intConst(tok, typ)
	case token.FloatLit:
		p.next()
		if typ != types.NoTypeID && !p.ctx.IsFloat(typ) {
			p.failAt(tok.Span, diag.SynBadLiteral, "floating point constant invalid for type "+p.ctx.String(typ))
		}
		return &ir.ConstFloat{Typ: typ, Text: tok.Text}
	case token.CStringLit:
		p.next()
		return p.cstring(tok, typ)
	case token.LBracket:
		return p.parseAggregate(typ, ir.AggArray, token.LBracket, token.RBracket)
	case token.LBrace:
		return p.parseAggregate(typ, ir.AggStruct, token.LBrace, token.RBrace)
	case token.Less:
		return p.parseVectorOrPackedConst(typ)
	case token.Keyword:
		return p.parseKeywordConstant(tok, typ)
	}
	p.failExpected("value")
	return nil
}

func (p *Parser) intConst(tok token.Token, typ types.TypeID) ir.Value {
	v := p.parseBigInt(tok)
	if typ == types.NoTypeID {
		return &ir.ConstInt{Typ: typ, V: v}
	}
	if !p.ctx.IsInteger(typ) {
		p.failAt(tok.Span, diag.SynBadLiteral, "integer constant must have integer type, not "+p.ctx.String(typ))
	}
	bits := p.ctx.ScalarBits(typ)
	hi := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	lo := new(big.Int).Neg(new(big.Int).Rsh(hi, 1))
	if v.Cmp(hi) >= 0 || v.Cmp(lo) < 0 {
		p.failAt(tok.Span, diag.SynBadLiteral, fmt.Sprintf("integer constant %s does not fit in %s", tok.Text, p.ctx.String(typ)))
	}
	return &ir.ConstInt{Typ: typ, V: v}
}

func (p *Parser) cstring(tok token.Token, typ types.TypeID) ir.Value {
	data := p.unquote(tok.Text[1:], tok.Span)
	if typ == types.NoTypeID {
		return &ir.ConstString{Typ: typ, Data: data}
	}
	n, ok := p.ctx.ArrayLen(typ)
	if !ok || p.ctx.ElementType(typ) != p.b.I8 || n != uint64(len(data)) {
		p.failAt(tok.Span, diag.SynBadLiteral,
			fmt.Sprintf("constant string of %d bytes does not match type %s", len(data), p.ctx.String(typ)))
	}
	return &ir.ConstString{Typ: typ, Data: data}
}

// parseAggregate: [T v, ...] или { T v, ... }; элементы всегда с типом.
func (p *Parser) parseAggregate(typ types.TypeID, kind ir.AggregateKind, open, closing token.Kind) ir.Value {
	start := p.expect(open, open.String())
	p.enter(start.Span)
	defer p.leave()
	var elems []ir.Value
	if !p.at(closing) {
		for {
			elems = append(elems, p.parseTypedValue())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.expect(closing, closing.String())
	p.checkAggregate(start, typ, kind, elems)
	return &ir.ConstAggregate{Typ: typ, Kind: kind, Elems: elems}
}

func (p *Parser) parseVectorOrPackedConst(typ types.TypeID) ir.Value {
	start := p.expect(token.Less, "'<'")
	p.enter(start.Span)
	defer p.leave()
	kind := ir.AggVector
	packed := p.eat(token.LBrace)
	if packed {
		kind = ir.AggStruct
	}
	var elems []ir.Value
	closing := token.Greater
	if packed {
		closing = token.RBrace
	}
	if !p.at(closing) {
		for {
			elems = append(elems, p.parseTypedValue())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.expect(closing, closing.String())
	if packed {
		p.expect(token.Greater, "'>'")
	}
	p.checkAggregate(start, typ, kind, elems)
	return &ir.ConstAggregate{Typ: typ, Kind: kind, Elems: elems}
}

// checkAggregate сверяет форму литерала с ожидаемым типом.
func (p *Parser) checkAggregate(tok token.Token, typ types.TypeID, kind ir.AggregateKind, elems []ir.Value) {
	if typ == types.NoTypeID {
		return
	}
	bad := func(what string) {
		p.failAt(tok.Span, diag.SynBadLiteral, what+" constant does not match type "+p.ctx.String(typ))
	}
	switch kind {
	case ir.AggArray:
		n, ok := p.ctx.ArrayLen(typ)
		if !ok || n != uint64(len(elems)) {
			bad("array")
		}
		for _, e := range elems {
			if !p.ctx.Equal(e.Type(), p.ctx.ElementType(typ)) {
				bad("array element")
			}
		}
	case ir.AggVector:
		n, scalable, ok := p.ctx.VectorLen(typ)
		if !ok || scalable || n != uint64(len(elems)) {
			bad("vector")
		}
		for _, e := range elems {
			if !p.ctx.Equal(e.Type(), p.ctx.ElementType(typ)) {
				bad("vector element")
			}
		}
	case ir.AggStruct:
		if !p.ctx.IsStruct(typ) {
			bad("struct")
		}
		fields := p.ctx.StructFields(typ)
		if len(fields) != len(elems) {
			bad("struct")
		}
		for i, e := range elems {
			if !p.ctx.Equal(e.Type(), fields[i]) {
				bad("struct element")
			}
		}
	}
}

func (p *Parser) parseKeywordConstant(tok token.Token, typ types.TypeID) ir.Value {
	switch tok.Text {
	case "true", "false":
		p.next()
		if typ != types.NoTypeID && (!p.ctx.IsInteger(typ) || p.ctx.ScalarBits(typ) != 1) {
			p.failAt(tok.Span, diag.SynBadLiteral, tok.Text+" must have type i1, not "+p.ctx.String(typ))
		}
		v := big.NewInt(0)
		if tok.Text == "true" {
			v.SetInt64(1)
		}
		return &ir.ConstInt{Typ: typ, V: v}
	case "null":
		p.next()
		if typ != types.NoTypeID && !p.ctx.IsPointer(typ) {
			p.failAt(tok.Span, diag.SynBadLiteral, "null must be a pointer type, not "+p.ctx.String(typ))
		}
		return &ir.ConstNull{Typ: typ}
	case "none":
		p.next()
		if typ != types.NoTypeID && !p.ctx.IsToken(typ) {
			p.failAt(tok.Span, diag.SynBadLiteral, "none must have token type")
		}
		return &ir.ConstNone{Typ: typ}
	case "undef":
		p.next()
		return &ir.ConstUndef{Typ: typ}
	case "poison":
		p.next()
		return &ir.ConstPoison{Typ: typ}
	case "zeroinitializer":
		p.next()
		return &ir.ConstZero{Typ: typ}
	case "blockaddress":
		return p.parseBlockAddress(typ)
	case "dso_local_equivalent":
		p.next()
		return &ir.DSOLocalEquivalent{Typ: typ, Func: p.parseValue(p.b.Ptr)}
	case "no_cfi":
		p.next()
		return &ir.NoCFI{Typ: typ, Func: p.parseValue(p.b.Ptr)}
	case "asm":
		return p.parseInlineAsm(typ)
	}
	if op, ok := ir.OpcodeByName(tok.Text); ok {
		return p.parseConstExpr(op, typ)
	}
	p.failExpected("value")
	return nil
}

func (p *Parser) parseBlockAddress(typ types.TypeID) ir.Value {
	tok := p.next()
	p.expect(token.LParen, "'('")
	fn := p.parseValue(p.b.Ptr)
	p.expect(token.Comma, "','")
	bt := p.peek()
	if bt.Kind != token.LocalVar && bt.Kind != token.LocalID {
		p.failExpected("block name")
	}
	p.next()
	p.expect(token.RParen, "')'")
	ba := &ir.BlockAddress{Typ: typ, Func: fn, Block: p.nameOf(bt)}
	p.blockAddrs = append(p.blockAddrs, ba)
	p.baSpans[ba] = tok.Span.Cover(p.lastSpan)
	return ba
}

// asm [sideeffect] [alignstack] [inteldialect] [unwind] "asm", "constraints"
func (p *Parser) parseInlineAsm(typ types.TypeID) ir.Value {
	p.expectKw("asm")
	a := &ir.InlineAsm{Typ: typ}
	for {
		switch {
		case p.eatKw("sideeffect"):
			a.SideEffect = true
		case p.eatKw("alignstack"):
			a.AlignStack = true
		case p.eatKw("inteldialect"):
			a.IntelDialect = true
		case p.eatKw("unwind"):
			a.Unwind = true
		default:
			a.Asm = p.parseString()
			p.expect(token.Comma, "','")
			a.Constraints = p.parseString()
			return a
		}
	}
}

// parseConstExpr: op (...) для приведений, gep, бинарных операций,
// сравнений и векторных операций над константами.
func (p *Parser) parseConstExpr(op ir.Opcode, typ types.TypeID) ir.Value {
	tok := p.next()
	p.enter(tok.Span)
	defer p.leave()
	ce := &ir.ConstExpr{Typ: typ, Op: op}
	switch {
	case op.IsCast():
		ce.Flags = p.parseArithFlags(op)
		p.expect(token.LParen, "'('")
		ce.Ops = []ir.Value{p.parseTypedValue()}
		p.expectKw("to")
		to := p.parseType()
		p.expect(token.RParen, "')'")
		p.checkConstResult(tok, typ, to)
		ce.Typ = to
	case op == ir.OpGetElementPtr:
		if p.eatKw("inbounds") {
			ce.InBounds = true
		}
		for p.eatKw("nuw") || p.eatKw("nusw") {
		}
		p.expect(token.LParen, "'('")
		ce.SrcType = p.parseType()
		for p.eat(token.Comma) {
			ce.Ops = append(ce.Ops, p.parseTypedValue())
		}
		p.expect(token.RParen, "')'")
		if len(ce.Ops) == 0 {
			p.failAt(tok.Span, diag.SynExpectValue, "getelementptr needs a base pointer")
		}
		p.checkConstResult(tok, typ, p.gepResult(ce.Ops[0], ce.Ops[1:]))
		ce.Typ = p.gepResult(ce.Ops[0], ce.Ops[1:])
	case op.IsBinary():
		ce.Flags = p.parseArithFlags(op)
		p.expect(token.LParen, "'('")
		x := p.parseTypedValue()
		p.expect(token.Comma, "','")
		y := p.parseTypedValue()
		p.expect(token.RParen, "')'")
		ce.Ops = []ir.Value{x, y}
		p.checkConstResult(tok, typ, x.Type())
		ce.Typ = x.Type()
	case op == ir.OpICmp || op == ir.OpFCmp:
		ce.Pred = p.parsePredicate(op)
		p.expect(token.LParen, "'('")
		x := p.parseTypedValue()
		p.expect(token.Comma, "','")
		y := p.parseTypedValue()
		p.expect(token.RParen, "')'")
		ce.Ops = []ir.Value{x, y}
		ce.Typ = p.cmpResult(x.Type())
	case op == ir.OpExtractElement || op == ir.OpInsertElement || op == ir.OpShuffleVector || op == ir.OpSelect:
		p.expect(token.LParen, "'('")
		for {
			ce.Ops = append(ce.Ops, p.parseTypedValue())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RParen, "')'")
		ce.Typ = p.constVectorResult(tok, op, ce.Ops)
	default:
		p.failAt(tok.Span, diag.SynBadLiteral, "'"+tok.Text+"' is not allowed in a constant expression")
	}
	return ce
}

func (p *Parser) checkConstResult(tok token.Token, want, got types.TypeID) {
	if want == types.NoTypeID || p.ctx.Equal(want, got) {
		return
	}
	p.failAt(tok.Span, diag.SynOperandTypeMismatch,
		fmt.Sprintf("constant expression has type '%s' but '%s' is expected", p.ctx.String(got), p.ctx.String(want)))
}

func (p *Parser) constVectorResult(tok token.Token, op ir.Opcode, ops []ir.Value) types.TypeID {
	want := map[ir.Opcode]int{ir.OpExtractElement: 2, ir.OpInsertElement: 3, ir.OpShuffleVector: 3, ir.OpSelect: 3}[op]
	if len(ops) != want {
		p.failAt(tok.Span, diag.SynExpectValue, fmt.Sprintf("%s expects %d operands", op, want))
	}
	switch op {
	case ir.OpExtractElement:
		return p.ctx.ElementType(ops[0].Type())
	case ir.OpShuffleVector:
		return p.shuffleResult(ops[0].Type(), ops[2].Type())
	case ir.OpSelect:
		return ops[1].Type()
	}
	return ops[0].Type()
}

// parseArithFlags: nuw/nsw/exact/disjoint/nneg, допустимые для op.
func (p *Parser) parseArithFlags(op ir.Opcode) ir.ArithFlags {
	var f ir.ArithFlags
	for {
		switch {
		case (op == ir.OpAdd || op == ir.OpSub || op == ir.OpMul || op == ir.OpShl || op == ir.OpTrunc) && p.atKw("nuw"):
			p.next()
			f |= ir.FlagNUW
		case (op == ir.OpAdd || op == ir.OpSub || op == ir.OpMul || op == ir.OpShl || op == ir.OpTrunc) && p.atKw("nsw"):
			p.next()
			f |= ir.FlagNSW
		case (op == ir.OpUDiv || op == ir.OpSDiv || op == ir.OpLShr || op == ir.OpAShr) && p.atKw("exact"):
			p.next()
			f |= ir.FlagExact
		case op == ir.OpOr && p.atKw("disjoint"):
			p.next()
			f |= ir.FlagDisjoint
		case (op == ir.OpZExt || op == ir.OpUIToFP) && p.atKw("nneg"):
			p.next()
			f |= ir.FlagNNeg
		default:
			return f
		}
	}
}

func (p *Parser) parsePredicate(op ir.Opcode) string {
	tok := p.peek()
	table := ir.ICmpPredicates
	if op == ir.OpFCmp {
		table = ir.FCmpPredicates
	}
	if tok.Kind == token.Keyword && table[tok.Text] {
		p.next()
		return tok.Text
	}
	p.failExpected(op.String() + " predicate")
	return ""
}
