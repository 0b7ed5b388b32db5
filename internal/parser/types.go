package parser

import (
	"errors"

	"llvet/internal/diag"
	"llvet/internal/token"
	"llvet/internal/types"
)

// parseType разбирает тип вместе с суффиксами: T*, T addrspace(N)*, R (P...).
func (p *Parser) parseType() types.TypeID {
	start := p.peek().Span
	p.enter(start)
	defer p.leave()

	t := p.parseBaseType()
	for {
		switch {
		case p.at(token.Star):
			p.next()
			t = p.b.Ptr
		case p.atKw("addrspace"):
			p.next()
			as := p.parseAddrSpaceValue()
			p.expect(token.Star, "'*'")
			t = p.ctx.Pointer(as)
		case p.at(token.LParen):
			t = p.parseFuncTypeParams(t)
		default:
			return t
		}
	}
}

func (p *Parser) parseBaseType() types.TypeID {
	tok := p.peek()
	switch tok.Kind {
	case token.IntType:
		p.next()
		return p.intType(tok)
	case token.LocalVar, token.LocalID:
		p.next()
		return p.namedTypeRef(tok)
	case token.LBracket:
		return p.parseArrayType()
	case token.Less:
		return p.parseVectorOrPacked()
	case token.LBrace:
		fields := p.parseStructBody(token.LBrace, token.RBrace)
		id, err := p.ctx.Struct(fields, false)
		return p.mustType(tok, id, err)
	case token.Keyword:
		if t, ok := p.primitive(tok.Text); ok {
			p.next()
			return t
		}
		switch tok.Text {
		case "ptr":
			p.next()
			if p.eatKw("addrspace") {
				return p.ctx.Pointer(p.parseAddrSpaceValue())
			}
			return p.b.Ptr
		case "target":
			return p.parseTargetExtType()
		}
	}
	p.failExpected("type")
	return types.NoTypeID
}

func (p *Parser) primitive(word string) (types.TypeID, bool) {
	switch word {
	case "void":
		return p.b.Void, true
	case "half":
		return p.b.Half, true
	case "bfloat":
		return p.b.BFloat, true
	case "float":
		return p.b.Float, true
	case "double":
		return p.b.Double, true
	case "x86_fp80":
		return p.b.X86FP80, true
	case "fp128":
		return p.b.FP128, true
	case "ppc_fp128":
		return p.b.PPCFP128, true
	case "x86_amx":
		return p.b.X86AMX, true
	case "x86_mmx":
		return p.b.X86MMX, true
	case "label":
		return p.b.Label, true
	case "token":
		return p.b.Token, true
	case "metadata":
		return p.b.Metadata, true
	}
	return types.NoTypeID, false
}

func (p *Parser) intType(tok token.Token) types.TypeID {
	bits := p.parseWidth(tok)
	id, err := p.ctx.Int(bits)
	return p.mustType(tok, id, err)
}

func (p *Parser) parseWidth(tok token.Token) uint32 {
	bits, err := parseU32(tok.Text[1:])
	if err != nil || bits > types.MaxIntWidth {
		p.failAt(tok.Span, diag.SynInvalidType, "bitwidth for integer type out of range")
	}
	return bits
}

func (p *Parser) mustType(tok token.Token, id types.TypeID, err error) types.TypeID {
	if err != nil {
		p.failAt(tok.Span, diag.SynInvalidType, err.Error())
	}
	return id
}

// namedTypeRef: %T до или после определения. Неопределённые проверяются в
// конце модуля.
func (p *Parser) namedTypeRef(tok token.Token) types.TypeID {
	name := p.nameOf(tok)
	key := name.Text
	if name.IsNumbered() {
		key = name.String()[1:]
	}
	if t, ok := p.typeAlias[key]; ok {
		return t
	}
	id := p.ctx.DeclareNamed(key)
	if _, seen := p.typeRefs[id]; !seen {
		p.typeRefs[id] = tok.Span
	}
	return id
}

func (p *Parser) parseArrayType() types.TypeID {
	open := p.expect(token.LBracket, "'['")
	n := p.parseUint64()
	p.expectKw("x")
	elem := p.parseType()
	p.expect(token.RBracket, "']'")
	id, err := p.ctx.Array(n, elem)
	return p.mustType(open, id, err)
}

// parseVectorOrPacked: <N x T>, <vscale x N x T> или <{ ... }>.
func (p *Parser) parseVectorOrPacked() types.TypeID {
	open := p.expect(token.Less, "'<'")
	if p.at(token.LBrace) {
		fields := p.parseStructBody(token.LBrace, token.RBrace)
		p.expect(token.Greater, "'>'")
		id, err := p.ctx.Struct(fields, true)
		return p.mustType(open, id, err)
	}
	scalable := false
	if p.eatKw("vscale") {
		p.expectKw("x")
		scalable = true
	}
	n := p.parseUint64()
	p.expectKw("x")
	elem := p.parseType()
	p.expect(token.Greater, "'>'")
	id, err := p.ctx.Vector(n, elem, scalable)
	return p.mustType(open, id, err)
}

func (p *Parser) parseStructBody(open, closing token.Kind) []types.TypeID {
	p.expect(open, open.String())
	var fields []types.TypeID
	if p.eat(closing) {
		return fields
	}
	for {
		fields = append(fields, p.parseType())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(closing, closing.String())
	return fields
}

// parseFuncTypeParams: R (P, P, ...): параметры после уже разобранного R.
func (p *Parser) parseFuncTypeParams(ret types.TypeID) types.TypeID {
	open := p.expect(token.LParen, "'('")
	var params []types.TypeID
	variadic := false
	for !p.at(token.RParen) {
		if p.eat(token.DotDotDot) {
			variadic = true
			break
		}
		params = append(params, p.parseType())
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')'")
	id, err := p.ctx.Func(ret, params, variadic)
	return p.mustType(open, id, err)
}

// target("name", T..., N...)
func (p *Parser) parseTargetExtType() types.TypeID {
	p.expectKw("target")
	p.expect(token.LParen, "'('")
	name := p.parseString()
	var params []types.TypeID
	var ints []uint32
	for p.eat(token.Comma) {
		if p.at(token.IntLit) {
			ints = append(ints, p.parseUint32())
			continue
		}
		if len(ints) > 0 {
			p.failExpected("integer parameter")
		}
		params = append(params, p.parseType())
	}
	p.expect(token.RParen, "')'")
	return p.ctx.TargetExt(name, params, ints)
}

// parseNamedType: %T = type { ... } | type opaque | type <other type>.
func (p *Parser) parseNamedType() {
	tok := p.next()
	p.expect(token.Equal, "'='")
	p.expectKw("type")
	name := p.nameOf(tok)
	key := name.Text
	if name.IsNumbered() {
		key = name.String()[1:]
	}

	if p.eatKw("opaque") {
		id := p.declareForDefinition(tok, key)
		if err := p.ctx.DefineOpaque(id); err != nil {
			p.failNamedDef(tok, key, err)
		}
		p.m.NamedTypes = append(p.m.NamedTypes, id)
		return
	}

	packed := false
	switch {
	case p.at(token.LBrace):
	case p.at(token.Less):
		p.next()
		if !p.at(token.LBrace) {
			p.failExpected("'{'")
		}
		packed = true
	default:
		// %T = type i32: имя становится синонимом
		if _, seen := p.ctx.NamedByName(key); seen {
			p.failAt(tok.Span, diag.ResTypeRedefinition, "redefinition of type "+tok.Text)
		}
		if _, dup := p.typeAlias[key]; dup {
			p.failAt(tok.Span, diag.ResTypeRedefinition, "redefinition of type "+tok.Text)
		}
		p.typeAlias[key] = p.parseType()
		return
	}

	id := p.declareForDefinition(tok, key)
	p.enter(tok.Span)
	fields := p.parseStructBody(token.LBrace, token.RBrace)
	p.leave()
	if packed {
		p.expect(token.Greater, "'>'")
	}
	if err := p.ctx.DefineNamed(id, fields, packed); err != nil {
		p.failNamedDef(tok, key, err)
	}
	p.m.NamedTypes = append(p.m.NamedTypes, id)
}

func (p *Parser) declareForDefinition(tok token.Token, key string) types.TypeID {
	if _, dup := p.typeAlias[key]; dup {
		p.failAt(tok.Span, diag.ResTypeRedefinition, "redefinition of type "+tok.Text)
	}
	id := p.ctx.DeclareNamed(key)
	if _, seen := p.typeRefs[id]; !seen {
		p.typeRefs[id] = tok.Span
	}
	return id
}

func (p *Parser) failNamedDef(tok token.Token, key string, err error) {
	switch {
	case errors.Is(err, types.ErrRedefinition):
		p.failAt(tok.Span, diag.ResTypeRedefinition, "redefinition of type "+tok.Text)
	case errors.Is(err, types.ErrSelfContaining):
		p.failAt(tok.Span, diag.ResRecursiveType, "type "+tok.Text+" contains itself by value")
	default:
		p.failAt(tok.Span, diag.SynInvalidType, "invalid body for type "+tok.Text+": "+err.Error())
	}
}
