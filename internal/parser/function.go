package parser

import (
	"errors"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/source"
	"llvet/internal/symbols"
	"llvet/internal/token"
	"llvet/internal/types"
)

// parseFunction: define/declare с полным заголовком; у define: тело.
func (p *Parser) parseFunction(define bool) {
	p.next()
	f := &ir.Function{Declaration: !define}
	p.parseHeaderPrefix(&f.GlobalHeader)
	f.CallConv = p.parseCallConv()
	f.RetAttrs = p.parseAttrs(attrParam, nil)
	ret := p.parseType()

	nameTok := p.peek()
	if nameTok.Kind != token.GlobalVar && nameTok.Kind != token.GlobalID {
		p.failExpected("function name")
	}
	p.next()
	f.Name = p.defineGlobalName(nameTok)
	f.Span = nameTok.Span

	locals := symbols.NewLocals(p.b.Label)
	params, variadic := p.parseParams(locals)
	f.Params = params
	ptypes := make([]types.TypeID, len(params))
	for i, prm := range params {
		ptypes[i] = prm.Typ
	}
	sig, err := p.ctx.Func(ret, ptypes, variadic)
	if err != nil {
		p.failAt(nameTok.Span, diag.SynInvalidType, "invalid function signature: "+err.Error())
	}
	f.Sig = sig

	p.parseFunctionSuffix(f)
	f.Typ = p.ctx.Pointer(f.AddrSpace)
	f.Attachments = p.parseAttachments()
	p.bindGlobal(nameTok, f)
	p.m.Funcs = append(p.m.Funcs, f)

	if define {
		p.parseBody(f, locals)
	}
}

func (p *Parser) parseCallConv() string {
	tok := p.peek()
	if tok.Kind != token.Keyword || !token.Is(tok.Text, token.ClassCallConv) {
		return ""
	}
	p.next()
	if tok.Text == "cc" {
		n := p.expect(token.IntLit, "calling convention number")
		return "cc " + n.Text
	}
	if tok.Text == "ccc" {
		return ""
	}
	return tok.Text
}

// parseParams: ( T attrs [%name], ..., [...] )
func (p *Parser) parseParams(locals *symbols.Locals) ([]*ir.Param, bool) {
	p.expect(token.LParen, "'('")
	var params []*ir.Param
	variadic := false
	for !p.at(token.RParen) {
		if p.eat(token.DotDotDot) {
			variadic = true
			break
		}
		start := p.peek().Span
		prm := &ir.Param{Typ: p.parseType()}
		prm.Attrs = p.parseAttrs(attrParam, nil)
		var nameTok token.Token
		name := ir.Name{}
		if p.at(token.LocalVar) || p.at(token.LocalID) {
			nameTok = p.next()
			name = p.nameOf(nameTok)
		}
		prm.Span = start.Cover(p.lastSpan)
		if prm.Typ == p.b.Void || p.ctx.IsLabel(prm.Typ) {
			p.failAt(prm.Span, diag.SynInvalidType, "invalid parameter type "+p.ctx.String(prm.Typ))
		}
		final, err := locals.Define(name, prm)
		if err != nil {
			if nameTok.Kind == token.Invalid {
				nameTok.Span = prm.Span
				nameTok.Text = "parameter"
			}
			p.checkDefine(nameTok, err)
		}
		prm.Name = final
		params = append(params, prm)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RParen, "')'")
	return params, variadic
}

// parseFunctionSuffix: всё между ')' и телом.
func (p *Parser) parseFunctionSuffix(f *ir.Function) {
	for {
		f.FnAttrs = append(f.FnAttrs, p.parseAttrs(attrFunc, &f.AttrGroups)...)
		switch {
		case p.eatKw("unnamed_addr"):
			f.UnnamedAddr = ir.UnnamedAddrGlobal
		case p.eatKw("local_unnamed_addr"):
			f.UnnamedAddr = ir.UnnamedAddrLocal
		case p.eatKw("addrspace"):
			f.AddrSpace = p.parseAddrSpaceValue()
		case p.eatKw("section"):
			f.Section = p.parseString()
		case p.eatKw("partition"):
			f.Partition = p.parseString()
		case p.atKw("comdat"):
			p.parseComdatRef(&f.GlobalHeader)
		case p.eatKw("align"):
			f.Align = p.parseAlignValue()
		case p.eatKw("gc"):
			f.GC = p.parseString()
		case p.eatKw("prefix"):
			f.Prefix = p.parseTypedValue()
		case p.eatKw("prologue"):
			f.Prologue = p.parseTypedValue()
		case p.eatKw("personality"):
			f.Personality = p.parseTypedValue()
		default:
			return
		}
	}
}

// parseBody: { block* }. Локальная область живёт до закрывающей скобки.
func (p *Parser) parseBody(f *ir.Function, locals *symbols.Locals) {
	open := p.expect(token.LBrace, "'{'")
	p.locals, p.fn = locals, f
	defer func() { p.locals, p.fn = nil, nil }()

	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			p.failExpected("'}'")
		}
		p.parseBlock(f)
	}
	p.expect(token.RBrace, "'}'")
	if len(f.Blocks) == 0 {
		p.failAt(open.Span, diag.SynUnexpectedToken, "function body requires at least one basic block")
	}

	if bad := locals.Finish(f); len(bad) > 0 {
		p.failUnresolved(bad[0])
	}
	byName := make(map[ir.Name]*ir.Block, len(f.Blocks))
	for _, b := range f.Blocks {
		byName[b.Name] = b
	}
	p.fnBlocks[f] = byName
}

// parseBlock: [label:] инструкции до терминатора. Блок без терминатора
// заканчивается на следующей метке или '}', его отвергнет верификатор.
func (p *Parser) parseBlock(f *ir.Function) {
	var name ir.Name
	var sp source.Span
	labelTok := p.peek()
	if labelTok.Kind == token.Label {
		p.next()
		name = p.labelName(labelTok)
		sp = labelTok.Span
	} else {
		sp = labelTok.Span.Point()
	}
	blk, err := p.locals.DefineBlock(name, sp)
	if err != nil {
		switch {
		case errors.Is(err, symbols.ErrNumberOutOfOrder):
			p.failAt(sp, diag.SynNumberOutOfOrder, "block label "+labelTok.Text+" is out of sequence")
		default:
			p.failAt(sp, diag.ResRedefinition, "redefinition of block "+labelTok.Text)
		}
	}
	blk.Parent = f
	f.Blocks = append(f.Blocks, blk)

	for !p.at(token.RBrace) && !p.at(token.Label) {
		inst := p.parseInstruction()
		blk.Append(inst)
		if ir.IsTerminator(inst) {
			return
		}
	}
}
