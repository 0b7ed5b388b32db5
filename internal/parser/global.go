package parser

import (
	"errors"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/symbols"
	"llvet/internal/token"
)

// parseComdat: $name = comdat any|exactmatch|largest|nodeduplicate|samesize
func (p *Parser) parseComdat() {
	tok := p.next()
	p.expect(token.Equal, "'='")
	p.expectKw("comdat")
	kind := p.expect(token.Keyword, "comdat selection kind")
	switch kind.Text {
	case "any", "exactmatch", "largest", "nodeduplicate", "samesize":
	default:
		p.failAt(kind.Span, diag.SynUnexpectedToken, "unknown comdat selection kind '"+kind.Text+"'")
	}
	name := p.comdatName(tok)
	for _, c := range p.m.Comdats {
		if c.Name == name {
			p.failAt(tok.Span, diag.ResRedefinition, "redefinition of comdat "+tok.Text)
		}
	}
	p.m.Comdats = append(p.m.Comdats, ir.Comdat{Name: name, Kind: kind.Text})
}

func (p *Parser) comdatName(tok token.Token) string {
	body := tok.Text[1:]
	if len(body) > 0 && body[0] == '"' {
		return string(p.unquote(body, tok.Span))
	}
	return body
}

// parseHeaderPrefix: linkage, preemption, visibility, DLL storage,
// thread_local, unnamed_addr, addrspace, externally_initialized.
func (p *Parser) parseHeaderPrefix(h *ir.GlobalHeader) (hasLinkage bool, extInit bool) {
	for {
		tok := p.peek()
		if tok.Kind != token.Keyword {
			return
		}
		if l, ok := ir.LinkageByName(tok.Text); ok {
			p.next()
			h.Linkage = l
			hasLinkage = true
			continue
		}
		switch tok.Text {
		case "dso_local":
			h.Preemption = ir.PreemptionDSOLocal
		case "dso_preemptable":
			h.Preemption = ir.PreemptionDSOPreemptable
		case "default":
			h.Visibility = ir.VisibilityDefault
		case "hidden":
			h.Visibility = ir.VisibilityHidden
		case "protected":
			h.Visibility = ir.VisibilityProtected
		case "dllimport":
			h.DLL = ir.DLLImport
		case "dllexport":
			h.DLL = ir.DLLExport
		case "unnamed_addr":
			h.UnnamedAddr = ir.UnnamedAddrGlobal
		case "local_unnamed_addr":
			h.UnnamedAddr = ir.UnnamedAddrLocal
		case "externally_initialized":
			extInit = true
		case "thread_local":
			p.next()
			h.ThreadLocal = p.parseTLSModel()
			continue
		case "addrspace":
			p.next()
			h.AddrSpace = p.parseAddrSpaceValue()
			continue
		default:
			return
		}
		p.next()
	}
}

func (p *Parser) parseTLSModel() ir.ThreadLocal {
	if !p.eat(token.LParen) {
		return ir.TLSGeneralDynamic
	}
	tok := p.expect(token.Keyword, "TLS model")
	p.expect(token.RParen, "')'")
	switch tok.Text {
	case "localdynamic":
		return ir.TLSLocalDynamic
	case "initialexec":
		return ir.TLSInitialExec
	case "localexec":
		return ir.TLSLocalExec
	}
	p.failAt(tok.Span, diag.SynUnexpectedToken, "unknown TLS model '"+tok.Text+"'")
	return ir.TLSNone
}

// parseGlobal: @g = ... global|constant|alias|ifunc ...
func (p *Parser) parseGlobal() {
	tok := p.next()
	p.expect(token.Equal, "'='")
	name := p.defineGlobalName(tok)

	h := ir.GlobalHeader{Name: name, Span: tok.Span}
	hasLinkage, extInit := p.parseHeaderPrefix(&h)
	h.Typ = p.ctx.Pointer(h.AddrSpace)

	kw := p.peek()
	switch {
	case kw.IsKeyword("global"), kw.IsKeyword("constant"):
		p.next()
		p.parseGlobalVar(tok, h, kw.Text == "constant", hasLinkage, extInit)
	case kw.IsKeyword("alias"):
		p.next()
		a := &ir.Alias{GlobalHeader: h}
		a.ValueType = p.parseType()
		p.expect(token.Comma, "','")
		a.Aliasee = p.parseTypedValue()
		p.parseGlobalTrailer(&a.GlobalHeader, nil)
		p.m.Aliases = append(p.m.Aliases, a)
		p.bindGlobal(tok, a)
	case kw.IsKeyword("ifunc"):
		p.next()
		f := &ir.IFunc{GlobalHeader: h}
		f.ValueType = p.parseType()
		p.expect(token.Comma, "','")
		f.Resolver = p.parseTypedValue()
		p.parseGlobalTrailer(&f.GlobalHeader, nil)
		p.m.IFuncs = append(p.m.IFuncs, f)
		p.bindGlobal(tok, f)
	default:
		p.failExpected("'global', 'constant', 'alias' or 'ifunc'")
	}
}

func (p *Parser) parseGlobalVar(tok token.Token, h ir.GlobalHeader, isConst, hasLinkage, extInit bool) {
	g := &ir.GlobalVar{GlobalHeader: h, IsConstant: isConst, ExternallyInitialized: extInit}
	g.ValueType = p.parseType()
	if g.ValueType == p.b.Void || p.ctx.IsFunc(g.ValueType) || p.ctx.IsLabel(g.ValueType) {
		p.failAt(tok.Span, diag.SynInvalidType, "invalid type for global variable")
	}
	decl := hasLinkage && (h.Linkage == ir.LinkageExternal || h.Linkage == ir.LinkageExternWeak)
	if !decl {
		g.Init = p.parseValue(g.ValueType)
	}
	// глобал виден в собственном инициализаторе только через плейсхолдер
	p.bindGlobal(tok, g)
	p.parseGlobalTrailer(&g.GlobalHeader, &g.Attrs)
	p.m.Globals = append(p.m.Globals, g)
}

// parseGlobalTrailer: {, section "s" | partition "p" | comdat[($c)] | align N | !kind !N}
func (p *Parser) parseGlobalTrailer(h *ir.GlobalHeader, attrs *ir.AttrSet) {
	for p.eat(token.Comma) {
		switch {
		case p.at(token.MetadataVar):
			h.Attachments = append(h.Attachments, p.parseAttachment())
		case p.eatKw("section"):
			h.Section = p.parseString()
		case p.eatKw("partition"):
			h.Partition = p.parseString()
		case p.atKw("comdat"):
			p.parseComdatRef(h)
		case p.eatKw("align"):
			h.Align = p.parseAlignValue()
		case attrs != nil && (p.at(token.StringLit) || p.at(token.Keyword)):
			*attrs = append(*attrs, p.parseAttrs(attrParam, nil)...)
		default:
			p.failExpected("global attribute")
		}
	}
}

func (p *Parser) parseComdatRef(h *ir.GlobalHeader) {
	p.expectKw("comdat")
	h.HasComdat = true
	if p.eat(token.LParen) {
		tok := p.expect(token.ComdatVar, "comdat name")
		h.Comdat = p.comdatName(tok)
		p.expect(token.RParen, "')'")
		return
	}
	h.Comdat = h.Name.Text
}

func (p *Parser) defineGlobalName(tok token.Token) ir.Name {
	name, err := p.globals.Name(p.nameOf(tok))
	p.checkDefine(tok, err)
	return name
}

func (p *Parser) bindGlobal(tok token.Token, g ir.Global) {
	p.checkDefine(tok, p.globals.Define(g))
}

func (p *Parser) checkDefine(tok token.Token, err error) {
	switch {
	case err == nil:
	case errors.Is(err, symbols.ErrNumberOutOfOrder):
		p.failAt(tok.Span, diag.SynNumberOutOfOrder, "value "+tok.Text+" is out of sequence")
	default:
		p.failAt(tok.Span, diag.ResRedefinition, "redefinition of "+tok.Text)
	}
}

