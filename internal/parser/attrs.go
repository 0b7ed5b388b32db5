package parser

import (
	"strings"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/token"
)

// Атрибуты с аргументом разных видов.
var (
	typeAttrs = map[string]bool{
		"byval": true, "byref": true, "sret": true, "inalloca": true,
		"preallocated": true, "elementtype": true,
	}
	intAttrs = map[string]bool{
		"align": true, "alignstack": true, "dereferenceable": true,
		"dereferenceable_or_null": true,
	}
	rawAttrs = map[string]bool{
		"memory": true, "allocsize": true, "uwtable": true, "vscale_range": true,
		"allockind": true, "nofpclass": true, "initializes": true, "captures": true,
		"range": true,
	}
)

// attrMode говорит, где стоит список: у функции "align": выравнивание
// заголовка, а не атрибут.
type attrMode uint8

const (
	attrParam attrMode = iota
	attrFunc
	attrGroup
)

// parseAttrs читает атрибуты, пока следующий токен похож на атрибут.
// #N собираются в groups (только для attrFunc/attrGroup не допускаются).
func (p *Parser) parseAttrs(mode attrMode, groups *[]uint32) ir.AttrSet {
	var set ir.AttrSet
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.StringLit:
			set = append(set, p.parseStringAttr())
		case tok.Kind == token.AttrGroupID && groups != nil:
			p.next()
			id := p.groupID(tok)
			*groups = append(*groups, id)
			p.groupRefs = append(p.groupRefs, groupRef{id: id, span: tok.Span})
		case tok.Kind == token.Keyword && token.Is(tok.Text, token.ClassAttribute):
			if mode == attrFunc && tok.Text == "align" {
				return set
			}
			set = append(set, p.parseEnumAttr())
		default:
			return set
		}
	}
}

func (p *Parser) groupID(tok token.Token) uint32 {
	id, err := parseU32(tok.Text[1:])
	if err != nil || id > 1<<31 {
		p.failAt(tok.Span, diag.SynBadAttribute, "attribute group number out of range")
	}
	return id
}

// "key" или "key"="value"
func (p *Parser) parseStringAttr() ir.Attribute {
	tok := p.next()
	a := ir.Attribute{Kind: string(p.unquote(tok.Text, tok.Span)), Str: true, Span: tok.Span}
	if p.eat(token.Equal) {
		a.Value = p.parseString()
		a.Span = tok.Span.Cover(p.lastSpan)
	}
	return a
}

func (p *Parser) parseEnumAttr() ir.Attribute {
	tok := p.next()
	a := ir.Attribute{Kind: tok.Text, Span: tok.Span}
	switch {
	case typeAttrs[tok.Text]:
		if p.eat(token.LParen) {
			a.Type = p.parseType()
			p.expect(token.RParen, "')'")
		}
	case intAttrs[tok.Text]:
		a.HasInt = true
		if p.eat(token.Equal) {
			// форма групп атрибутов: alignstack=16
			a.Int = p.parseUint64()
			break
		}
		if tok.Text == "align" || tok.Text == "alignstack" {
			a.Int = p.parseAlignValue()
			break
		}
		p.expect(token.LParen, "'('")
		a.Int = p.parseUint64()
		p.expect(token.RParen, "')'")
	case rawAttrs[tok.Text]:
		if p.at(token.LParen) {
			a.Value = p.parseRawParens()
		}
	}
	a.Span = tok.Span.Cover(p.lastSpan)
	return a
}

// parseRawParens возвращает текст между сбалансированными скобками.
func (p *Parser) parseRawParens() string {
	open := p.expect(token.LParen, "'('")
	depth := 1
	var parts []string
	for depth > 0 {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			p.failAt(open.Span, diag.SynBadAttribute, "unterminated attribute argument list")
		case token.LParen:
			depth++
		case token.RParen:
			depth--
		}
		p.next()
		if depth > 0 {
			parts = append(parts, tok.Text)
		}
	}
	s := strings.Join(parts, " ")
	s = strings.ReplaceAll(s, " ,", ",")
	s = strings.ReplaceAll(s, "( ", "(")
	s = strings.ReplaceAll(s, " )", ")")
	return s
}

// parseAttrGroup: attributes #N = { ... }
func (p *Parser) parseAttrGroup() {
	p.expectKw("attributes")
	tok := p.expect(token.AttrGroupID, "attribute group")
	id := p.groupID(tok)
	p.expect(token.Equal, "'='")
	p.expect(token.LBrace, "'{'")
	set := p.parseAttrs(attrGroup, nil)
	p.expect(token.RBrace, "'}'")
	if _, dup := p.m.AttrGroups[id]; dup {
		p.failAt(tok.Span, diag.ResRedefinition, "redefinition of attribute group "+tok.Text)
	}
	p.m.AttrGroups[id] = set
}
