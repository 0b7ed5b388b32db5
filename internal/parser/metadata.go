package parser

import (
	"strconv"
	"strings"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/metadata"
	"llvet/internal/token"
)

// parseMetadataDef: !N = [distinct] !{...} | !DIName(...)
func (p *Parser) parseMetadataDef() {
	tok := p.next()
	id := p.mdID(tok)
	p.expect(token.Equal, "'='")
	distinct := p.eatKw("distinct")
	n := p.parseMDNode()
	n.Distinct = distinct
	if !p.m.MD.Define(id, n) {
		p.failAt(tok.Span, diag.ResRedefinition, "redefinition of metadata "+tok.Text)
	}
}

// parseNamedMetadata: !name = !{!0, !1}
func (p *Parser) parseNamedMetadata() {
	tok := p.next()
	p.expect(token.Equal, "'='")
	p.expect(token.Exclaim, "'!'")
	p.expect(token.LBrace, "'{'")
	var ids []metadata.ID
	if !p.at(token.RBrace) {
		for {
			ref := p.expect(token.MetadataID, "metadata id")
			id := p.mdID(ref)
			p.m.MD.NoteUse(id, ref.Span)
			ids = append(ids, id)
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RBrace, "'}'")
	if !p.m.MD.DefineNamed(tok.Text[1:], ids) {
		p.failAt(tok.Span, diag.ResRedefinition, "redefinition of named metadata "+tok.Text)
	}
}

func (p *Parser) mdID(tok token.Token) metadata.ID {
	n, err := strconv.ParseUint(tok.Text[1:], 10, 32)
	if err != nil {
		p.failAt(tok.Span, diag.SynBadLiteral, "metadata id out of range")
	}
	return metadata.ID(n)
}

// parseMDNode: !{...} или !DIName(...).
func (p *Parser) parseMDNode() *metadata.Node {
	tok := p.peek()
	p.enter(tok.Span)
	defer p.leave()
	switch tok.Kind {
	case token.Exclaim:
		p.next()
		p.expect(token.LBrace, "'{'")
		n := &metadata.Node{}
		if !p.at(token.RBrace) {
			for {
				n.Elems = append(n.Elems, p.parseMDOperand())
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		p.expect(token.RBrace, "'}'")
		n.Span = tok.Span.Cover(p.lastSpan)
		return n
	case token.MetadataVar:
		p.next()
		n := &metadata.Node{Specialized: tok.Text[1:]}
		p.expect(token.LParen, "'('")
		if !p.at(token.RParen) {
			for {
				n.Fields = append(n.Fields, p.parseMDField())
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		p.expect(token.RParen, "')'")
		n.Span = tok.Span.Cover(p.lastSpan)
		return n
	}
	p.failExpected("metadata node")
	return nil
}

// parseMDOperand: элемент кортежа или значение вложения.
func (p *Parser) parseMDOperand() metadata.Operand {
	tok := p.peek()
	switch tok.Kind {
	case token.MetadataID:
		p.next()
		id := p.mdID(tok)
		p.m.MD.NoteUse(id, tok.Span)
		return metadata.Operand{Kind: metadata.OpRef, Ref: id}
	case token.Exclaim:
		p.next()
		if p.at(token.StringLit) {
			s := p.next()
			return metadata.Operand{Kind: metadata.OpString, Text: string(p.unquote(s.Text, s.Span))}
		}
		// вернуть '!' нельзя: разбираем кортеж здесь же
		n := &metadata.Node{}
		p.enter(tok.Span)
		p.expect(token.LBrace, "'{'")
		if !p.at(token.RBrace) {
			for {
				n.Elems = append(n.Elems, p.parseMDOperand())
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		p.expect(token.RBrace, "'}'")
		p.leave()
		n.Span = tok.Span.Cover(p.lastSpan)
		return metadata.Operand{Kind: metadata.OpInline, Node: n}
	case token.MetadataVar:
		return metadata.Operand{Kind: metadata.OpInline, Node: p.parseMDNode()}
	case token.Keyword:
		if tok.Text == "null" {
			p.next()
			return metadata.Operand{Kind: metadata.OpNull}
		}
	}
	return p.parseMDValue()
}

// parseMDValue: типизированное значение внутри метаданных (i32 7, ptr @g).
func (p *Parser) parseMDValue() metadata.Operand {
	t := p.parseType()
	vstart := p.peek().Span
	v := p.parseValue(t)
	op := metadata.Operand{Kind: metadata.OpValue, Type: t}
	op.Text = string(p.file.Content[vstart.Start:p.lastSpan.End])
	if c, ok := v.(*ir.ConstInt); ok {
		op.Int = c.V
	}
	return op
}

// parseMDField: поле специализированного узла, "name: value" или позиционное.
func (p *Parser) parseMDField() metadata.Field {
	var f metadata.Field
	if p.at(token.Label) {
		tok := p.next()
		f.Name = strings.TrimSuffix(tok.Text, ":")
	}
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.next()
		f.Op = metadata.Operand{Kind: metadata.OpInt, Int: p.parseBigInt(tok), Text: tok.Text}
	case token.StringLit:
		p.next()
		f.Op = metadata.Operand{Kind: metadata.OpString, Text: string(p.unquote(tok.Text, tok.Span))}
	case token.Keyword:
		switch {
		case tok.Text == "true" || tok.Text == "false":
			p.next()
			f.Op = metadata.Operand{Kind: metadata.OpBool, Text: tok.Text}
		case tok.Text == "null":
			p.next()
			f.Op = metadata.Operand{Kind: metadata.OpNull}
		case token.Is(tok.Text, token.ClassType):
			f.Op = p.parseMDValue()
		default:
			f.Op = p.parseMDEnum()
		}
	case token.IntType:
		f.Op = p.parseMDValue()
	default:
		f.Op = p.parseMDOperand()
	}
	return f
}

// parseMDEnum: DW_TAG_member или DIFlagA | DIFlagB.
func (p *Parser) parseMDEnum() metadata.Operand {
	var words []string
	for {
		tok := p.peek()
		if tok.Kind != token.Keyword && tok.Kind != token.IntLit {
			p.failExpected("metadata enumerator")
		}
		p.next()
		words = append(words, tok.Text)
		if !p.eat(token.Bar) {
			break
		}
	}
	return metadata.Operand{Kind: metadata.OpEnum, Text: strings.Join(words, " | ")}
}

// parseAttachment: !kind <operand>, вызывается на токене MetadataVar.
func (p *Parser) parseAttachment() ir.Attachment {
	tok := p.expect(token.MetadataVar, "metadata attachment")
	op := p.parseMDOperand()
	return ir.Attachment{Kind: tok.Text[1:], Op: op, Span: tok.Span.Cover(p.lastSpan)}
}

// parseAttachments читает подряд идущие вложения без запятых (у функций).
func (p *Parser) parseAttachments() []ir.Attachment {
	var out []ir.Attachment
	for p.at(token.MetadataVar) {
		out = append(out, p.parseAttachment())
	}
	return out
}
