package parser

import (
	"fmt"
	"math/big"
	"strconv"

	"fortio.org/safecast"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/source"
	"llvet/internal/token"
)

// peek возвращает следующий токен; Invalid сразу превращается в фатальную
// лексическую ошибку.
func (p *Parser) peek() token.Token {
	tok := p.lx.Peek()
	if tok.Kind == token.Invalid {
		p.failLexical(tok)
	}
	return tok
}

// next съедает токен и обновляет lastSpan.
func (p *Parser) next() token.Token {
	tok := p.peek()
	p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	if p.opts.MaxTokens > 0 && p.lx.Count() > p.opts.MaxTokens {
		p.failLimit(tok.Span, fmt.Sprintf("input exceeds %d tokens", p.opts.MaxTokens))
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atKw(kw string) bool {
	return p.peek().IsKeyword(kw)
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) eatKw(kw string) bool {
	if p.atKw(kw) {
		p.next()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен, иначе фатальная ошибка.
func (p *Parser) expect(k token.Kind, what string) token.Token {
	if p.at(k) {
		return p.next()
	}
	p.failExpected(what)
	return token.Token{}
}

func (p *Parser) expectKw(kw string) token.Token {
	if p.atKw(kw) {
		return p.next()
	}
	p.failExpected("'" + kw + "'")
	return token.Token{}
}

// fail останавливает разбор. Если msg пуст, сообщение строится из
// expected/found.
func (p *Parser) fail(code diag.Code, sp source.Span, expected, found string, msg ...string) {
	e := &Error{Code: code, Span: sp, Expected: expected, Found: found}
	if len(msg) > 0 {
		e.Msg = msg[0]
	}
	panic(bailout{err: e})
}

func (p *Parser) failExpected(what string) {
	tok := p.peek()
	code := diag.SynUnexpectedToken
	switch what {
	case "type":
		code = diag.SynExpectType
	case "value":
		code = diag.SynExpectValue
	}
	p.fail(code, tok.Span, what, tok.Describe())
}

func (p *Parser) failAt(sp source.Span, code diag.Code, msg string) {
	p.fail(code, sp, "", "", msg)
}

func (p *Parser) failLimit(sp source.Span, msg string) {
	panic(bailout{err: &Error{Code: diag.SynLimitExceeded, Span: sp, Msg: msg, limit: true}})
}

func (p *Parser) failLexical(tok token.Token) {
	d, ok := p.lx.FirstError()
	if !ok {
		p.fail(diag.LexUnknownChar, tok.Span, "", "", "invalid token '"+tok.Text+"'")
	}
	e := &Error{Code: d.Code, Span: d.Primary, Msg: d.Message}
	if d.Code == diag.LexTokenTooLong {
		e.limit = true
	}
	panic(bailout{err: e})
}

func (p *Parser) warn(code diag.Code, sp source.Span, msg string) {
	if p.opts.Reporter != nil {
		diag.ReportWarning(p.opts.Reporter, code, sp, msg).Emit()
	}
}

// enter/leave ограничивают глубину вложенности.
func (p *Parser) enter(sp source.Span) {
	p.depth++
	if p.depth > p.opts.depthLimit() {
		p.failLimit(sp, fmt.Sprintf("nesting deeper than %d levels", p.opts.depthLimit()))
	}
}

func (p *Parser) leave() { p.depth-- }

// ===== literals =====

func (p *Parser) parseString() string {
	tok := p.expect(token.StringLit, "string literal")
	return string(p.unquote(tok.Text, tok.Span))
}

// unquote декодирует "..." с escape \\ и \XX.
func (p *Parser) unquote(text string, sp source.Span) []byte {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		p.failAt(sp, diag.SynBadLiteral, "malformed string literal")
	}
	body := text[1 : len(text)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 < len(body) && body[i+1] == '\\' {
			out = append(out, '\\')
			i++
			continue
		}
		if i+2 < len(body) {
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err == nil {
				out = append(out, byte(v))
				i += 2
				continue
			}
		}
		p.failAt(sp, diag.LexBadEscape, "escape must be '\\\\' or two hex digits")
	}
	return out
}

// nameOf превращает %x / @12 / %"a b" в ir.Name.
func (p *Parser) nameOf(tok token.Token) ir.Name {
	body := tok.Text[1:]
	switch tok.Kind {
	case token.LocalID, token.GlobalID:
		n, err := parseU32(body)
		if err != nil {
			p.failAt(tok.Span, diag.SynBadLiteral, "value number out of range")
		}
		return ir.Numbered(n)
	}
	if len(body) > 0 && body[0] == '"' {
		return ir.Named(string(p.unquote(body, tok.Span)))
	}
	return ir.Named(body)
}

// labelName разбирает токен Label ("x:", "12:", "\"q\":").
func (p *Parser) labelName(tok token.Token) ir.Name {
	body := tok.Text[:len(tok.Text)-1]
	if body != "" && body[0] == '"' {
		return ir.Named(string(p.unquote(body, tok.Span)))
	}
	if n, err := parseU32(body); err == nil {
		return ir.Numbered(n)
	}
	return ir.Named(body)
}

// parseU32: десятичное число без знака, ошибка если не влезает в uint32.
func parseU32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[uint32](n)
}

func (p *Parser) parseUint64() uint64 {
	tok := p.expect(token.IntLit, "integer")
	v, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		p.failAt(tok.Span, diag.SynBadLiteral, "expected unsigned 64-bit integer, got "+tok.Text)
	}
	return v
}

func (p *Parser) parseUint32() uint32 {
	sp := p.peek().Span
	v, err := safecast.Conv[uint32](p.parseUint64())
	if err != nil {
		p.failAt(sp, diag.SynBadLiteral, "value does not fit in 32 bits")
	}
	return v
}

func (p *Parser) parseBigInt(tok token.Token) *big.Int {
	v, ok := new(big.Int).SetString(tok.Text, 10)
	if !ok {
		p.failAt(tok.Span, diag.SynBadLiteral, "malformed integer '"+tok.Text+"'")
	}
	return v
}

// parseAlign: "align N" уже после ключевого слова; N: степень двойки.
func (p *Parser) parseAlignValue() uint64 {
	paren := p.eat(token.LParen)
	sp := p.peek().Span
	v := p.parseUint64()
	if paren {
		p.expect(token.RParen, "')'")
	}
	if v == 0 || v&(v-1) != 0 {
		p.failAt(sp, diag.SynBadLiteral, "alignment is not a power of two")
	}
	return v
}

// parseAddrSpace: "addrspace" "(" N ")" после ключевого слова.
func (p *Parser) parseAddrSpaceValue() uint32 {
	p.expect(token.LParen, "'('")
	v := p.parseUint32()
	p.expect(token.RParen, "')'")
	return v
}

// parseSyncScope: [syncscope("name")].
func (p *Parser) parseSyncScope() string {
	if !p.eatKw("syncscope") {
		return ""
	}
	p.expect(token.LParen, "'('")
	s := p.parseString()
	p.expect(token.RParen, "')'")
	return s
}

func (p *Parser) parseOrdering() ir.Ordering {
	tok := p.peek()
	if tok.Kind == token.Keyword {
		if o, ok := ir.OrderingByName(tok.Text); ok {
			p.next()
			return o
		}
	}
	p.failExpected("atomic ordering")
	return ir.NotAtomic
}

func (p *Parser) parseFastMath() ir.FastMath {
	var fm ir.FastMath
	for {
		tok := p.peek()
		if tok.Kind != token.Keyword {
			return fm
		}
		f, ok := ir.FastMathByName(tok.Text)
		if !ok {
			return fm
		}
		p.next()
		fm |= f
	}
}
