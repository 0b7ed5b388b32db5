package lexer

import (
	"llvet/internal/diag"
	"llvet/internal/token"
)

// scanNumberOrLabel:
//   - 12:            → Label (пронумерованный блок)
//   - [-+]?[0-9]+    → IntLit
//   - [-+]?[0-9]+.[0-9]*([eE][-+]?[0-9]+)? → FloatLit
//   - 0x[KLMHR]?[0-9A-Fa-f]+ → FloatLit (битовое представление)
func (lx *Lexer) scanNumberOrLabel() token.Token {
	start := lx.cursor.Mark()
	signed := lx.cursor.Eat('-') || lx.cursor.Eat('+')

	if !signed && lx.cursor.Peek() == '0' && lx.cursor.PeekAt(1) == 'x' {
		return lx.scanHexFloat(start)
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if !signed && lx.cursor.Peek() == ':' {
		lx.cursor.Bump()
		return lx.make(token.Label, start)
	}

	if lx.cursor.Peek() != '.' || lx.cursor.PeekAt(1) == '.' {
		if isWordStart(lx.cursor.Peek()) {
			return lx.badNumber(start)
		}
		return lx.make(token.IntLit, start)
	}

	lx.cursor.Bump() // '.'
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		exp := lx.cursor.Mark()
		lx.cursor.Bump()
		if !lx.cursor.Eat('-') {
			lx.cursor.Eat('+')
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(exp)
			return lx.badNumber(start)
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.make(token.FloatLit, start)
}

func (lx *Lexer) scanHexFloat(start Mark) token.Token {
	lx.cursor.Bump() // 0
	lx.cursor.Bump() // x
	switch lx.cursor.Peek() {
	case 'K', 'L', 'M', 'H', 'R':
		lx.cursor.Bump()
	}
	digits := 0
	for isHex(lx.cursor.Peek()) {
		lx.cursor.Bump()
		digits++
	}
	if digits == 0 {
		return lx.badNumber(start)
	}
	return lx.make(token.FloatLit, start)
}

func (lx *Lexer) badNumber(start Mark) token.Token {
	for isWordContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.make(token.Invalid, start)
	lx.errLex(diag.LexBadNumber, tok.Span, "malformed numeric literal '"+tok.Text+"'")
	return tok
}
