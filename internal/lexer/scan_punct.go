package lexer

import (
	"llvet/internal/diag"
	"llvet/internal/token"
)

var punct = [256]token.Kind{
	'=': token.Equal,
	',': token.Comma,
	'*': token.Star,
	'|': token.Bar,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'{': token.LBrace,
	'}': token.RBrace,
	'<': token.Less,
	'>': token.Greater,
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	if lx.isEllipsis() {
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.make(token.DotDotDot, start)
	}
	b := lx.cursor.Peek()
	if k := punct[b]; k != token.Invalid {
		lx.cursor.Bump()
		return lx.make(k, start)
	}
	lx.bumpRune()
	tok := lx.make(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character '"+tok.Text+"'")
	return tok
}
