package lexer

import (
	"llvet/internal/token"
)

// scanWord: ключевое слово, iN или метка "word:".
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for isWordContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == ':' {
		lx.cursor.Bump()
		return lx.make(token.Label, start)
	}
	tok := lx.make(token.Keyword, start)
	if len(tok.Text) > 1 && tok.Text[0] == 'i' && allDigits(tok.Text[1:]) {
		tok.Kind = token.IntType
	}
	return tok
}
