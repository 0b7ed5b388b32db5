package lexer

import (
	"llvet/internal/diag"
	"llvet/internal/token"
)

// scanStringOrLabel: "..." или "...": (метка в кавычках)
func (lx *Lexer) scanStringOrLabel() token.Token {
	start := lx.cursor.Mark()
	if !lx.scanStringBody() {
		return lx.make(token.Invalid, start)
	}
	if lx.cursor.Peek() == ':' {
		lx.checkNFC(start, start)
		lx.cursor.Bump()
		return lx.make(token.Label, start)
	}
	return lx.make(token.StringLit, start)
}

// c"..."
func (lx *Lexer) scanCString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // c
	if !lx.scanStringBody() {
		return lx.make(token.Invalid, start)
	}
	return lx.make(token.CStringLit, start)
}

// scanStringBody потребляет "..." включая кавычки. Escape: \\ или \XX (hex).
// Переводы строк внутри допускаются.
func (lx *Lexer) scanStringBody() bool {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // "
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '"':
			return true
		case '\\':
			esc := lx.cursor.Mark()
			if lx.cursor.Eat('\\') {
				continue
			}
			h0, h1, ok := lx.cursor.Peek2()
			if ok && isHex(h0) && isHex(h1) {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			lx.bumpRune()
			sp := lx.cursor.SpanFrom(esc)
			sp.Start--
			lx.errLex(diag.LexBadEscape, sp, "escape must be '\\\\' or two hex digits")
			lx.skipString()
			return false
		}
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
	return false
}

// skipString дочитывает строку до закрывающей кавычки после ошибки.
func (lx *Lexer) skipString() {
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '"' {
			return
		}
	}
}
