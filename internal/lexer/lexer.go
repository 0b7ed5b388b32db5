package lexer

import (
	"fmt"

	"llvet/internal/diag"
	"llvet/internal/source"
	"llvet/internal/token"
)

type Lexer struct {
	file     *source.File
	cursor   Cursor
	opts     Options
	look     *token.Token   // 1 элементный буфер для токена
	hold     []token.Trivia // накопленные leading trivia
	firstErr *diag.Diagnostic
	count    int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
		hold:   nil,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	// Leading из hold к EOF не приклеиваем
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '%':
		tok = lx.scanSigilName(token.LocalVar, token.LocalID)
	case ch == '@':
		tok = lx.scanSigilName(token.GlobalVar, token.GlobalID)
	case ch == '$':
		tok = lx.scanSigilName(token.ComdatVar, token.Invalid)
	case ch == '!':
		tok = lx.scanMetadata()
	case ch == '#':
		tok = lx.scanAttrGroup()
	case ch == '"':
		tok = lx.scanStringOrLabel()
	case ch == 'c' && lx.cursor.PeekAt(1) == '"':
		tok = lx.scanCString()
	case isDec(ch):
		tok = lx.scanNumberOrLabel()
	case (ch == '-' || ch == '+') && isDec(lx.cursor.PeekAt(1)):
		tok = lx.scanNumberOrLabel()
	case isWordStart(ch) && !lx.isEllipsis():
		tok = lx.scanWord()
	default:
		tok = lx.scanPunct()
	}

	if int(tok.Span.Len()) > lx.tokenLimit() {
		lx.errLex(diag.LexTokenTooLong, tok.Span,
			fmt.Sprintf("token exceeds maximum length of %d bytes", lx.tokenLimit()))
		lx.cursor.SkipToEnd()
		tok.Kind = token.Invalid
	}

	lx.count++
	tok.Leading = lx.hold
	lx.hold = nil

	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// FirstError returns the first lexical error seen so far.
func (lx *Lexer) FirstError() (diag.Diagnostic, bool) {
	if lx.firstErr == nil {
		return diag.Diagnostic{}, false
	}
	return *lx.firstErr, true
}

// Count returns how many significant tokens were produced, EOF excluded.
func (lx *Lexer) Count() int {
	return lx.count
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) make(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) isEllipsis() bool {
	return lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) == '.' && lx.cursor.PeekAt(2) == '.'
}
