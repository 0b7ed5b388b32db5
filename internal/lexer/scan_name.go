package lexer

import (
	"llvet/internal/diag"
	"llvet/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanSigilName: %x, %12, %"x y", то же для @ и $.
// idKind == token.Invalid значит, что числовых имён у сигила нет.
func (lx *Lexer) scanSigilName(nameKind, idKind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // сигил

	b := lx.cursor.Peek()
	switch {
	case b == '"':
		if !lx.scanQuoted(start) {
			return lx.make(token.Invalid, start)
		}
		return lx.make(nameKind, start)

	case isDec(b) && idKind != token.Invalid:
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.make(idKind, start)

	case isNameStart(b) || isDec(b):
		for isNameContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.make(nameKind, start)
	}

	tok := lx.make(token.Invalid, start)
	lx.errLex(diag.LexEmptyName, tok.Span, "expected name after '"+tok.Text+"'")
	return tok
}

// scanMetadata: !name, !12, или одиночный '!' (перед '{' и строкой).
func (lx *Lexer) scanMetadata() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()

	b := lx.cursor.Peek()
	switch {
	case isDec(b):
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.make(token.MetadataID, start)
	case isNameStart(b) || b == '\\':
		for {
			c := lx.cursor.Peek()
			if !isNameContinue(c) && c != '\\' {
				break
			}
			lx.cursor.Bump()
		}
		return lx.make(token.MetadataVar, start)
	}
	return lx.make(token.Exclaim, start)
}

func (lx *Lexer) scanAttrGroup() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if !isDec(lx.cursor.Peek()) {
		tok := lx.make(token.Invalid, start)
		lx.errLex(diag.LexEmptyName, tok.Span, "expected attribute group number after '#'")
		return tok
	}
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.make(token.AttrGroupID, start)
}

// scanQuoted читает "..." начиная с текущей кавычки и проверяет NFC.
// Возвращает false при незакрытой строке или битом escape.
func (lx *Lexer) scanQuoted(start Mark) bool {
	open := lx.cursor.Mark()
	if !lx.scanStringBody() {
		return false
	}
	lx.checkNFC(start, open)
	return true
}

// checkNFC предупреждает, если содержимое кавычек, начатых в open, не в NFC.
func (lx *Lexer) checkNFC(start, open Mark) {
	inner := lx.file.Content[uint32(open)+1 : lx.cursor.Off-1]
	if !norm.NFC.IsNormal(inner) {
		lx.warnLex(diag.LexNonNormalizedName, lx.cursor.SpanFrom(start),
			"quoted name is not in Unicode NFC; visually identical names may not match")
	}
}
