package token

import (
	"llvet/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, CStringLit:
		return true
	default:
		return false
	}
}

// IsName reports whether the token names a value (local or global, named or numbered).
func (t Token) IsName() bool {
	switch t.Kind {
	case LocalVar, LocalID, GlobalVar, GlobalID:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is the bare word kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Keyword && t.Text == kw
}

// Describe renders the token for "expected X, found Y" messages.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of file"
	case Keyword:
		return "'" + t.Text + "'"
	default:
		if t.Text == "" {
			return t.Kind.String()
		}
		return t.Kind.String() + " '" + t.Text + "'"
	}
}
