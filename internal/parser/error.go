package parser

import (
	"errors"
	"fmt"

	"llvet/internal/diag"
	"llvet/internal/source"
)

// ErrLimitExceeded is wrapped by *Error when a depth, token-count or
// token-length ceiling stops the parse.
var ErrLimitExceeded = errors.New("parser exceeded limits")

// Error is the single fatal error of a parse: lexical, syntax or resolution.
type Error struct {
	Code     diag.Code
	Span     source.Span
	Expected string // construct the grammar wanted, may be empty
	Found    string // description of the offending token, may be empty
	Msg      string
	limit    bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Message())
}

func (e *Error) Unwrap() error {
	if e.limit {
		return ErrLimitExceeded
	}
	return nil
}

// Message returns the human-readable text without the code prefix.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Expected != "" {
		return "expected " + e.Expected + ", found " + e.Found
	}
	return e.Code.Title()
}

// Diagnostic converts the error for rendering.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Message())
}

// bailout unwinds the recursive descent on the first fatal error.
type bailout struct{ err *Error }
