package parser

import (
	"context"

	"llvet/internal/diag"
)

// defaultMaxDepth bounds nesting of types, constants and metadata nodes.
const defaultMaxDepth = 256

type Options struct {
	// Reporter receives warnings (SynMissingExpectedType, LexNonNormalizedName).
	// Fatal errors are returned from ParseModule, not reported.
	Reporter diag.Reporter
	// MaxDepth overrides defaultMaxDepth when positive.
	MaxDepth int
	// MaxTokens stops the parse after that many tokens; 0 means unlimited.
	MaxTokens int
	// MaxTokenLength is forwarded to the lexer.
	MaxTokenLength int
	// Context is polled between top-level entities.
	Context context.Context
}

func (o Options) depthLimit() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return defaultMaxDepth
}

// warningsOnly forwards non-error diagnostics; lexical errors surface through
// the parser's own *Error instead.
type warningsOnly struct{ next diag.Reporter }

func (w warningsOnly) Report(d diag.Diagnostic) {
	if w.next == nil || d.IsError() {
		return
	}
	w.next.Report(d)
}
