package lexer

import (
	"llvet/internal/diag"
	"llvet/internal/source"
)

// maxTokenLength is the default upper bound for a single token in bytes.
// Long c-string initializers are the usual outliers.
const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем лексить)
	// MaxTokenLength overrides maxTokenLength when positive.
	MaxTokenLength int
}

func (lx *Lexer) tokenLimit() int {
	if lx.opts.MaxTokenLength > 0 {
		return lx.opts.MaxTokenLength
	}
	return maxTokenLength
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	d := diag.NewError(code, sp, msg)
	if lx.firstErr == nil {
		lx.firstErr = &d
	}
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.NewError(code, sp, msg))
	}
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(diag.New(diag.SevWarning, code, sp, msg))
	}
}
