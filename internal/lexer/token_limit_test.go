package lexer

import (
	"strings"
	"testing"

	"llvet/internal/diag"
	"llvet/internal/source"
	"llvet/internal/token"
)

func TestTokenTooLongTriggersDiagnosticAndStops(t *testing.T) {
	content := "%" + strings.Repeat("a", maxTokenLength) + " ret"
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("long.ll", []byte(content))
	file := fs.Get(fileID)

	bag := diag.NewBag(4)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics for long token")
	}
	items := bag.Items()
	if items[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", items[0].Code)
	}

	// Lexer should fast-forward to EOF after the error.
	if next := lx.Next(); next.Kind != token.EOF {
		t.Fatalf("expected EOF after long token, got %v", next.Kind)
	}
}

func TestTokenAtLimitAllowed(t *testing.T) {
	content := "%" + strings.Repeat("b", maxTokenLength-1)
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("limit.ll", []byte(content))
	file := fs.Get(fileID)

	bag := diag.NewBag(1)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.LocalVar {
		t.Fatalf("expected local name token, got %v", tok.Kind)
	}
	if bag.HasErrors() {
		t.Fatalf("did not expect diagnostics, got %v", bag.Items())
	}
}

func TestCustomTokenLimit(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("custom.ll", []byte(`c"0123456789"`)))
	bag := diag.NewBag(1)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}, MaxTokenLength: 8})
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token with 8-byte limit, got %v", tok.Kind)
	}
	if _, ok := lx.FirstError(); !ok {
		t.Fatalf("expected FirstError to record the failure")
	}
}
