package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"llvet/internal/diag"
	"llvet/internal/irfmt"
	"llvet/internal/parser"
	"llvet/internal/source"
	"llvet/internal/testkit"
	"llvet/internal/types"
	"llvet/internal/verify"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsIR(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.ll", input))
		bag := diag.NewBag(128)
		m, err := parser.ParseModule(types.NewContext(), file, parser.Options{
			Reporter: diag.BagReporter{Bag: bag},
		})
		if err != nil {
			var perr *parser.Error
			if !errors.As(err, &perr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}
		if err := testkit.CheckStructure(m); err != nil {
			t.Fatalf("structure: %v", err)
		}
		if err := testkit.CheckSpanInvariants(m, file); err != nil {
			t.Fatalf("spans: %v", err)
		}
		rep := verify.Module(m, verify.Options{MaxViolations: 256})
		rep.Emit(diag.BagReporter{Bag: bag})

		// напечатанный модуль должен снова разбираться без паники
		printed := irfmt.Format(m, irfmt.Options{})
		pfs := source.NewFileSet()
		_, _ = parser.ParseModule(types.NewContext(), pfs.Get(pfs.AddVirtual("printed.ll", printed)), parser.Options{})
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// It uses a timeout to detect infinite loops in error paths.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("define void @f() {"))                       // unterminated body
	f.Add([]byte("define void @f() {\n  %x = add i32 1,\n}")) // missing operand
	f.Add([]byte("%t = type { { { { { i32 } } } } }"))        // nested aggregates
	f.Add([]byte("!0 = !{!{!{!{!{}}}}}"))                     // nested metadata
	f.Add([]byte("@g = global i32 add (i32 1, i32 add (i32 2, i32 3))"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.ll", input))
			_, _ = parser.ParseModule(types.NewContext(), file, parser.Options{Context: ctx})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return input[:maxLen]
}
