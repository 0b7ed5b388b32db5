package fuzztests

import (
	"testing"

	"llvet/internal/diag"
	"llvet/internal/lexer"
	"llvet/internal/source"
	"llvet/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.ll", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		// каждый токен продвигает позицию, иначе лексер зациклился бы
		for n := 0; ; n++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				return
			}
			if tok.Span.Start < prevEnd || tok.Span.End > uint32(len(input)) {
				t.Fatalf("token %d span %v out of order (prev end %d, len %d)", n, tok.Span, prevEnd, len(input))
			}
			prevEnd = tok.Span.End
			if n > len(input)+1 {
				t.Fatalf("lexer produced %d tokens for %d bytes", n, len(input))
			}
		}
	})
}
