package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"llvet/internal/diag"
	"llvet/internal/lexer"
	"llvet/internal/source"
	"llvet/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

// Report реализует интерфейс diag.Reporter
func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

// HasErrors возвращает true, если были зарегистрированы ошибки
func (r *testReporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func (r *testReporter) Messages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ll", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{diagnostics: make([]diag.Diagnostic, 0)}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	return lx, reporter
}

// collectAllTokens собирает все токены до EOF (не включая EOF)
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectTokens(t *testing.T, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.Messages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	lx, rep := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != kind {
		t.Errorf("%q: expected kind %v, got %v (%v)", input, kind, tok.Kind, rep.Messages())
	}
	if tok.Text != text {
		t.Errorf("%q: expected text %q, got %q", input, text, tok.Text)
	}
}

func TestSigilNames(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"%x", token.LocalVar, "%x"},
		{"%for.body", token.LocalVar, "%for.body"},
		{"%12", token.LocalID, "%12"},
		{`%"a b"`, token.LocalVar, `%"a b"`},
		{"@main", token.GlobalVar, "@main"},
		{"@0", token.GlobalID, "@0"},
		{"@.str", token.GlobalVar, "@.str"},
		{"$comdat", token.ComdatVar, "$comdat"},
		{"!dbg", token.MetadataVar, "!dbg"},
		{"!llvm.module.flags", token.MetadataVar, "!llvm.module.flags"},
		{"!DILocation", token.MetadataVar, "!DILocation"},
		{"!7", token.MetadataID, "!7"},
		{"#0", token.AttrGroupID, "#0"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestWordsTypesAndLabels(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"define", token.Keyword, "define"},
		{"x86_fp80", token.Keyword, "x86_fp80"},
		{"i32", token.IntType, "i32"},
		{"i1", token.IntType, "i1"},
		{"i", token.Keyword, "i"},
		{"entry:", token.Label, "entry:"},
		{"for.end:", token.Label, "for.end:"},
		{"3:", token.Label, "3:"},
		{`"quoted label":`, token.Label, `"quoted label":`},
		{"line:", token.Label, "line:"},
		{"DW_TAG_member", token.Keyword, "DW_TAG_member"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"42", token.IntLit, "42"},
		{"-7", token.IntLit, "-7"},
		{"1.5", token.FloatLit, "1.5"},
		{"-0.0", token.FloatLit, "-0.0"},
		{"1.0e+10", token.FloatLit, "1.0e+10"},
		{"2.5E-3", token.FloatLit, "2.5E-3"},
		{"0x3FF0000000000000", token.FloatLit, "0x3FF0000000000000"},
		{"0xK4000C8F5C28F5C28F5C3", token.FloatLit, "0xK4000C8F5C28F5C28F5C3"},
		{"0xH3C00", token.FloatLit, "0xH3C00"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestBadNumbers(t *testing.T) {
	for _, input := range []string{"0x", "12abc", "1.0e"} {
		lx, rep := makeTestLexer(input)
		tok := lx.Next()
		if tok.Kind != token.Invalid {
			t.Fatalf("%q: expected invalid, got %v", input, tok.Kind)
		}
		if !rep.HasErrors() || rep.diagnostics[0].Code != diag.LexBadNumber {
			t.Fatalf("%q: expected LexBadNumber, got %v", input, rep.Messages())
		}
	}
}

func TestStrings(t *testing.T) {
	expectSingleToken(t, `"hello"`, token.StringLit, `"hello"`)
	expectSingleToken(t, `c"hi\0A\00"`, token.CStringLit, `c"hi\0A\00"`)
	expectSingleToken(t, `"a\\b"`, token.StringLit, `"a\\b"`)

	lx, rep := makeTestLexer(`"oops`)
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid for unterminated string, got %v", tok.Kind)
	}
	if rep.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected LexUnterminatedString, got %v", rep.Messages())
	}

	lx, rep = makeTestLexer(`"bad\q" ret`)
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid for bad escape, got %v", tok.Kind)
	}
	if rep.diagnostics[0].Code != diag.LexBadEscape {
		t.Fatalf("expected LexBadEscape, got %v", rep.Messages())
	}
	if tok := lx.Next(); !tok.IsKeyword("ret") {
		t.Fatalf("expected lexing to resume after bad string, got %v", tok.Describe())
	}
}

func TestNonNFCQuotedNameWarns(t *testing.T) {
	// "e" + combining acute accent, NFC would be a single rune
	lx, rep := makeTestLexer("%\"e\u0301\"")
	tok := lx.Next()
	if tok.Kind != token.LocalVar {
		t.Fatalf("expected local, got %v", tok.Kind)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexNonNormalizedName {
		t.Fatalf("expected NFC warning, got %v", rep.Messages())
	}
	if rep.HasErrors() {
		t.Fatalf("NFC mismatch must be a warning")
	}
}

func TestPunctuation(t *testing.T) {
	expectTokens(t, "= , * | ( ) [ ] { } < > ... !{", []token.Kind{
		token.Equal, token.Comma, token.Star, token.Bar, token.LParen, token.RParen,
		token.LBracket, token.RBracket, token.LBrace, token.RBrace, token.Less,
		token.Greater, token.DotDotDot, token.Exclaim, token.LBrace,
	})
}

func TestUnknownCharacter(t *testing.T) {
	lx, rep := makeTestLexer("^ ret")
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid, got %v", tok.Kind)
	}
	if rep.diagnostics[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected LexUnknownChar, got %v", rep.Messages())
	}
}

func TestFunctionLine(t *testing.T) {
	toks := expectTokens(t, "define i32 @f(i32 %a) #0 {\nentry:\n  %r = add nsw i32 %a, 1 ; bump\n  ret i32 %r\n}\n", []token.Kind{
		token.Keyword, token.IntType, token.GlobalVar, token.LParen, token.IntType, token.LocalVar,
		token.RParen, token.AttrGroupID, token.LBrace,
		token.Label,
		token.LocalVar, token.Equal, token.Keyword, token.Keyword, token.IntType, token.LocalVar, token.Comma, token.IntLit,
		token.Keyword, token.IntType, token.LocalVar,
		token.RBrace,
	})
	ret := toks[18]
	var sawComment bool
	for _, tr := range ret.Leading {
		if tr.Kind == token.TriviaComment && tr.Text == "; bump" {
			sawComment = true
		}
	}
	if !sawComment {
		t.Fatalf("expected comment trivia before ret, got %+v", ret.Leading)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("ret void")
	p := lx.Peek()
	if p2 := lx.Peek(); p2.Text != p.Text {
		t.Fatalf("double peek changed token: %q vs %q", p.Text, p2.Text)
	}
	if n := lx.Next(); n.Text != "ret" {
		t.Fatalf("expected ret, got %q", n.Text)
	}
	if n := lx.Next(); n.Text != "void" {
		t.Fatalf("expected void, got %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must be sticky, got %v", n.Kind)
	}
}

func TestSpansMatchText(t *testing.T) {
	src := "  @g = global [2 x i8] c\"ab\"\n"
	lx, _ := makeTestLexer(src)
	for _, tok := range collectAllTokens(lx) {
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span text %q does not match token text %q", got, tok.Text)
		}
	}
}
