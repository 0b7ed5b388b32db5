package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"llvet/internal/source"
	"llvet/internal/token"
)

// TokenJSON is one element of the tokenize json output.
type TokenJSON struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// upToEOF обрезает поток после первого EOF.
func upToEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

func triviaKinds(tr []token.Trivia) []string {
	if len(tr) == 0 {
		return nil
	}
	kinds := make([]string, len(tr))
	for i, t := range tr {
		kinds[i] = t.Kind.String()
	}
	return kinds
}

// FormatTokensPretty prints one numbered line per token:
//
//	  1: GlobalIdent     "@f" at 1:8-1:10 (leading: space)
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range upToEOF(tokens) {
		from, to := fs.Resolve(tok.Span)
		var sb strings.Builder
		fmt.Fprintf(&sb, "%3d: %-15s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		fmt.Fprintf(&sb, " at %d:%d-%d:%d", from.Line, from.Col, to.Line, to.Col)
		if kinds := triviaKinds(tok.Leading); kinds != nil {
			sb.WriteString(" (leading: " + strings.Join(kinds, ", ") + ")")
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented json array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	toks := upToEOF(tokens)
	out := make([]TokenJSON, 0, len(toks))
	for _, tok := range toks {
		out = append(out, TokenJSON{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: triviaKinds(tok.Leading),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
