package lexer

import (
	"testing"

	"llvet/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.ll", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	file := createFile("a\nb")
	cursor := NewCursor(file)

	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("expected peek %q, got %q", want, got)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("expected bump %q, got %q", want, got)
		}
	}
	if !cursor.EOF() {
		t.Fatalf("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatalf("expected zero bytes after EOF")
	}
}

func TestMarkSpanReset(t *testing.T) {
	file := createFile("%abc")
	cursor := NewCursor(file)
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 2 {
		t.Fatalf("unexpected span %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 0 {
		t.Fatalf("reset did not rewind, off=%d", cursor.Off)
	}
}

func TestPeekHelpers(t *testing.T) {
	file := createFile("ab")
	cursor := NewCursor(file)
	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != 'a' || b1 != 'b' {
		t.Fatalf("unexpected Peek2: %q %q %v", b0, b1, ok)
	}
	if cursor.PeekAt(1) != 'b' || cursor.PeekAt(2) != 0 {
		t.Fatalf("unexpected PeekAt results")
	}
	if !cursor.Eat('a') || cursor.Eat('a') {
		t.Fatalf("Eat should consume only matching byte")
	}
}
