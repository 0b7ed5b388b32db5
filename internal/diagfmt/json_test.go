package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"llvet/internal/diag"
	"llvet/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("define void @f() {\n  ret i32 1\n}")
	fileID := fs.AddVirtual("test.ll", content)

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.VerTypeMismatch, source.Span{File: fileID, Start: 21, End: 30}, "return type mismatch"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output Document
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "VER4001" || d.Message != "return type mismatch" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	loc := d.Location
	if loc.File != "test.ll" || loc.StartByte != 21 || loc.EndByte != 30 {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.StartLine != 2 || loc.StartCol != 3 || loc.EndLine != 2 || loc.EndCol != 12 {
		t.Errorf("unexpected positions %+v", loc)
	}
}

func TestJSONWithNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ll", []byte("ret i32 0"))

	d := diag.New(diag.SevWarning, diag.SynInvalidType, source.Span{File: fileID, Start: 4, End: 7}, "suspicious type")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 3}, "in this instruction")
	bag := diag.NewBag(10)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output Document
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	got := output.Diagnostics[0]
	if len(got.Notes) != 1 || got.Notes[0].Message != "in this instruction" {
		t.Fatalf("unexpected notes %+v", got.Notes)
	}

	buf.Reset()
	opts.IncludeNotes = false
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("in this instruction")) {
		t.Fatalf("notes leaked without IncludeNotes:\n%s", buf.String())
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ll", []byte("ret void"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 3}, "x"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Fatalf("positions must be omitted:\n%s", buf.String())
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.ll", []byte("abc"))
	bag := diag.NewBag(2)
	for i := range 3 {
		bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "x"))
	}

	out := BuildDocument(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", out.Count)
	}
	// один отброшен Bag, второй обрезан Max
	if out.Dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", out.Dropped)
	}
}
