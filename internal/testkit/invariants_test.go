package testkit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"llvet/internal/ir"
	"llvet/internal/parser"
	"llvet/internal/source"
	"llvet/internal/testkit"
	"llvet/internal/types"
)

func parseFile(t *testing.T, path string) (*ir.Module, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	be.Err(t, err, nil)
	file := fs.Get(id)
	m, err := parser.ParseModule(types.NewContext(), file, parser.Options{})
	be.Err(t, err, nil)
	return m, file
}

func TestInvariantsHoldOnCorpus(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", "*", "*.ll"))
	be.Err(t, err, nil)
	be.True(t, len(paths) > 0)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			m, file := parseFile(t, path)
			be.Err(t, testkit.CheckSpanInvariants(m, file), nil)
			be.Err(t, testkit.CheckStructure(m), nil)
		})
	}
}

func TestSpanFileMismatch(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "valid", "loop.ll")
	m, _ := parseFile(t, path)
	src, err := os.ReadFile(path)
	be.Err(t, err, nil)
	other := source.NewFileSet()
	other.AddVirtual("pad.ll", nil)
	file := other.Get(other.AddVirtual("loop.ll", src))
	be.Err(t, testkit.CheckSpanInvariants(m, file), "file mismatch")
}

func TestStructureDetectsBrokenParent(t *testing.T) {
	m, _ := parseFile(t, filepath.Join("..", "..", "testdata", "valid", "loop.ll"))
	m.Funcs[0].Blocks[1].Parent = nil
	be.Err(t, testkit.CheckStructure(m), "wrong parent function")
}

func TestNilInputs(t *testing.T) {
	be.Err(t, testkit.CheckSpanInvariants(nil, nil), "nil module")
	be.Err(t, testkit.CheckStructure(nil), "nil module")
}
