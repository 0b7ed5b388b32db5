// Package testkit holds invariant checks shared by tests of the parser,
// the printer and the fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"llvet/internal/ir"
	"llvet/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed module:
// 1) every span points into sf and ends within its content
// 2) instruction spans are non-empty and strictly increasing inside a function
// 3) a block label never starts after its first instruction
func CheckSpanInvariants(m *ir.Module, sf *source.File) error {
	if m == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inFile := func(what string, sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > lenContent {
			return fmt.Errorf("%s span %v outside content of %d bytes", what, sp, lenContent)
		}
		return nil
	}

	for _, g := range m.Globals {
		if err := inFile("global "+g.Name.Global(), g.Span); err != nil {
			return err
		}
	}
	for _, f := range m.Funcs {
		fname := f.Name.Global()
		if err := inFile("function "+fname, f.Span); err != nil {
			return err
		}
		var prev source.Span
		for _, b := range f.Blocks {
			if err := inFile(fname+" block "+b.Name.Local(), b.Span); err != nil {
				return err
			}
			for i, inst := range b.Insts {
				sp := inst.Base().Span
				what := fmt.Sprintf("%s %s #%d", fname, b.Name.Local(), i)
				if err := inFile(what, sp); err != nil {
					return err
				}
				if sp.Empty() {
					return fmt.Errorf("%s: empty span", what)
				}
				if i == 0 && b.Span.Start > sp.Start {
					return fmt.Errorf("%s: block label at %d after first instruction at %d", what, b.Span.Start, sp.Start)
				}
				if !prev.Empty() && sp.Start < prev.End {
					return fmt.Errorf("%s: span %v overlaps previous %v", what, sp, prev)
				}
				prev = sp
			}
		}
	}
	return nil
}

// CheckStructure verifies parent links and that no forward-reference
// placeholder survived the parse.
func CheckStructure(m *ir.Module) error {
	if m == nil {
		return fmt.Errorf("nil module")
	}
	for _, f := range m.Funcs {
		fname := f.Name.Global()
		if f.Declaration != (len(f.Blocks) == 0) {
			return fmt.Errorf("%s: declaration=%v with %d blocks", fname, f.Declaration, len(f.Blocks))
		}
		for _, b := range f.Blocks {
			if b.Parent != f {
				return fmt.Errorf("%s %s: wrong parent function", fname, b.Name.Local())
			}
			for i, inst := range b.Insts {
				if inst.Base().Parent != b {
					return fmt.Errorf("%s %s #%d: wrong parent block", fname, b.Name.Local(), i)
				}
				for _, op := range ir.Operands(inst) {
					if ph, ok := op.(*ir.Placeholder); ok {
						return fmt.Errorf("%s %s #%d: unresolved %s", fname, b.Name.Local(), i, ph.Name.Local())
					}
				}
			}
		}
	}
	return nil
}
