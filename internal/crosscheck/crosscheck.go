// Package crosscheck compares a parsed module with github.com/llir/llvm's
// reading of the same text.
//
// Сравниваются только счётчики сущностей: llir строит своё дерево, и
// поэлементное сравнение потребовало бы второго принтера.
package crosscheck

import (
	"fmt"

	"github.com/llir/llvm/asm"
	llir "github.com/llir/llvm/ir"

	"llvet/internal/ir"
)

// Counts summarises a module.
type Counts struct {
	NamedTypes   int
	Globals      int
	Aliases      int
	IFuncs       int
	Functions    int
	Declarations int
	Blocks       int
	Instructions int
}

var fields = []struct {
	name string
	get  func(Counts) int
}{
	{"named types", func(c Counts) int { return c.NamedTypes }},
	{"globals", func(c Counts) int { return c.Globals }},
	{"aliases", func(c Counts) int { return c.Aliases }},
	{"ifuncs", func(c Counts) int { return c.IFuncs }},
	{"functions", func(c Counts) int { return c.Functions }},
	{"declarations", func(c Counts) int { return c.Declarations }},
	{"blocks", func(c Counts) int { return c.Blocks }},
	{"instructions", func(c Counts) int { return c.Instructions }},
}

// FromModule counts m. Terminators are instructions.
func FromModule(m *ir.Module) Counts {
	c := Counts{
		NamedTypes: len(m.NamedTypes),
		Globals:    len(m.Globals),
		Aliases:    len(m.Aliases),
		IFuncs:     len(m.IFuncs),
		Functions:  len(m.Funcs),
	}
	for _, f := range m.Funcs {
		if f.Declaration {
			c.Declarations++
			continue
		}
		c.Blocks += len(f.Blocks)
		for _, b := range f.Blocks {
			c.Instructions += len(b.Insts)
		}
	}
	return c
}

// FromLLIR parses src with llir/llvm and counts the result.
func FromLLIR(name string, src []byte) (Counts, error) {
	m, err := asm.ParseString(name, string(src))
	if err != nil {
		return Counts{}, fmt.Errorf("llir: %w", err)
	}
	return fromLLIR(m), nil
}

func fromLLIR(m *llir.Module) Counts {
	c := Counts{
		NamedTypes: len(m.TypeDefs),
		Globals:    len(m.Globals),
		Aliases:    len(m.Aliases),
		IFuncs:     len(m.IFuncs),
		Functions:  len(m.Funcs),
	}
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			c.Declarations++
			continue
		}
		c.Blocks += len(f.Blocks)
		for _, b := range f.Blocks {
			c.Instructions += len(b.Insts)
			if b.Term != nil {
				c.Instructions++
			}
		}
	}
	return c
}

// Mismatch is one differing counter.
type Mismatch struct {
	Field  string
	Ours   int
	Theirs int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: llvet %d, llir %d", m.Field, m.Ours, m.Theirs)
}

// Compare lists the counters that differ, in a fixed order.
func Compare(ours, theirs Counts) []Mismatch {
	var out []Mismatch
	for _, f := range fields {
		if a, b := f.get(ours), f.get(theirs); a != b {
			out = append(out, Mismatch{Field: f.name, Ours: a, Theirs: b})
		}
	}
	return out
}

// Result is the outcome of Check.
type Result struct {
	Ours       Counts
	Theirs     Counts
	Mismatches []Mismatch
	// LLIRErr is set when llir rejected the text; Theirs is zero then.
	LLIRErr error
}

// Agree reports that llir parsed the text and every counter matched.
func (r *Result) Agree() bool {
	return r.LLIRErr == nil && len(r.Mismatches) == 0
}

// Check compares m, parsed from src, with llir's reading of src.
func Check(name string, src []byte, m *ir.Module) *Result {
	res := &Result{Ours: FromModule(m)}
	theirs, err := FromLLIR(name, src)
	if err != nil {
		res.LLIRErr = err
		return res
	}
	res.Theirs = theirs
	res.Mismatches = Compare(res.Ours, theirs)
	return res
}

// Rows renders the table printed by "llvet crosscheck".
func (r *Result) Rows() [][3]string {
	rows := make([][3]string, 0, len(fields))
	for _, f := range fields {
		theirs := fmt.Sprint(f.get(r.Theirs))
		if r.LLIRErr != nil {
			theirs = "-"
		}
		rows = append(rows, [3]string{f.name, fmt.Sprint(f.get(r.Ours)), theirs})
	}
	return rows
}
