package symbols

import (
	"llvet/internal/ir"
	"llvet/internal/source"
	"llvet/internal/types"
)

// Locals is the scope of one function body: parameters, instruction results
// and blocks share a single namespace and a single numbering sequence.
//
// Values must be defined before use, except as phi incoming values, which
// may refer forward and are patched by Finish. Blocks may always be
// referenced forward.
type Locals struct {
	num     numbering
	values  map[ir.Name]ir.Value
	blocks  map[ir.Name]*ir.Block
	defined map[*ir.Block]bool
	pending []*ir.Block // forward-referenced, in first-use order
	phis    []*ir.Placeholder
	label   types.TypeID
}

// NewLocals opens a function scope; label is the context's label type.
func NewLocals(label types.TypeID) *Locals {
	return &Locals{
		values:  make(map[ir.Name]ir.Value),
		blocks:  make(map[ir.Name]*ir.Block),
		defined: make(map[*ir.Block]bool),
		label:   label,
	}
}

// Define binds a parameter or instruction result. An unset name gets the
// next number; the final name is returned.
func (l *Locals) Define(name ir.Name, v ir.Value) (ir.Name, error) {
	name, err := l.num.take(name)
	if err != nil {
		return name, err
	}
	if _, dup := l.values[name]; dup {
		return name, ErrRedefinition
	}
	l.values[name] = v
	return name, nil
}

// Lookup returns a defined local value (blocks included).
func (l *Locals) Lookup(name ir.Name) (ir.Value, bool) {
	v, ok := l.values[name]
	return v, ok
}

// DeferPhi returns a placeholder for a phi operand that is not defined yet.
func (l *Locals) DeferPhi(name ir.Name, typ types.TypeID, sp source.Span) *ir.Placeholder {
	ph := &ir.Placeholder{Typ: typ, Name: name, Span: sp}
	l.phis = append(l.phis, ph)
	return ph
}

// Block returns the block named name, creating a forward placeholder on
// first reference.
func (l *Locals) Block(name ir.Name, sp source.Span) *ir.Block {
	if b, ok := l.blocks[name]; ok {
		return b
	}
	b := &ir.Block{Name: name, Typ: l.label, Span: sp}
	l.blocks[name] = b
	l.pending = append(l.pending, b)
	return b
}

// DefineBlock materialises the block that starts at sp. Unnamed blocks take
// the next number.
func (l *Locals) DefineBlock(name ir.Name, sp source.Span) (*ir.Block, error) {
	name, err := l.num.take(name)
	if err != nil {
		return nil, err
	}
	b, ok := l.blocks[name]
	if ok && l.defined[b] {
		return nil, ErrRedefinition
	}
	if _, dup := l.values[name]; dup && !ok {
		return nil, ErrRedefinition
	}
	if !ok {
		b = &ir.Block{Name: name, Typ: l.label}
		l.blocks[name] = b
	}
	b.Span = sp
	l.defined[b] = true
	l.values[name] = b
	return b, nil
}

// Next returns the number the next unnamed local will get.
func (l *Locals) Next() uint32 { return l.num.Next() }

// Finish closes the scope: phi placeholders are replaced inside fn and
// every reference that stays unresolved is returned in source order.
func (l *Locals) Finish(fn *ir.Function) []Unresolved {
	var bad []Unresolved
	for _, b := range l.pending {
		if !l.defined[b] {
			bad = append(bad, Unresolved{Kind: UnresolvedBlock, Scope: ScopeFunction, Name: b.Name, Span: b.Span, Want: l.label})
		}
	}
	repl := make(map[*ir.Placeholder]ir.Value, len(l.phis))
	for _, ph := range l.phis {
		def, ok := l.values[ph.Name]
		switch {
		case !ok:
			bad = append(bad, Unresolved{Kind: UnresolvedValue, Scope: ScopeFunction, Name: ph.Name, Span: ph.Span, Want: ph.Typ})
		case def.Type() != ph.Typ:
			bad = append(bad, Unresolved{Kind: UnresolvedType, Scope: ScopeFunction, Name: ph.Name, Span: ph.Span, Want: ph.Typ, Got: def.Type()})
		default:
			repl[ph] = def
		}
	}
	if len(repl) > 0 && fn != nil {
		for _, b := range fn.Blocks {
			for _, inst := range b.Insts {
				phi, ok := inst.(*ir.Phi)
				if !ok {
					continue
				}
				for i := range phi.Incoming {
					if ph, ok := phi.Incoming[i].Val.(*ir.Placeholder); ok {
						if v, ok := repl[ph]; ok {
							phi.Incoming[i].Val = v
						}
					}
				}
			}
		}
	}
	sortUnresolved(bad)
	return bad
}
