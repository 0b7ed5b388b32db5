package symbols

import (
	"sort"

	"llvet/internal/ir"
	"llvet/internal/source"
	"llvet/internal/types"
)

// Globals is the module scope: @name to global. References to globals not
// yet defined get placeholders typed by the use site; Finish matches them
// against the definitions.
type Globals struct {
	num   numbering
	defs  map[ir.Name]ir.Global
	order []ir.Global
	fwd   map[ir.Name][]*ir.Placeholder
}

// NewGlobals creates an empty module scope.
func NewGlobals() *Globals {
	return &Globals{
		defs: make(map[ir.Name]ir.Global),
		fwd:  make(map[ir.Name][]*ir.Placeholder),
	}
}

// Name validates or assigns the name of a global about to be defined.
func (g *Globals) Name(name ir.Name) (ir.Name, error) {
	name, err := g.num.take(name)
	if err != nil {
		return name, err
	}
	if _, dup := g.defs[name]; dup {
		return name, ErrRedefinition
	}
	return name, nil
}

// Define binds a global under its (already validated) header name.
func (g *Globals) Define(v ir.Global) error {
	name := v.Header().Name
	if _, dup := g.defs[name]; dup {
		return ErrRedefinition
	}
	g.defs[name] = v
	g.order = append(g.order, v)
	return nil
}

// Lookup returns a defined global.
func (g *Globals) Lookup(name ir.Name) (ir.Global, bool) {
	v, ok := g.defs[name]
	return v, ok
}

// Ref returns the global bound to name or a placeholder of typ.
func (g *Globals) Ref(name ir.Name, typ types.TypeID, sp source.Span) ir.Value {
	if v, ok := g.defs[name]; ok {
		return v
	}
	for _, ph := range g.fwd[name] {
		if ph.Typ == typ {
			return ph
		}
	}
	ph := &ir.Placeholder{Typ: typ, Name: name, Global: true, Span: sp}
	g.fwd[name] = append(g.fwd[name], ph)
	return ph
}

// Len returns the number of defined globals.
func (g *Globals) Len() int { return len(g.order) }

// Finish resolves every placeholder. It returns the replacement map for
// ir.Module.Rewrite and the references that could not be resolved, sorted
// by position.
func (g *Globals) Finish() (map[*ir.Placeholder]ir.Value, []Unresolved) {
	repl := make(map[*ir.Placeholder]ir.Value)
	var bad []Unresolved
	for name, phs := range g.fwd {
		def, ok := g.defs[name]
		for _, ph := range phs {
			switch {
			case !ok:
				bad = append(bad, Unresolved{Kind: UnresolvedValue, Scope: ScopeModule, Name: name, Span: ph.Span, Want: ph.Typ})
			case def.Type() != ph.Typ:
				bad = append(bad, Unresolved{Kind: UnresolvedType, Scope: ScopeModule, Name: name, Span: ph.Span, Want: ph.Typ, Got: def.Type()})
			default:
				repl[ph] = def
			}
		}
	}
	sortUnresolved(bad)
	return repl, bad
}

func sortUnresolved(list []Unresolved) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Span.File != list[j].Span.File {
			return list[i].Span.File < list[j].Span.File
		}
		return list[i].Span.Start < list[j].Span.Start
	})
}
