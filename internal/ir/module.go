package ir

import (
	"llvet/internal/metadata"
	"llvet/internal/types"
)

// Comdat is "$name = comdat any".
type Comdat struct {
	Name string
	Kind string
}

// Module is the root of a parsed file. It owns every type (through Types),
// value and instruction reachable from it.
type Module struct {
	Types          *types.Context
	SourceFilename string
	DataLayout     string
	Triple         string
	ModuleAsm      []string
	NamedTypes     []types.TypeID // in "%T = type" order
	Comdats        []Comdat
	Globals        []*GlobalVar
	Funcs          []*Function
	Aliases        []*Alias
	IFuncs         []*IFunc
	AttrGroups     map[uint32]AttrSet
	MD             *metadata.Store
}

// NewModule creates an empty module over ctx.
func NewModule(ctx *types.Context) *Module {
	return &Module{
		Types:      ctx,
		AttrGroups: make(map[uint32]AttrSet),
		MD:         metadata.NewStore(),
	}
}

// Func returns the function with the given name.
func (m *Module) Func(name string) *Function {
	for _, f := range m.Funcs {
		if f.Name.Text == name {
			return f
		}
	}
	return nil
}

// FnAttrs returns a function's attributes with its #N groups expanded.
func (m *Module) FnAttrs(f *Function) AttrSet {
	out := f.FnAttrs
	for _, g := range f.AttrGroups {
		out = out.Merge(m.AttrGroups[g])
	}
	return out
}

// CallAttrs returns call-site function attributes with groups expanded.
func (m *Module) CallAttrs(cs *CallSite) AttrSet {
	out := cs.FnAttrs
	for _, g := range cs.FnAttrGroups {
		out = out.Merge(m.AttrGroups[g])
	}
	return out
}

// Instructions calls fn for every instruction of every defined function in
// order.
func (m *Module) Instructions(fn func(*Function, *Block, Instruction)) {
	for _, f := range m.Funcs {
		for _, b := range f.Blocks {
			for _, inst := range b.Insts {
				fn(f, b, inst)
			}
		}
	}
}
