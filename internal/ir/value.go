package ir

import (
	"llvet/internal/metadata"
	"llvet/internal/source"
	"llvet/internal/types"
)

// Value is any first-class SSA entity.
type Value interface {
	Type() types.TypeID
	isValue()
}

// Constant is a Value whose contents are known at parse time. Globals are
// constants too: their value is their address.
type Constant interface {
	Value
	isConstant()
}

// Param is a function parameter.
type Param struct {
	Name  Name
	Typ   types.TypeID
	Attrs AttrSet
	Span  source.Span
}

func (p *Param) Type() types.TypeID { return p.Typ }
func (*Param) isValue()             {}

// Placeholder stands for a global (or a phi operand) referenced before its
// definition. The parser replaces every placeholder before returning a module.
type Placeholder struct {
	Typ    types.TypeID
	Name   Name
	Global bool
	Span   source.Span
}

func (p *Placeholder) Type() types.TypeID { return p.Typ }
func (*Placeholder) isValue()             {}
func (*Placeholder) isConstant()          {}

// InlineAsm is an asm "..." , "..." callee.
type InlineAsm struct {
	Typ          types.TypeID
	Asm          string
	Constraints  string
	SideEffect   bool
	AlignStack   bool
	IntelDialect bool
	Unwind       bool
}

func (a *InlineAsm) Type() types.TypeID { return a.Typ }
func (*InlineAsm) isValue()             {}

// MetadataValue wraps metadata used as a call argument ("metadata !0").
type MetadataValue struct {
	Typ types.TypeID
	Op  metadata.Operand
}

func (m *MetadataValue) Type() types.TypeID { return m.Typ }
func (*MetadataValue) isValue()             {}

// Attachment is an instruction- or global-level "!kind !N".
type Attachment struct {
	Kind string
	Op   metadata.Operand
	Span source.Span
}
