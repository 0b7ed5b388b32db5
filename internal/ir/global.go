package ir

import (
	"llvet/internal/source"
	"llvet/internal/types"
)

type Linkage uint8

const (
	LinkageExternal Linkage = iota
	LinkagePrivate
	LinkageInternal
	LinkageAvailableExternally
	LinkageLinkonce
	LinkageWeak
	LinkageCommon
	LinkageAppending
	LinkageExternWeak
	LinkageLinkonceODR
	LinkageWeakODR
)

var linkageNames = [...]string{
	LinkageExternal:            "external",
	LinkagePrivate:             "private",
	LinkageInternal:            "internal",
	LinkageAvailableExternally: "available_externally",
	LinkageLinkonce:            "linkonce",
	LinkageWeak:                "weak",
	LinkageCommon:              "common",
	LinkageAppending:           "appending",
	LinkageExternWeak:          "extern_weak",
	LinkageLinkonceODR:         "linkonce_odr",
	LinkageWeakODR:             "weak_odr",
}

func (l Linkage) String() string { return linkageNames[l] }

// LinkageByName maps the textual keyword to a Linkage.
func LinkageByName(s string) (Linkage, bool) {
	for i, n := range linkageNames {
		if n == s {
			return Linkage(i), true
		}
	}
	return 0, false
}

// IsLocal reports private and internal linkage.
func (l Linkage) IsLocal() bool {
	return l == LinkagePrivate || l == LinkageInternal
}

type Visibility uint8

const (
	VisibilityDefault Visibility = iota
	VisibilityHidden
	VisibilityProtected
)

func (v Visibility) String() string {
	switch v {
	case VisibilityHidden:
		return "hidden"
	case VisibilityProtected:
		return "protected"
	}
	return "default"
}

type DLLStorage uint8

const (
	DLLNone DLLStorage = iota
	DLLImport
	DLLExport
)

type Preemption uint8

const (
	PreemptionUnspecified Preemption = iota
	PreemptionDSOLocal
	PreemptionDSOPreemptable
)

type UnnamedAddr uint8

const (
	UnnamedAddrNone UnnamedAddr = iota
	UnnamedAddrLocal
	UnnamedAddrGlobal
)

// ThreadLocal is the TLS model; TLSNone means not thread local.
type ThreadLocal uint8

const (
	TLSNone ThreadLocal = iota
	TLSGeneralDynamic
	TLSLocalDynamic
	TLSInitialExec
	TLSLocalExec
)

// GlobalHeader holds what every global object shares.
type GlobalHeader struct {
	Name        Name
	Typ         types.TypeID // pointer type of the global's address
	Linkage     Linkage
	Preemption  Preemption
	Visibility  Visibility
	DLL         DLLStorage
	UnnamedAddr UnnamedAddr
	ThreadLocal ThreadLocal
	AddrSpace   uint32
	Section     string
	Partition   string
	Comdat      string
	HasComdat   bool
	Align       uint64
	Attachments []Attachment
	Span        source.Span
}

func (h *GlobalHeader) Type() types.TypeID     { return h.Typ }
func (h *GlobalHeader) Header() *GlobalHeader { return h }
func (*GlobalHeader) isValue()                {}
func (*GlobalHeader) isConstant()             {}

// Global is a function, global variable, alias or ifunc.
type Global interface {
	Constant
	Header() *GlobalHeader
}

// Function is a declaration (Blocks empty) or a definition.
type Function struct {
	GlobalHeader
	Sig         types.TypeID // function type
	CallConv    string       // "" for ccc
	RetAttrs    AttrSet
	Params      []*Param
	FnAttrs     AttrSet
	AttrGroups  []uint32
	GC          string
	Prefix      Value
	Prologue    Value
	Personality Value
	Blocks      []*Block
	Declaration bool
}

// Entry returns the first block, or nil for declarations.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// GlobalVar is "@g = global T init" or a constant.
type GlobalVar struct {
	GlobalHeader
	ValueType             types.TypeID
	Init                  Value // nil for external declarations
	IsConstant            bool
	ExternallyInitialized bool
	Attrs                 AttrSet
}

// Alias is "@a = alias T, ptr @target".
type Alias struct {
	GlobalHeader
	ValueType types.TypeID
	Aliasee   Value
}

// IFunc is "@f = ifunc T, ptr @resolver".
type IFunc struct {
	GlobalHeader
	ValueType types.TypeID
	Resolver  Value
}
