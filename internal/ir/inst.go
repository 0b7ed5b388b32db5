package ir

import (
	"llvet/internal/source"
	"llvet/internal/types"
)

// Instruction is implemented only by the variants in this file.
type Instruction interface {
	Value
	Opcode() Opcode
	Base() *InstBase
	isInstruction()
}

// InstBase is embedded by every instruction.
type InstBase struct {
	Name        Name
	Typ         types.TypeID // result type; void for instructions without one
	Parent      *Block
	Span        source.Span
	Attachments []Attachment
}

func (b *InstBase) Type() types.TypeID { return b.Typ }
func (b *InstBase) Base() *InstBase    { return b }
func (*InstBase) isValue()             {}
func (*InstBase) isInstruction()       {}

// Attachment returns the metadata attached under kind.
func (b *InstBase) Attachment(kind string) (Attachment, bool) {
	for _, a := range b.Attachments {
		if a.Kind == kind {
			return a, true
		}
	}
	return Attachment{}, false
}

// ===== terminators =====

// Ret returns Val, or nothing when Val is nil.
type Ret struct {
	InstBase
	Val Value
}

// Br is unconditional when Cond is nil; then only True is set.
type Br struct {
	InstBase
	Cond  Value
	True  *Block
	False *Block
}

type Case struct {
	Val  Value
	Dest *Block
}

type Switch struct {
	InstBase
	Cond    Value
	Default *Block
	Cases   []Case
}

type IndirectBr struct {
	InstBase
	Addr  Value
	Dests []*Block
}

type Invoke struct {
	InstBase
	CallSite
	Normal *Block
	Unwind *Block
}

type Resume struct {
	InstBase
	Val Value
}

type Unreachable struct {
	InstBase
}

// CleanupRet unwinds to Unwind, or to the caller when Unwind is nil.
type CleanupRet struct {
	InstBase
	Pad    Value
	Unwind *Block
}

type CatchRet struct {
	InstBase
	Pad  Value
	Dest *Block
}

// CatchSwitch unwinds to Unwind, or to the caller when Unwind is nil.
// Within is "none" or a parent pad.
type CatchSwitch struct {
	InstBase
	Within   Value
	Handlers []*Block
	Unwind   *Block
}

// ===== arithmetic =====

type UnaryOp struct {
	InstBase
	Op       Opcode
	X        Value
	FastMath FastMath
}

type BinaryOp struct {
	InstBase
	Op       Opcode
	X, Y     Value
	Flags    ArithFlags
	FastMath FastMath
}

// ===== vector / aggregate =====

type ExtractElement struct {
	InstBase
	Vec, Index Value
}

type InsertElement struct {
	InstBase
	Vec, Elem, Index Value
}

type ShuffleVector struct {
	InstBase
	X, Y Value
	Mask Value
}

type ExtractValue struct {
	InstBase
	Agg     Value
	Indices []uint64
}

type InsertValue struct {
	InstBase
	Agg, Elem Value
	Indices   []uint64
}

// ===== memory =====

// Alloca allocates Count (nil means one) elements of ElemType.
type Alloca struct {
	InstBase
	ElemType  types.TypeID
	Count     Value
	Align     uint64
	AddrSpace uint32
	InAlloca  bool
}

type Load struct {
	InstBase
	ElemType  types.TypeID
	Ptr       Value
	Volatile  bool
	Atomic    bool
	Ordering  Ordering
	SyncScope string
	Align     uint64
}

type Store struct {
	InstBase
	Val, Ptr  Value
	Volatile  bool
	Atomic    bool
	Ordering  Ordering
	SyncScope string
	Align     uint64
}

type Fence struct {
	InstBase
	Ordering  Ordering
	SyncScope string
}

type CmpXchg struct {
	InstBase
	Ptr, Cmp, New Value
	Weak          bool
	Volatile      bool
	Success       Ordering
	Failure       Ordering
	SyncScope     string
	Align         uint64
}

type AtomicRMW struct {
	InstBase
	RMWOp     string
	Ptr, Val  Value
	Volatile  bool
	Ordering  Ordering
	SyncScope string
	Align     uint64
}

type GetElementPtr struct {
	InstBase
	SrcType  types.TypeID
	Ptr      Value
	Indices  []Value
	InBounds bool
}

// ===== casts and comparisons =====

type Cast struct {
	InstBase
	Op    Opcode
	X     Value
	To    types.TypeID
	Flags ArithFlags
}

// Cmp is icmp or fcmp; Pred is the predicate keyword as written.
type Cmp struct {
	InstBase
	Op       Opcode
	Pred     string
	X, Y     Value
	FastMath FastMath
	SameSign bool
}

// ===== other =====

type Incoming struct {
	Val   Value
	Block *Block
}

type Phi struct {
	InstBase
	Incoming []Incoming
	FastMath FastMath
}

type Select struct {
	InstBase
	Cond, X, Y Value
	FastMath   FastMath
}

type Freeze struct {
	InstBase
	X Value
}

// Arg is a call argument with its attributes.
type Arg struct {
	Val   Value
	Attrs AttrSet
}

// Bundle is an operand bundle: [ "deopt"(i32 1) ].
type Bundle struct {
	Tag    string
	Inputs []Value
}

// CallSite is shared by call and invoke.
type CallSite struct {
	CallConv     string
	RetAttrs     AttrSet
	FnType       types.TypeID
	Callee       Value
	Args         []Arg
	FnAttrs      AttrSet
	FnAttrGroups []uint32
	Bundles      []Bundle
	FastMath     FastMath
}

type Call struct {
	InstBase
	Tail TailKind
	CallSite
}

type VAArg struct {
	InstBase
	List Value
	To   types.TypeID
}

// Clause is a landingpad "catch" or "filter" clause.
type Clause struct {
	Filter bool
	Val    Value
}

type LandingPad struct {
	InstBase
	Cleanup bool
	Clauses []Clause
}

// FuncletPad is catchpad (Within is the catchswitch) or cleanuppad.
type FuncletPad struct {
	InstBase
	Op     Opcode
	Within Value
	Args   []Value
}

func (*Ret) Opcode() Opcode            { return OpRet }
func (*Br) Opcode() Opcode             { return OpBr }
func (*Switch) Opcode() Opcode         { return OpSwitch }
func (*IndirectBr) Opcode() Opcode     { return OpIndirectBr }
func (*Invoke) Opcode() Opcode         { return OpInvoke }
func (*Resume) Opcode() Opcode         { return OpResume }
func (*Unreachable) Opcode() Opcode    { return OpUnreachable }
func (*CleanupRet) Opcode() Opcode     { return OpCleanupRet }
func (*CatchRet) Opcode() Opcode       { return OpCatchRet }
func (*CatchSwitch) Opcode() Opcode    { return OpCatchSwitch }
func (i *UnaryOp) Opcode() Opcode      { return i.Op }
func (i *BinaryOp) Opcode() Opcode     { return i.Op }
func (*ExtractElement) Opcode() Opcode { return OpExtractElement }
func (*InsertElement) Opcode() Opcode  { return OpInsertElement }
func (*ShuffleVector) Opcode() Opcode  { return OpShuffleVector }
func (*ExtractValue) Opcode() Opcode   { return OpExtractValue }
func (*InsertValue) Opcode() Opcode    { return OpInsertValue }
func (*Alloca) Opcode() Opcode         { return OpAlloca }
func (*Load) Opcode() Opcode           { return OpLoad }
func (*Store) Opcode() Opcode          { return OpStore }
func (*Fence) Opcode() Opcode          { return OpFence }
func (*CmpXchg) Opcode() Opcode        { return OpCmpXchg }
func (*AtomicRMW) Opcode() Opcode      { return OpAtomicRMW }
func (*GetElementPtr) Opcode() Opcode  { return OpGetElementPtr }
func (i *Cast) Opcode() Opcode         { return i.Op }
func (i *Cmp) Opcode() Opcode          { return i.Op }
func (*Phi) Opcode() Opcode            { return OpPhi }
func (*Select) Opcode() Opcode         { return OpSelect }
func (*Freeze) Opcode() Opcode         { return OpFreeze }
func (*Call) Opcode() Opcode           { return OpCall }
func (*VAArg) Opcode() Opcode          { return OpVAArg }
func (*LandingPad) Opcode() Opcode     { return OpLandingPad }
func (i *FuncletPad) Opcode() Opcode   { return i.Op }

// IsTerminator reports whether inst ends a block.
func IsTerminator(inst Instruction) bool {
	return inst.Opcode().IsTerminator()
}

// CallSiteOf returns the call site of a call or invoke.
func CallSiteOf(inst Instruction) (*CallSite, bool) {
	switch in := inst.(type) {
	case *Call:
		return &in.CallSite, true
	case *Invoke:
		return &in.CallSite, true
	}
	return nil, false
}
