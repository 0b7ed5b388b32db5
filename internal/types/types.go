package types

import "fmt"

// TypeID uniquely identifies a type inside a Context.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindInt
	KindHalf
	KindBFloat
	KindFloat
	KindDouble
	KindX86FP80
	KindFP128
	KindPPCFP128
	KindX86AMX
	KindX86MMX
	KindLabel
	KindToken
	KindMetadata
	KindPointer
	KindArray
	KindVector
	KindStruct
	KindFunc
	KindTargetExt
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindVoid:      "void",
	KindInt:       "integer",
	KindHalf:      "half",
	KindBFloat:    "bfloat",
	KindFloat:     "float",
	KindDouble:    "double",
	KindX86FP80:   "x86_fp80",
	KindFP128:     "fp128",
	KindPPCFP128:  "ppc_fp128",
	KindX86AMX:    "x86_amx",
	KindX86MMX:    "x86_mmx",
	KindLabel:     "label",
	KindToken:     "token",
	KindMetadata:  "metadata",
	KindPointer:   "pointer",
	KindArray:     "array",
	KindVector:    "vector",
	KindStruct:    "struct",
	KindFunc:      "function",
	KindTargetExt: "target extension",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsFloat reports whether k is one of the floating-point kinds.
func (k Kind) IsFloat() bool {
	switch k {
	case KindHalf, KindBFloat, KindFloat, KindDouble, KindX86FP80, KindFP128, KindPPCFP128:
		return true
	default:
		return false
	}
}

// MaxIntWidth is the widest integer type accepted.
const MaxIntWidth = 1 << 23

// Type is a compact structural descriptor. Struct bodies, function
// signatures and target extension parameters live in side tables indexed by
// Payload, so Type stays comparable and doubles as its own intern key.
type Type struct {
	Kind      Kind
	Elem      TypeID // array/vector element, function result
	Count     uint64 // array/vector length
	Width     uint32 // integer bit width
	AddrSpace uint32 // pointer address space
	Scalable  bool   // <vscale x N x T>
	Packed    bool   // literal <{...}>
	Variadic  bool
	Named     bool   // nominal struct, Payload indexes namedInfo
	Payload   uint32 // lists / named / targets slot
}

type typeKey Type
