package ir

// Opcode identifies an instruction or constant-expression operator.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// terminators
	OpRet
	OpBr
	OpSwitch
	OpIndirectBr
	OpInvoke
	OpResume
	OpUnreachable
	OpCleanupRet
	OpCatchRet
	OpCatchSwitch

	// unary / binary
	OpFNeg
	OpAdd
	OpFAdd
	OpSub
	OpFSub
	OpMul
	OpFMul
	OpUDiv
	OpSDiv
	OpFDiv
	OpURem
	OpSRem
	OpFRem
	OpShl
	OpLShr
	OpAShr
	OpAnd
	OpOr
	OpXor

	// vector / aggregate
	OpExtractElement
	OpInsertElement
	OpShuffleVector
	OpExtractValue
	OpInsertValue

	// memory
	OpAlloca
	OpLoad
	OpStore
	OpFence
	OpCmpXchg
	OpAtomicRMW
	OpGetElementPtr

	// casts
	OpTrunc
	OpZExt
	OpSExt
	OpFPTrunc
	OpFPExt
	OpFPToUI
	OpFPToSI
	OpUIToFP
	OpSIToFP
	OpPtrToInt
	OpIntToPtr
	OpBitCast
	OpAddrSpaceCast

	// other
	OpICmp
	OpFCmp
	OpPhi
	OpSelect
	OpFreeze
	OpCall
	OpVAArg
	OpLandingPad
	OpCatchPad
	OpCleanupPad

	opCount
)

var opcodeNames = [...]string{
	OpInvalid:        "<invalid>",
	OpRet:            "ret",
	OpBr:             "br",
	OpSwitch:         "switch",
	OpIndirectBr:     "indirectbr",
	OpInvoke:         "invoke",
	OpResume:         "resume",
	OpUnreachable:    "unreachable",
	OpCleanupRet:     "cleanupret",
	OpCatchRet:       "catchret",
	OpCatchSwitch:    "catchswitch",
	OpFNeg:           "fneg",
	OpAdd:            "add",
	OpFAdd:           "fadd",
	OpSub:            "sub",
	OpFSub:           "fsub",
	OpMul:            "mul",
	OpFMul:           "fmul",
	OpUDiv:           "udiv",
	OpSDiv:           "sdiv",
	OpFDiv:           "fdiv",
	OpURem:           "urem",
	OpSRem:           "srem",
	OpFRem:           "frem",
	OpShl:            "shl",
	OpLShr:           "lshr",
	OpAShr:           "ashr",
	OpAnd:            "and",
	OpOr:             "or",
	OpXor:            "xor",
	OpExtractElement: "extractelement",
	OpInsertElement:  "insertelement",
	OpShuffleVector:  "shufflevector",
	OpExtractValue:   "extractvalue",
	OpInsertValue:    "insertvalue",
	OpAlloca:         "alloca",
	OpLoad:           "load",
	OpStore:          "store",
	OpFence:          "fence",
	OpCmpXchg:        "cmpxchg",
	OpAtomicRMW:      "atomicrmw",
	OpGetElementPtr:  "getelementptr",
	OpTrunc:          "trunc",
	OpZExt:           "zext",
	OpSExt:           "sext",
	OpFPTrunc:        "fptrunc",
	OpFPExt:          "fpext",
	OpFPToUI:         "fptoui",
	OpFPToSI:         "fptosi",
	OpUIToFP:         "uitofp",
	OpSIToFP:         "sitofp",
	OpPtrToInt:       "ptrtoint",
	OpIntToPtr:       "inttoptr",
	OpBitCast:        "bitcast",
	OpAddrSpaceCast:  "addrspacecast",
	OpICmp:           "icmp",
	OpFCmp:           "fcmp",
	OpPhi:            "phi",
	OpSelect:         "select",
	OpFreeze:         "freeze",
	OpCall:           "call",
	OpVAArg:          "va_arg",
	OpLandingPad:     "landingpad",
	OpCatchPad:       "catchpad",
	OpCleanupPad:     "cleanuppad",
}

var opcodeByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for i := OpRet; i < opCount; i++ {
		m[opcodeNames[i]] = i
	}
	return m
}()

func (op Opcode) String() string {
	if op < opCount {
		return opcodeNames[op]
	}
	return opcodeNames[OpInvalid]
}

// OpcodeByName looks up an instruction mnemonic.
func OpcodeByName(s string) (Opcode, bool) {
	op, ok := opcodeByName[s]
	return op, ok
}

func (op Opcode) IsTerminator() bool { return op >= OpRet && op <= OpCatchSwitch }
func (op Opcode) IsBinary() bool     { return op >= OpAdd && op <= OpXor }
func (op Opcode) IsCast() bool       { return op >= OpTrunc && op <= OpAddrSpaceCast }

// IsFPBinary reports fadd, fsub, fmul, fdiv and frem.
func (op Opcode) IsFPBinary() bool {
	switch op {
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFRem:
		return true
	}
	return false
}

// IsShift reports shl, lshr and ashr.
func (op Opcode) IsShift() bool {
	return op == OpShl || op == OpLShr || op == OpAShr
}

// IsBitwise reports and, or and xor.
func (op Opcode) IsBitwise() bool {
	return op == OpAnd || op == OpOr || op == OpXor
}

// IsEHPad reports landingpad, catchpad, cleanuppad and catchswitch.
func (op Opcode) IsEHPad() bool {
	switch op {
	case OpLandingPad, OpCatchPad, OpCleanupPad, OpCatchSwitch:
		return true
	}
	return false
}

// ArithFlags are poison-generating flags on arithmetic and casts.
type ArithFlags uint8

const (
	FlagNUW ArithFlags = 1 << iota
	FlagNSW
	FlagExact
	FlagDisjoint
	FlagNNeg
)

// FastMath holds floating-point fast-math flags.
type FastMath uint8

const (
	FMNNaN FastMath = 1 << iota
	FMNInf
	FMNSZ
	FMARcp
	FMContract
	FMAFn
	FMReassoc
	FMFast = FMNNaN | FMNInf | FMNSZ | FMARcp | FMContract | FMAFn | FMReassoc
)

var fastMathNames = []struct {
	flag FastMath
	name string
}{
	{FMNNaN, "nnan"}, {FMNInf, "ninf"}, {FMNSZ, "nsz"}, {FMARcp, "arcp"},
	{FMContract, "contract"}, {FMAFn, "afn"}, {FMReassoc, "reassoc"},
}

// FastMathByName maps one flag word; "fast" sets all of them.
func FastMathByName(s string) (FastMath, bool) {
	if s == "fast" {
		return FMFast, true
	}
	for _, f := range fastMathNames {
		if f.name == s {
			return f.flag, true
		}
	}
	return 0, false
}

// Words renders the flags in canonical order.
func (fm FastMath) Words() []string {
	if fm == FMFast {
		return []string{"fast"}
	}
	var out []string
	for _, f := range fastMathNames {
		if fm&f.flag != 0 {
			out = append(out, f.name)
		}
	}
	return out
}

// Ordering is an atomic memory ordering.
type Ordering uint8

const (
	NotAtomic Ordering = iota
	Unordered
	Monotonic
	Acquire
	Release
	AcqRel
	SeqCst
)

var orderingNames = [...]string{
	NotAtomic: "",
	Unordered: "unordered",
	Monotonic: "monotonic",
	Acquire:   "acquire",
	Release:   "release",
	AcqRel:    "acq_rel",
	SeqCst:    "seq_cst",
}

func (o Ordering) String() string { return orderingNames[o] }

// OrderingByName parses an ordering keyword.
func OrderingByName(s string) (Ordering, bool) {
	for i := Unordered; i <= SeqCst; i++ {
		if orderingNames[i] == s {
			return i, true
		}
	}
	return NotAtomic, false
}

// TailKind is the tail-call marker on a call.
type TailKind uint8

const (
	TailNone TailKind = iota
	TailTail
	TailMust
	TailNo
)

func (k TailKind) String() string {
	switch k {
	case TailTail:
		return "tail"
	case TailMust:
		return "musttail"
	case TailNo:
		return "notail"
	}
	return ""
}

// ICmpPredicates and FCmpPredicates list valid comparison predicates.
var (
	ICmpPredicates = map[string]bool{
		"eq": true, "ne": true, "ugt": true, "uge": true, "ult": true,
		"ule": true, "sgt": true, "sge": true, "slt": true, "sle": true,
	}
	FCmpPredicates = map[string]bool{
		"false": true, "oeq": true, "ogt": true, "oge": true, "olt": true,
		"ole": true, "one": true, "ord": true, "ueq": true, "ugt": true,
		"uge": true, "ult": true, "ule": true, "une": true, "uno": true, "true": true,
	}
)

// AtomicRMWOps lists atomicrmw operations; the value selects the operand
// class: 'i' integer, 'f' floating point, 'x' integer, pointer or float.
var AtomicRMWOps = map[string]byte{
	"xchg": 'x', "add": 'i', "sub": 'i', "and": 'i', "nand": 'i', "or": 'i',
	"xor": 'i', "max": 'i', "min": 'i', "umax": 'i', "umin": 'i',
	"fadd": 'f', "fsub": 'f', "fmax": 'f', "fmin": 'f',
	"uinc_wrap": 'i', "udec_wrap": 'i', "usub_cond": 'i', "usub_sat": 'i',
}
