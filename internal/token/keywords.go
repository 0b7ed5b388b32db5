package token

// KeywordClass groups bare words by grammatical role. A word may belong to
// several classes ("align" is both a modifier and an attribute), in which case
// LookupKeyword reports the set.
type KeywordClass uint16

const (
	ClassType KeywordClass = 1 << iota
	ClassOpcode
	ClassLinkage
	ClassVisibility
	ClassCallConv
	ClassAttribute
	ClassConstant
	ClassModifier
)

var keywords = map[string]KeywordClass{
	// types
	"void": ClassType, "half": ClassType, "bfloat": ClassType, "float": ClassType,
	"double": ClassType, "x86_fp80": ClassType, "fp128": ClassType, "ppc_fp128": ClassType,
	"x86_amx": ClassType, "x86_mmx": ClassType, "label": ClassType, "token": ClassType,
	"metadata": ClassType, "ptr": ClassType, "opaque": ClassType, "target": ClassType,

	// opcodes
	"ret": ClassOpcode, "br": ClassOpcode, "switch": ClassOpcode, "indirectbr": ClassOpcode,
	"invoke": ClassOpcode, "resume": ClassOpcode, "unreachable": ClassOpcode,
	"cleanupret": ClassOpcode, "catchret": ClassOpcode, "catchswitch": ClassOpcode,
	"fneg": ClassOpcode,
	"add": ClassOpcode, "fadd": ClassOpcode, "sub": ClassOpcode, "fsub": ClassOpcode,
	"mul": ClassOpcode, "fmul": ClassOpcode, "udiv": ClassOpcode, "sdiv": ClassOpcode,
	"fdiv": ClassOpcode, "urem": ClassOpcode, "srem": ClassOpcode, "frem": ClassOpcode,
	"shl": ClassOpcode, "lshr": ClassOpcode, "ashr": ClassOpcode, "and": ClassOpcode,
	"or": ClassOpcode, "xor": ClassOpcode,
	"extractelement": ClassOpcode, "insertelement": ClassOpcode, "shufflevector": ClassOpcode,
	"extractvalue": ClassOpcode, "insertvalue": ClassOpcode,
	"alloca": ClassOpcode, "load": ClassOpcode, "store": ClassOpcode, "fence": ClassOpcode,
	"cmpxchg": ClassOpcode, "atomicrmw": ClassOpcode, "getelementptr": ClassOpcode,
	"trunc": ClassOpcode, "zext": ClassOpcode, "sext": ClassOpcode, "fptrunc": ClassOpcode,
	"fpext": ClassOpcode, "fptoui": ClassOpcode, "fptosi": ClassOpcode, "uitofp": ClassOpcode,
	"sitofp": ClassOpcode, "ptrtoint": ClassOpcode, "inttoptr": ClassOpcode,
	"bitcast": ClassOpcode, "addrspacecast": ClassOpcode,
	"icmp": ClassOpcode, "fcmp": ClassOpcode, "phi": ClassOpcode, "select": ClassOpcode,
	"freeze": ClassOpcode, "call": ClassOpcode, "va_arg": ClassOpcode,
	"landingpad": ClassOpcode, "catchpad": ClassOpcode, "cleanuppad": ClassOpcode,

	// linkage
	"private": ClassLinkage, "internal": ClassLinkage, "available_externally": ClassLinkage,
	"linkonce": ClassLinkage, "weak": ClassLinkage, "common": ClassLinkage,
	"appending": ClassLinkage, "extern_weak": ClassLinkage, "linkonce_odr": ClassLinkage,
	"weak_odr": ClassLinkage, "external": ClassLinkage,

	// visibility
	"default": ClassVisibility, "hidden": ClassVisibility, "protected": ClassVisibility,

	// calling conventions
	"ccc": ClassCallConv, "fastcc": ClassCallConv, "coldcc": ClassCallConv,
	"tailcc": ClassCallConv, "swiftcc": ClassCallConv, "swifttailcc": ClassCallConv,
	"ghccc": ClassCallConv, "preserve_mostcc": ClassCallConv, "preserve_allcc": ClassCallConv,
	"cxx_fast_tlscc": ClassCallConv, "webkit_jscc": ClassCallConv, "anyregcc": ClassCallConv,
	"x86_stdcallcc": ClassCallConv, "x86_fastcallcc": ClassCallConv, "x86_thiscallcc": ClassCallConv,
	"x86_vectorcallcc": ClassCallConv, "arm_apcscc": ClassCallConv, "arm_aapcscc": ClassCallConv,
	"arm_aapcs_vfpcc": ClassCallConv, "aarch64_vector_pcs": ClassCallConv,
	"win64cc": ClassCallConv, "x86_64_sysvcc": ClassCallConv, "cc": ClassCallConv,
	"amdgpu_kernel": ClassCallConv, "spir_func": ClassCallConv, "spir_kernel": ClassCallConv,
	"ptx_kernel": ClassCallConv, "ptx_device": ClassCallConv,

	// constants
	"true": ClassConstant, "false": ClassConstant, "null": ClassConstant, "none": ClassConstant,
	"undef": ClassConstant, "poison": ClassConstant, "zeroinitializer": ClassConstant,
	"blockaddress": ClassConstant, "dso_local_equivalent": ClassConstant, "no_cfi": ClassConstant,
	"asm": ClassConstant,

	// structural / modifiers
	"define": ClassModifier, "declare": ClassModifier, "global": ClassModifier,
	"constant": ClassModifier, "type": ClassModifier, "alias": ClassModifier,
	"ifunc": ClassModifier, "attributes": ClassModifier, "comdat": ClassModifier,
	"section": ClassModifier, "partition": ClassModifier, "align": ClassModifier | ClassAttribute,
	"addrspace": ClassModifier, "unnamed_addr": ClassModifier, "local_unnamed_addr": ClassModifier,
	"dso_local": ClassModifier, "dso_preemptable": ClassModifier, "thread_local": ClassModifier,
	"externally_initialized": ClassModifier, "dllimport": ClassModifier, "dllexport": ClassModifier,
	"gc": ClassModifier, "prefix": ClassModifier, "prologue": ClassModifier,
	"personality": ClassModifier, "to": ClassModifier, "x": ClassModifier, "vscale": ClassModifier,
	"source_filename": ClassModifier, "datalayout": ClassModifier, "triple": ClassModifier,
	"module": ClassModifier, "distinct": ClassModifier, "volatile": ClassModifier,
	"atomic": ClassModifier, "weak_cmpxchg": ClassModifier, "inbounds": ClassModifier,
	"inrange": ClassModifier, "tail": ClassModifier, "musttail": ClassModifier,
	"notail": ClassModifier, "within": ClassModifier, "unwind": ClassModifier,
	"caller": ClassModifier, "cleanup": ClassModifier, "catch": ClassModifier,
	"filter": ClassModifier, "from": ClassModifier, "syncscope": ClassModifier,
	"nuw": ClassModifier, "nsw": ClassModifier, "exact": ClassModifier, "disjoint": ClassModifier,
	"nneg": ClassModifier, "samesize": ClassModifier,
	"unordered": ClassModifier, "monotonic": ClassModifier, "acquire": ClassModifier,
	"release": ClassModifier, "acq_rel": ClassModifier, "seq_cst": ClassModifier,

	// common attributes (parameter, return, function)
	"byval": ClassAttribute, "byref": ClassAttribute, "sret": ClassAttribute,
	"inalloca": ClassAttribute, "preallocated": ClassAttribute, "nocapture": ClassAttribute,
	"nonnull": ClassAttribute, "noalias": ClassAttribute, "readonly": ClassAttribute,
	"readnone": ClassAttribute, "writeonly": ClassAttribute, "zeroext": ClassAttribute,
	"signext": ClassAttribute, "inreg": ClassAttribute, "returned": ClassAttribute,
	"noundef": ClassAttribute, "nofree": ClassAttribute, "nest": ClassAttribute,
	"swiftself": ClassAttribute, "swifterror": ClassAttribute, "swiftasync": ClassAttribute,
	"immarg": ClassAttribute, "dereferenceable": ClassAttribute,
	"dereferenceable_or_null": ClassAttribute, "elementtype": ClassAttribute,
	"nounwind": ClassAttribute, "noreturn": ClassAttribute, "noinline": ClassAttribute,
	"alwaysinline": ClassAttribute, "inlinehint": ClassAttribute, "optnone": ClassAttribute,
	"optsize": ClassAttribute, "minsize": ClassAttribute, "naked": ClassAttribute,
	"cold": ClassAttribute, "hot": ClassAttribute, "willreturn": ClassAttribute,
	"mustprogress": ClassAttribute, "norecurse": ClassAttribute, "nosync": ClassAttribute,
	"uwtable": ClassAttribute, "ssp": ClassAttribute, "sspstrong": ClassAttribute,
	"sspreq": ClassAttribute, "argmemonly": ClassAttribute, "memory": ClassAttribute,
	"builtin": ClassAttribute, "nobuiltin": ClassAttribute, "convergent": ClassAttribute,
	"speculatable": ClassAttribute, "allocsize": ClassAttribute, "returns_twice": ClassAttribute,
	"nomerge": ClassAttribute, "noduplicate": ClassAttribute, "strictfp": ClassAttribute,
	"sanitize_address": ClassAttribute, "sanitize_thread": ClassAttribute,
	"sanitize_memory": ClassAttribute, "nocf_check": ClassAttribute, "noprofile": ClassAttribute,
	"nocallback": ClassAttribute, "alignstack": ClassAttribute, "allockind": ClassAttribute,
	"vscale_range": ClassAttribute, "uwtable_sync": ClassAttribute, "noimplicitfloat": ClassAttribute,
	"nonlazybind": ClassAttribute, "jumptable": ClassAttribute, "safestack": ClassAttribute,
	"shadowcallstack": ClassAttribute, "speculative_load_hardening": ClassAttribute,
	"writable": ClassAttribute, "dead_on_unwind": ClassAttribute, "range": ClassAttribute,
	"nofpclass": ClassAttribute, "initializes": ClassAttribute, "captures": ClassAttribute,
}

// LookupKeyword returns the classes of a bare word. Unknown words report (0, false).
// Keywords are case-sensitive.
func LookupKeyword(word string) (KeywordClass, bool) {
	c, ok := keywords[word]
	return c, ok
}

// Is reports whether word belongs to class c.
func Is(word string, c KeywordClass) bool {
	return keywords[word]&c != 0
}
