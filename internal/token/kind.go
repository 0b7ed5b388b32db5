package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	LocalVar    // %name, %"quoted name"
	LocalID     // %12
	GlobalVar   // @name, @"quoted name"
	GlobalID    // @12
	MetadataVar // !name, !llvm.module.flags, !DILocation
	MetadataID  // !12
	AttrGroupID // #0
	ComdatVar   // $name
	Label       // name: / 12: / "quoted":

	// Keyword is any bare word that is not an integer type.
	Keyword
	// IntType is iN.
	IntType

	IntLit    // -?[0-9]+
	FloatLit  // 1.5e3, 0x3FF0000000000000, 0xK..., 0xH...
	StringLit // "..."
	CStringLit

	Equal     // =
	Comma     // ,
	Star      // *
	Bar       // |
	Exclaim   // ! not followed by a name or digits
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Less      // <
	Greater   // >
	DotDotDot // ...
)

var kindNames = [...]string{
	Invalid:     "invalid",
	EOF:         "end of file",
	LocalVar:    "local name",
	LocalID:     "local id",
	GlobalVar:   "global name",
	GlobalID:    "global id",
	MetadataVar: "metadata name",
	MetadataID:  "metadata id",
	AttrGroupID: "attribute group",
	ComdatVar:   "comdat name",
	Label:       "label",
	Keyword:     "keyword",
	IntType:     "integer type",
	IntLit:      "integer literal",
	FloatLit:    "float literal",
	StringLit:   "string literal",
	CStringLit:  "c-string literal",
	Equal:       "'='",
	Comma:       "','",
	Star:        "'*'",
	Bar:         "'|'",
	Exclaim:     "'!'",
	LParen:      "'('",
	RParen:      "')'",
	LBracket:    "'['",
	RBracket:    "']'",
	LBrace:      "'{'",
	RBrace:      "'}'",
	Less:        "'<'",
	Greater:     "'>'",
	DotDotDot:   "'...'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsEOF reports whether k marks the end of input.
func (k Kind) IsEOF() bool { return k == EOF }
