package metadata

import (
	"math/big"

	"llvet/internal/source"
	"llvet/internal/types"
)

// OperandKind classifies a metadata operand.
type OperandKind uint8

const (
	OpNull    OperandKind = iota // null
	OpRef                        // !N
	OpString                     // !"..."
	OpValue                      // typed constant: i32 7, ptr @g
	OpEnum                       // DW_TAG_member, DIFlagPublic | DIFlagVector
	OpInt                        // untyped integer field: line: 3
	OpBool                       // true / false
	OpInline                     // inline node such as !{...} or !DIExpression()
)

// Operand is one element of a tuple or one field of a specialised node.
type Operand struct {
	Kind OperandKind
	Ref  ID     // OpRef
	Text string // OpString unescaped contents, OpEnum words, OpValue textual value
	Type types.TypeID
	Int  *big.Int // OpInt, and OpValue when the value is an integer constant
	Node *Node    // OpInline
}

// Field is a named (line: 3) or positional operand of a specialised node.
type Field struct {
	Name string
	Op   Operand
}

// ID is a numbered metadata slot (!N).
type ID uint32

// Node is a tuple !{...} or a specialised node !DIName(...).
type Node struct {
	Distinct bool
	// Specialized is "DILocation", "DISubprogram" and so on; empty for tuples.
	Specialized string
	Elems       []Operand // tuple elements
	Fields      []Field   // specialised node fields
	Span        source.Span
}

// IsTuple reports whether n is a plain !{...} node.
func (n *Node) IsTuple() bool {
	return n != nil && n.Specialized == ""
}

// Field returns the named field of a specialised node.
func (n *Node) Field(name string) (Operand, bool) {
	if n == nil {
		return Operand{}, false
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Op, true
		}
	}
	return Operand{}, false
}
