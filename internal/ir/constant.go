package ir

import (
	"math/big"

	"llvet/internal/types"
)

// ConstInt is an integer constant of any width. V holds the value as
// written; the parser guarantees it lies in [-(2^(N-1)), 2^N).
type ConstInt struct {
	Typ types.TypeID
	V   *big.Int
}

// IsTrue reports a non-zero value.
func (c *ConstInt) IsTrue() bool { return c.V.Sign() != 0 }

// ConstFloat keeps the literal as written; hex forms are bit patterns.
type ConstFloat struct {
	Typ  types.TypeID
	Text string
}

// ConstNull is "null" of a pointer type.
type ConstNull struct{ Typ types.TypeID }

// ConstNone is "none" of type token.
type ConstNone struct{ Typ types.TypeID }

type ConstUndef struct{ Typ types.TypeID }

type ConstPoison struct{ Typ types.TypeID }

// ConstZero is zeroinitializer.
type ConstZero struct{ Typ types.TypeID }

// AggregateKind tells which literal syntax produced a ConstAggregate.
type AggregateKind uint8

const (
	AggArray AggregateKind = iota
	AggVector
	AggStruct
)

// ConstAggregate is [..], <..> or {..} of constants.
type ConstAggregate struct {
	Typ   types.TypeID
	Kind  AggregateKind
	Elems []Value
}

// ConstString is c"..." of type [N x i8].
type ConstString struct {
	Typ  types.TypeID
	Data []byte
}

// ConstExpr is a constant expression: casts, getelementptr, binary operators
// and vector element operations applied to constants.
type ConstExpr struct {
	Typ      types.TypeID
	Op       Opcode
	Ops      []Value
	SrcType  types.TypeID // getelementptr
	InBounds bool
	Flags    ArithFlags
	Pred     string // icmp/fcmp
}

// BlockAddress is blockaddress(@f, %bb).
type BlockAddress struct {
	Typ    types.TypeID
	Func   Value
	Block  Name
	Target *Block
}

// DSOLocalEquivalent is dso_local_equivalent @f.
type DSOLocalEquivalent struct {
	Typ  types.TypeID
	Func Value
}

// NoCFI is no_cfi @f.
type NoCFI struct {
	Typ  types.TypeID
	Func Value
}

func (c *ConstInt) Type() types.TypeID           { return c.Typ }
func (c *ConstFloat) Type() types.TypeID         { return c.Typ }
func (c *ConstNull) Type() types.TypeID          { return c.Typ }
func (c *ConstNone) Type() types.TypeID          { return c.Typ }
func (c *ConstUndef) Type() types.TypeID         { return c.Typ }
func (c *ConstPoison) Type() types.TypeID        { return c.Typ }
func (c *ConstZero) Type() types.TypeID          { return c.Typ }
func (c *ConstAggregate) Type() types.TypeID     { return c.Typ }
func (c *ConstString) Type() types.TypeID        { return c.Typ }
func (c *ConstExpr) Type() types.TypeID          { return c.Typ }
func (c *BlockAddress) Type() types.TypeID       { return c.Typ }
func (c *DSOLocalEquivalent) Type() types.TypeID { return c.Typ }
func (c *NoCFI) Type() types.TypeID              { return c.Typ }

func (*ConstInt) isValue()           {}
func (*ConstFloat) isValue()         {}
func (*ConstNull) isValue()          {}
func (*ConstNone) isValue()          {}
func (*ConstUndef) isValue()         {}
func (*ConstPoison) isValue()        {}
func (*ConstZero) isValue()          {}
func (*ConstAggregate) isValue()     {}
func (*ConstString) isValue()        {}
func (*ConstExpr) isValue()          {}
func (*BlockAddress) isValue()       {}
func (*DSOLocalEquivalent) isValue() {}
func (*NoCFI) isValue()              {}

func (*ConstInt) isConstant()           {}
func (*ConstFloat) isConstant()         {}
func (*ConstNull) isConstant()          {}
func (*ConstNone) isConstant()          {}
func (*ConstUndef) isConstant()         {}
func (*ConstPoison) isConstant()        {}
func (*ConstZero) isConstant()          {}
func (*ConstAggregate) isConstant()     {}
func (*ConstString) isConstant()        {}
func (*ConstExpr) isConstant()          {}
func (*BlockAddress) isConstant()       {}
func (*DSOLocalEquivalent) isConstant() {}
func (*NoCFI) isConstant()              {}

// IsConstant reports whether v is a constant (globals included).
func IsConstant(v Value) bool {
	_, ok := v.(Constant)
	return ok
}
