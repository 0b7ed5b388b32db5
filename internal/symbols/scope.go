package symbols

import (
	"errors"

	"llvet/internal/ir"
	"llvet/internal/source"
	"llvet/internal/types"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeModule             // @globals
	ScopeFunction           // %locals and blocks of one function
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	default:
		return "invalid"
	}
}

var (
	// ErrRedefinition is returned when a name is defined twice in one scope.
	ErrRedefinition = errors.New("redefinition")
	// ErrNumberOutOfOrder is returned for %N / @N that breaks the sequence.
	ErrNumberOutOfOrder = errors.New("numbered value out of order")
)

// UnresolvedKind tells why a forward reference failed at scope end.
type UnresolvedKind uint8

const (
	UnresolvedValue UnresolvedKind = iota // never defined
	UnresolvedBlock                       // label never defined
	UnresolvedType                        // defined with a different type
)

// Unresolved describes one forward reference left over when a scope closes.
type Unresolved struct {
	Kind  UnresolvedKind
	Scope ScopeKind
	Name  ir.Name
	Span  source.Span // first use
	Want  types.TypeID
	Got   types.TypeID
}

// numbering hands out sequential numbers for unnamed entities.
type numbering struct{ next uint32 }

// take validates an explicit number, or assigns one when name is unset.
func (n *numbering) take(name ir.Name) (ir.Name, error) {
	if !name.Set {
		name = ir.Numbered(n.next)
		n.next++
		return name, nil
	}
	if !name.IsNumbered() {
		return name, nil
	}
	if name.Num != n.next {
		return name, ErrNumberOutOfOrder
	}
	n.next++
	return name, nil
}

// Next returns the number the next unnamed entity will get.
func (n *numbering) Next() uint32 { return n.next }
