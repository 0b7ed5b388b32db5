package metadata

import "math/big"

// Resolve follows a reference operand to its node; inline nodes are returned
// directly.
func (s *Store) Resolve(op Operand) (*Node, bool) {
	switch op.Kind {
	case OpRef:
		return s.Lookup(op.Ref)
	case OpInline:
		return op.Node, op.Node != nil
	}
	return nil, false
}

// IsLocation reports whether op refers to a DILocation.
func (s *Store) IsLocation(op Operand) bool {
	n, ok := s.Resolve(op)
	return ok && n.Specialized == "DILocation"
}

// IsSpecialized reports whether op refers to a node of the given kind.
func (s *Store) IsSpecialized(op Operand, kind string) bool {
	n, ok := s.Resolve(op)
	return ok && n.Specialized == kind
}

// TupleInts returns the integer constants of a tuple whose elements are all
// typed integer values, together with their types.
func (s *Store) TupleInts(op Operand) ([]Operand, bool) {
	n, ok := s.Resolve(op)
	if !ok || !n.IsTuple() {
		return nil, false
	}
	for _, e := range n.Elems {
		if e.Kind != OpValue || e.Int == nil {
			return nil, false
		}
	}
	return n.Elems, true
}

// IsEmptyTuple reports !{}.
func (s *Store) IsEmptyTuple(op Operand) bool {
	n, ok := s.Resolve(op)
	return ok && n.IsTuple() && len(n.Elems) == 0
}

// ModuleFlag is one decoded !llvm.module.flags entry.
type ModuleFlag struct {
	ID       ID
	Behavior *big.Int
	Key      string
	Value    Operand
}

// ModuleFlags decodes entries of !llvm.module.flags. Malformed entries are
// returned in bad so the verifier can report them.
func (s *Store) ModuleFlags() (flags []ModuleFlag, bad []ID) {
	ids, ok := s.Named("llvm.module.flags")
	if !ok {
		return nil, nil
	}
	for _, id := range ids {
		n, ok := s.Lookup(id)
		if !ok || !n.IsTuple() || len(n.Elems) != 3 {
			bad = append(bad, id)
			continue
		}
		beh, key := n.Elems[0], n.Elems[1]
		if beh.Kind != OpValue || beh.Int == nil || key.Kind != OpString {
			bad = append(bad, id)
			continue
		}
		flags = append(flags, ModuleFlag{ID: id, Behavior: beh.Int, Key: key.Text, Value: n.Elems[2]})
	}
	return flags, bad
}
