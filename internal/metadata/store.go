package metadata

import (
	"slices"

	"llvet/internal/source"
)

// Store owns the metadata nodes of one module.
type Store struct {
	nodes map[ID]*Node
	named map[string][]ID
	order []string
	refs  []Use
}

// Use records a reference to a numbered node from somewhere in the module.
type Use struct {
	ID   ID
	Span source.Span
}

func NewStore() *Store {
	return &Store{
		nodes: make(map[ID]*Node),
		named: make(map[string][]ID),
	}
}

// Define stores node under id. It reports false when the id is taken.
func (s *Store) Define(id ID, n *Node) bool {
	if _, dup := s.nodes[id]; dup {
		return false
	}
	s.nodes[id] = n
	return true
}

// DefineNamed stores !name = !{!0, !1}.
func (s *Store) DefineNamed(name string, ids []ID) bool {
	if _, dup := s.named[name]; dup {
		return false
	}
	s.named[name] = slices.Clone(ids)
	s.order = append(s.order, name)
	return true
}

// NoteUse records that id is referenced at sp; Unresolved checks them later.
func (s *Store) NoteUse(id ID, sp source.Span) {
	s.refs = append(s.refs, Use{ID: id, Span: sp})
}

// Lookup returns the node stored for id.
func (s *Store) Lookup(id ID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Named returns the operands of a named metadata list.
func (s *Store) Named(name string) ([]ID, bool) {
	ids, ok := s.named[name]
	return ids, ok
}

// NamedLists returns named metadata names in definition order.
func (s *Store) NamedLists() []string {
	return s.order
}

// IDs returns every defined id in ascending order.
func (s *Store) IDs() []ID {
	out := make([]ID, 0, len(s.nodes))
	for id := range s.nodes {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of numbered nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Unresolved returns uses of ids that were never defined, in source order.
func (s *Store) Unresolved() []Use {
	var out []Use
	for _, u := range s.refs {
		if _, ok := s.nodes[u.ID]; !ok {
			out = append(out, u)
		}
	}
	return out
}
