package verify

import "llvet/internal/ir"

// domTree: дерево доминаторов по итеративному алгоритму Cooper, Harvey и
// Kennedy. Узлы пронумерованы в обратном постпорядке от входа; idom[0] == 0.
type domTree struct {
	rpo   []*ir.Block
	index map[*ir.Block]int
	idom  []int
}

func buildDomTree(entry *ir.Block, g *cfg) *domTree {
	t := &domTree{index: make(map[*ir.Block]int)}
	if entry == nil {
		return t
	}

	// постпорядок без рекурсии: функции бывают длинными
	type frame struct {
		b    *ir.Block
		next int
	}
	visited := map[*ir.Block]bool{entry: true}
	stack := []frame{{b: entry}}
	var post []*ir.Block
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succs := g.succs[top.b]
		if top.next < len(succs) {
			s := succs[top.next]
			top.next++
			if !visited[s] {
				visited[s] = true
				stack = append(stack, frame{b: s})
			}
			continue
		}
		post = append(post, top.b)
		stack = stack[:len(stack)-1]
	}
	t.rpo = make([]*ir.Block, len(post))
	for i, b := range post {
		t.rpo[len(post)-1-i] = b
	}
	for i, b := range t.rpo {
		t.index[b] = i
	}

	const undef = -1
	t.idom = make([]int, len(t.rpo))
	for i := range t.idom {
		t.idom[i] = undef
	}
	t.idom[0] = 0
	for changed := true; changed; {
		changed = false
		for i := 1; i < len(t.rpo); i++ {
			newIdom := undef
			for _, p := range g.preds[t.rpo[i]] {
				pi, ok := t.index[p]
				if !ok || t.idom[pi] == undef {
					continue
				}
				if newIdom == undef {
					newIdom = pi
				} else {
					newIdom = t.intersect(pi, newIdom)
				}
			}
			if newIdom != t.idom[i] {
				t.idom[i] = newIdom
				changed = true
			}
		}
	}
	return t
}

func (t *domTree) intersect(a, b int) int {
	for a != b {
		for a > b {
			a = t.idom[a]
		}
		for b > a {
			b = t.idom[b]
		}
	}
	return a
}

func (t *domTree) reachable(b *ir.Block) bool {
	_, ok := t.index[b]
	return ok
}

// dominates reports whether every path from entry to b passes through a.
// Блоки вне дерева не доминируют и не доминируются.
func (t *domTree) dominates(a, b *ir.Block) bool {
	ai, aok := t.index[a]
	bi, bok := t.index[b]
	if !aok || !bok {
		return false
	}
	for bi > ai {
		bi = t.idom[bi]
	}
	return bi == ai
}
