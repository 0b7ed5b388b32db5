package verify

import "llvet/internal/ir"

// cfg: рёбра одной функции. Рёбра в чужие блоки отброшены.
type cfg struct {
	succs map[*ir.Block][]*ir.Block
	preds map[*ir.Block][]*ir.Block
}

func buildCFG(f *ir.Function) *cfg {
	g := &cfg{
		succs: make(map[*ir.Block][]*ir.Block, len(f.Blocks)),
		preds: make(map[*ir.Block][]*ir.Block, len(f.Blocks)),
	}
	for _, b := range f.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		for _, s := range ir.Successors(term) {
			if s == nil || s.Parent != f {
				continue
			}
			g.succs[b] = append(g.succs[b], s)
			g.preds[s] = append(g.preds[s], b)
		}
	}
	return g
}

// controlFlow: рёбра, PHI, доминирование и правила EH.
func (v *verifier) controlFlow() {
	for _, f := range v.defined() {
		if len(f.Blocks) == 0 {
			continue
		}
		g := buildCFG(f)
		dom := buildDomTree(f.Entry(), g)
		v.checkEdges(f, g)
		v.checkPhis(f, g, dom)
		v.checkDominance(f, dom)
		v.checkEH(f, g)
	}
}

func (v *verifier) checkEdges(f *ir.Function, g *cfg) {
	for _, b := range f.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		for _, s := range ir.Successors(term) {
			if s != nil && s.Parent != f {
				v.instf(term, IllegalControlFlow, "branch to block %s of another function", s.Name.Local())
			}
		}
	}
	entry := f.Entry()
	if n := len(g.preds[entry]); n > 0 {
		v.blockf(f, entry, IllegalControlFlow, "entry block must not have predecessors, found %d", n)
	}
}

// checkPhis: входящие блоки фи совпадают с мультимножеством предшественников,
// и значение доминирует конец своего входящего блока.
func (v *verifier) checkPhis(f *ir.Function, g *cfg, dom *domTree) {
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			phi, ok := inst.(*ir.Phi)
			if !ok {
				continue
			}
			want := make(map[*ir.Block]int)
			for _, p := range g.preds[b] {
				want[p]++
			}
			got := make(map[*ir.Block]int)
			for _, inc := range phi.Incoming {
				got[inc.Block]++
			}
			for _, inc := range phi.Incoming {
				if got[inc.Block] != want[inc.Block] {
					if want[inc.Block] == 0 {
						v.instf(phi, IllegalControlFlow, "phi has an entry for %s, which is not a predecessor", inc.Block.Name.Local())
					} else {
						v.instf(phi, IllegalControlFlow, "phi has %d entries for predecessor %s, expected %d",
							got[inc.Block], inc.Block.Name.Local(), want[inc.Block])
					}
					got[inc.Block] = want[inc.Block]
				}
			}
			for _, p := range g.preds[b] {
				if got[p] == 0 {
					v.instf(phi, IllegalControlFlow, "phi is missing an entry for predecessor %s", p.Name.Local())
					got[p] = want[p]
				}
			}
			if !dom.reachable(b) {
				continue
			}
			for _, inc := range phi.Incoming {
				if !dom.reachable(inc.Block) {
					continue
				}
				def, ok := inc.Val.(ir.Instruction)
				if !ok {
					continue
				}
				if inv, isInvoke := def.(*ir.Invoke); isInvoke && inv.Parent == inc.Block && inv.Normal == b {
					continue
				}
				if !v.defReaches(def, inc.Block, -1, dom) {
					v.instf(phi, IllegalUse, "incoming value %s does not dominate the end of %s",
						def.Base().Name.Local(), inc.Block.Name.Local())
				}
			}
		}
	}
}

// checkDominance: каждое использование в достижимом блоке доминируется
// определением. Использования в недостижимых блоках не проверяются.
func (v *verifier) checkDominance(f *ir.Function, dom *domTree) {
	for _, b := range f.Blocks {
		if !dom.reachable(b) {
			continue
		}
		for i, inst := range b.Insts {
			if _, isPhi := inst.(*ir.Phi); isPhi {
				continue
			}
			for _, op := range ir.Operands(inst) {
				def, ok := op.(ir.Instruction)
				if !ok {
					continue
				}
				if db := def.Base().Parent; db == nil || db.Parent != f {
					v.instf(inst, IllegalUse, "operand %s is defined in another function", def.Base().Name.Local())
					continue
				}
				if !v.defReaches(def, b, i, dom) {
					v.instf(inst, IllegalUse, "instruction %s does not dominate all uses", def.Base().Name.Local())
				}
			}
		}
	}
}

// defReaches reports whether def is available at position pos of block use;
// pos < 0 means the end of the block.
func (v *verifier) defReaches(def ir.Instruction, use *ir.Block, pos int, dom *domTree) bool {
	db := def.Base().Parent
	if db == nil || !dom.reachable(db) {
		return false
	}
	if inv, ok := def.(*ir.Invoke); ok {
		// результат invoke есть только на нормальном ребре
		return inv.Normal != nil && inv.Normal != db && dom.dominates(inv.Normal, use) && v.singlePred(inv.Normal, db)
	}
	if db == use {
		return pos < 0 || indexOf(db, def) < pos
	}
	return dom.dominates(db, use)
}

// singlePred: ребро db→normal доминирует normal, только если других входов нет.
func (v *verifier) singlePred(normal, db *ir.Block) bool {
	f := normal.Parent
	for _, b := range f.Blocks {
		term := b.Terminator()
		if term == nil {
			continue
		}
		for _, s := range ir.Successors(term) {
			if s == normal && b != db {
				return false
			}
		}
	}
	return true
}

func (v *verifier) checkEH(f *ir.Function, g *cfg) {
	needsPersonality := false
	for _, b := range f.Blocks {
		first := b.FirstNonPhi()
		if lp, ok := first.(*ir.LandingPad); ok {
			for _, p := range g.preds[b] {
				inv, isInvoke := p.Terminator().(*ir.Invoke)
				if !isInvoke || inv.Unwind != b || inv.Normal == b {
					v.instf(lp, IllegalControlFlow, "block with landingpad can only be reached from an invoke unwind edge")
					break
				}
			}
		}
		for _, inst := range b.Insts {
			switch in := inst.(type) {
			case *ir.Invoke:
				if in.Unwind != nil && in.Unwind.Parent == f {
					if pad := in.Unwind.FirstNonPhi(); pad == nil || !pad.Opcode().IsEHPad() {
						v.instf(in, IllegalControlFlow, "invoke unwind destination %s must start with an exception handling pad",
							in.Unwind.Name.Local())
					}
				}
			case *ir.CatchSwitch:
				needsPersonality = true
				for _, h := range in.Handlers {
					if h.Parent != f {
						continue
					}
					if pad := h.FirstNonPhi(); pad == nil || pad.Opcode() != ir.OpCatchPad {
						v.instf(in, IllegalControlFlow, "catchswitch handler %s must start with a catchpad", h.Name.Local())
					}
				}
			case *ir.Resume, *ir.LandingPad, *ir.FuncletPad:
				needsPersonality = true
			}
		}
	}
	if needsPersonality && f.Personality == nil {
		v.funcf(f, IllegalControlFlow, "function with exception handling instructions must have a personality")
	}
}
