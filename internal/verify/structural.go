package verify

import "llvet/internal/ir"

// structural: форма функций и блоков без учёта типов.
func (v *verifier) structural() {
	for _, f := range v.m.Funcs {
		switch {
		case f.Declaration && len(f.Blocks) > 0:
			v.funcf(f, IllegalStructure, "declaration must not have a body")
			continue
		case !f.Declaration && len(f.Blocks) == 0:
			v.funcf(f, IllegalStructure, "definition must have at least one basic block")
			continue
		}
		for i, b := range f.Blocks {
			v.structuralBlock(f, b, i == 0)
		}
	}
}

func (v *verifier) structuralBlock(f *ir.Function, b *ir.Block, entry bool) {
	if len(b.Insts) == 0 {
		v.blockf(f, b, MissingTerminator, "basic block has no instructions")
		return
	}
	last := len(b.Insts) - 1
	if !ir.IsTerminator(b.Insts[last]) {
		v.blockf(f, b, MissingTerminator, "basic block does not end with a terminator")
	}

	seenNonPhi := false
	for i, inst := range b.Insts {
		if i != last && ir.IsTerminator(inst) {
			v.instf(inst, IllegalStructure, "terminator %s is not the last instruction of its block", inst.Opcode())
		}
		if _, isPhi := inst.(*ir.Phi); isPhi {
			switch {
			case entry:
				v.instf(inst, IllegalStructure, "entry block must not contain phi nodes")
			case seenNonPhi:
				v.instf(inst, IllegalStructure, "phi nodes must be grouped at the top of the block")
			}
			continue
		}
		if inst.Opcode().IsEHPad() && seenNonPhi {
			v.instf(inst, IllegalStructure, "%s must be the first non-phi instruction in its block", inst.Opcode())
		}
		seenNonPhi = true
	}
}
