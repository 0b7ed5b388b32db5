package ir

import (
	"llvet/internal/source"
	"llvet/internal/types"
)

// Block is a basic block; its value is the label.
type Block struct {
	Name   Name
	Typ    types.TypeID // label
	Insts  []Instruction
	Parent *Function
	Span   source.Span
}

func (b *Block) Type() types.TypeID { return b.Typ }
func (*Block) isValue()             {}

// Terminator returns the last instruction if it is a terminator.
func (b *Block) Terminator() Instruction {
	if len(b.Insts) == 0 {
		return nil
	}
	last := b.Insts[len(b.Insts)-1]
	if !IsTerminator(last) {
		return nil
	}
	return last
}

// FirstNonPhi returns the first instruction that is not a phi, or nil.
func (b *Block) FirstNonPhi() Instruction {
	for _, inst := range b.Insts {
		if _, ok := inst.(*Phi); !ok {
			return inst
		}
	}
	return nil
}

// Append adds inst at the end and sets its parent.
func (b *Block) Append(inst Instruction) {
	inst.Base().Parent = b
	b.Insts = append(b.Insts, inst)
}

// Successors returns the blocks a terminator may transfer control to, in
// operand order. Non-terminators have none.
func Successors(inst Instruction) []*Block {
	switch in := inst.(type) {
	case *Br:
		if in.Cond == nil {
			return []*Block{in.True}
		}
		return []*Block{in.True, in.False}
	case *Switch:
		out := make([]*Block, 0, len(in.Cases)+1)
		out = append(out, in.Default)
		for _, c := range in.Cases {
			out = append(out, c.Dest)
		}
		return out
	case *IndirectBr:
		return append([]*Block(nil), in.Dests...)
	case *Invoke:
		return []*Block{in.Normal, in.Unwind}
	case *CleanupRet:
		if in.Unwind != nil {
			return []*Block{in.Unwind}
		}
	case *CatchRet:
		return []*Block{in.Dest}
	case *CatchSwitch:
		out := append([]*Block(nil), in.Handlers...)
		if in.Unwind != nil {
			out = append(out, in.Unwind)
		}
		return out
	}
	return nil
}
