package verify

import (
	"fmt"

	"llvet/internal/ir"
	"llvet/internal/trace"
	"llvet/internal/types"
)

// verifier: состояние одного прогона. Модуль только читается.
type verifier struct {
	m     *ir.Module
	ctx   *types.Context
	b     types.Builtins
	opts  Options
	rep   *Report
	phase Phase
}

// Module runs the selected phases over m and returns every violation found.
func Module(m *ir.Module, opts Options) *Report {
	v := &verifier{
		m:    m,
		ctx:  m.Types,
		b:    m.Types.Builtins(),
		opts: opts,
		rep:  &Report{},
	}
	phases := []struct {
		phase Phase
		run   func()
	}{
		{PhaseStructural, v.structural},
		{PhaseType, v.typeCheck},
		{PhaseCFG, v.controlFlow},
		{PhaseAttributes, v.attributes},
		{PhaseMetadata, v.metadata},
	}
	for _, ph := range phases {
		if opts.phases()&ph.phase == 0 {
			continue
		}
		v.phase = ph.phase
		idx := -1
		if opts.Timer != nil {
			idx = opts.Timer.Begin("verify/" + ph.phase.String())
		}
		span := trace.Begin(opts.Tracer, trace.ScopePhase, "verify."+ph.phase.String(), opts.TraceParent)
		before := v.rep.Len()
		ph.run()
		note := fmt.Sprintf("%d violations", v.rep.Len()-before)
		span.End(note)
		if opts.Timer != nil {
			opts.Timer.End(idx, note)
		}
	}
	return v.rep
}

func (v *verifier) add(viol Violation) {
	viol.Phase = v.phase
	if v.opts.MaxViolations > 0 && len(v.rep.Violations) >= v.opts.MaxViolations {
		v.rep.Dropped++
		return
	}
	v.rep.Violations = append(v.rep.Violations, viol)
}

// seen counts violations recorded so far, dropped ones included.
func (v *verifier) seen() int {
	return len(v.rep.Violations) + v.rep.Dropped
}

// module-level violation
func (v *verifier) modulef(kind Kind, format string, args ...any) {
	v.add(Violation{Kind: kind, Inst: -1, Msg: fmt.Sprintf(format, args...)})
}

func (v *verifier) funcf(f *ir.Function, kind Kind, format string, args ...any) {
	v.add(Violation{Kind: kind, Func: f.Name.Global(), Inst: -1, Span: f.Span, Msg: fmt.Sprintf(format, args...)})
}

func (v *verifier) blockf(f *ir.Function, b *ir.Block, kind Kind, format string, args ...any) {
	v.add(Violation{
		Kind: kind, Func: f.Name.Global(), Block: b.Name.Local(), Inst: -1,
		Span: b.Span, Msg: fmt.Sprintf(format, args...),
	})
}

func (v *verifier) instf(inst ir.Instruction, kind Kind, format string, args ...any) {
	viol := Violation{Kind: kind, Inst: -1, Op: inst.Opcode().String(), Span: inst.Base().Span, Msg: fmt.Sprintf(format, args...)}
	if b := inst.Base().Parent; b != nil {
		viol.Block = b.Name.Local()
		viol.Inst = indexOf(b, inst)
		if b.Parent != nil {
			viol.Func = b.Parent.Name.Global()
		}
	}
	v.add(viol)
}

func indexOf(b *ir.Block, inst ir.Instruction) int {
	for i, in := range b.Insts {
		if in == inst {
			return i
		}
	}
	return -1
}

// ty печатает тип для сообщений.
func (v *verifier) ty(id types.TypeID) string {
	if id == types.NoTypeID {
		return "<no type>"
	}
	return v.ctx.String(id)
}

// defined returns the function definitions in order.
func (v *verifier) defined() []*ir.Function {
	out := make([]*ir.Function, 0, len(v.m.Funcs))
	for _, f := range v.m.Funcs {
		if !f.Declaration {
			out = append(out, f)
		}
	}
	return out
}
