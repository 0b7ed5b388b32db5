package irfmt

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"llvet/internal/ir"
	"llvet/internal/types"
)

// Options configures printing.
type Options struct {
	// IndentWidth is the number of spaces before an instruction; 2 by default.
	IndentWidth int
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 2
	}
	return o
}

type printer struct {
	m   *ir.Module
	ctx *types.Context
	w   *Writer
}

// Module writes m to w as textual IR.
func Module(w io.Writer, m *ir.Module) error {
	_, err := w.Write(Format(m, Options{}))
	return err
}

// Format returns the textual form of m.
func Format(m *ir.Module, opts Options) []byte {
	opts = opts.withDefaults()
	p := &printer{m: m, ctx: m.Types, w: newWriter(opts.IndentWidth)}
	p.printModule()
	return p.w.Bytes()
}

func (p *printer) line(parts ...string) {
	p.w.WriteString(strings.Join(parts, ""))
	p.w.Newline()
}

func (p *printer) printModule() {
	m := p.m
	if m.SourceFilename != "" {
		p.line("source_filename = ", quote([]byte(m.SourceFilename)))
	}
	if m.DataLayout != "" {
		p.line("target datalayout = ", quote([]byte(m.DataLayout)))
	}
	if m.Triple != "" {
		p.line("target triple = ", quote([]byte(m.Triple)))
	}
	for _, asm := range m.ModuleAsm {
		p.line("module asm ", quote([]byte(asm)))
	}

	p.w.BlankLine()
	for _, id := range m.NamedTypes {
		p.line(p.ty(id), " = type ", p.ctx.NamedBody(id))
	}

	p.w.BlankLine()
	for _, c := range m.Comdats {
		p.line("$", types.QuoteName(c.Name), " = comdat ", c.Kind)
	}

	p.w.BlankLine()
	p.printGlobals()

	if len(m.AttrGroups) > 0 {
		p.w.BlankLine()
		ids := make([]uint32, 0, len(m.AttrGroups))
		for id := range m.AttrGroups {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			p.line("attributes #", strconv.FormatUint(uint64(id), 10), " = { ", p.attrs(m.AttrGroups[id]), " }")
		}
	}

	p.w.BlankLine()
	p.printMetadata()
}

// printGlobals печатает глобальные объекты в исходном порядке: @N
// нумеруются сквозь все виды, перестановка сломала бы повторный разбор.
func (p *printer) printGlobals() {
	var all []ir.Global
	for _, g := range p.m.Globals {
		all = append(all, g)
	}
	for _, f := range p.m.Funcs {
		all = append(all, f)
	}
	for _, a := range p.m.Aliases {
		all = append(all, a)
	}
	for _, f := range p.m.IFuncs {
		all = append(all, f)
	}
	slices.SortStableFunc(all, func(a, b ir.Global) int {
		return int(a.Header().Span.Start) - int(b.Header().Span.Start)
	})

	prevFunc := false
	for i, g := range all {
		_, isFunc := g.(*ir.Function)
		if i > 0 && (isFunc || prevFunc) {
			p.w.BlankLine()
		}
		prevFunc = isFunc
		switch g := g.(type) {
		case *ir.GlobalVar:
			p.printGlobalVar(g)
		case *ir.Alias:
			p.line(p.headerPrefix(g.Name.Global()+" =", &g.GlobalHeader, false), " alias ", p.ty(g.ValueType), ", ", p.typed(g.Aliasee), p.trailer(&g.GlobalHeader, nil))
		case *ir.IFunc:
			p.line(p.headerPrefix(g.Name.Global()+" =", &g.GlobalHeader, false), " ifunc ", p.ty(g.ValueType), ", ", p.typed(g.Resolver), p.trailer(&g.GlobalHeader, nil))
		case *ir.Function:
			p.printFunction(g)
		}
	}
}

func (p *printer) printGlobalVar(g *ir.GlobalVar) {
	var sb strings.Builder
	sb.WriteString(p.headerPrefix(g.Name.Global()+" =", &g.GlobalHeader, g.Init == nil))
	if g.ExternallyInitialized {
		sb.WriteString(" externally_initialized")
	}
	if g.IsConstant {
		sb.WriteString(" constant ")
	} else {
		sb.WriteString(" global ")
	}
	sb.WriteString(p.ty(g.ValueType))
	if g.Init != nil {
		sb.WriteString(" " + p.value(g.Init))
	}
	sb.WriteString(p.trailer(&g.GlobalHeader, g.Attrs))
	p.line(sb.String())
}

// headerPrefix: "@g = linkage preemption visibility dll thread_local unnamed_addr addrspace(N)".
// Внешняя компоновка печатается только у объявлений глобалов: с ней
// инициализатор не разбирается.
func (p *printer) headerPrefix(lead string, h *ir.GlobalHeader, external bool) string {
	parts := []string{lead}
	if h.Linkage != ir.LinkageExternal || external {
		parts = append(parts, h.Linkage.String())
	}
	switch h.Preemption {
	case ir.PreemptionDSOLocal:
		parts = append(parts, "dso_local")
	case ir.PreemptionDSOPreemptable:
		parts = append(parts, "dso_preemptable")
	}
	if h.Visibility != ir.VisibilityDefault {
		parts = append(parts, h.Visibility.String())
	}
	switch h.DLL {
	case ir.DLLImport:
		parts = append(parts, "dllimport")
	case ir.DLLExport:
		parts = append(parts, "dllexport")
	}
	if tls := tlsWord(h.ThreadLocal); tls != "" {
		parts = append(parts, tls)
	}
	if h.UnnamedAddr != ir.UnnamedAddrNone {
		parts = append(parts, unnamedAddrWord(h.UnnamedAddr))
	}
	if h.AddrSpace != 0 {
		parts = append(parts, "addrspace("+strconv.FormatUint(uint64(h.AddrSpace), 10)+")")
	}
	return strings.Join(parts, " ")
}

func tlsWord(t ir.ThreadLocal) string {
	switch t {
	case ir.TLSGeneralDynamic:
		return "thread_local"
	case ir.TLSLocalDynamic:
		return "thread_local(localdynamic)"
	case ir.TLSInitialExec:
		return "thread_local(initialexec)"
	case ir.TLSLocalExec:
		return "thread_local(localexec)"
	}
	return ""
}

func unnamedAddrWord(u ir.UnnamedAddr) string {
	if u == ir.UnnamedAddrLocal {
		return "local_unnamed_addr"
	}
	return "unnamed_addr"
}

// trailer: ", section ..., comdat, align N, attrs, !kind !N".
func (p *printer) trailer(h *ir.GlobalHeader, attrs ir.AttrSet) string {
	var sb strings.Builder
	if h.Section != "" {
		sb.WriteString(", section " + quote([]byte(h.Section)))
	}
	if h.Partition != "" {
		sb.WriteString(", partition " + quote([]byte(h.Partition)))
	}
	if h.HasComdat {
		sb.WriteString(", " + comdatRef(h))
	}
	if h.Align != 0 {
		sb.WriteString(", align " + strconv.FormatUint(h.Align, 10))
	}
	if len(attrs) > 0 {
		sb.WriteString(", " + p.attrs(attrs))
	}
	for _, a := range h.Attachments {
		sb.WriteString(", " + p.attachment(a))
	}
	return sb.String()
}

func comdatRef(h *ir.GlobalHeader) string {
	if h.Comdat == h.Name.Text {
		return "comdat"
	}
	return "comdat($" + types.QuoteName(h.Comdat) + ")"
}

func (p *printer) printFunction(f *ir.Function) {
	var sb strings.Builder
	kw := "define"
	if f.Declaration {
		kw = "declare"
	}
	h := f.GlobalHeader
	h.UnnamedAddr = ir.UnnamedAddrNone
	h.AddrSpace = 0
	sb.WriteString(p.headerPrefix(kw, &h, false))
	if f.CallConv != "" {
		sb.WriteString(" " + f.CallConv)
	}
	if len(f.RetAttrs) > 0 {
		sb.WriteString(" " + p.attrs(f.RetAttrs))
	}
	sb.WriteString(" " + p.ty(p.ctx.FuncResult(f.Sig)) + " " + f.Name.Global() + "(")
	for i, prm := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.ty(prm.Typ))
		if len(prm.Attrs) > 0 {
			sb.WriteString(" " + p.attrs(prm.Attrs))
		}
		if prm.Name.Set {
			sb.WriteString(" " + prm.Name.Local())
		}
	}
	if p.ctx.IsVariadic(f.Sig) {
		if len(f.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteString(")")

	if f.UnnamedAddr != ir.UnnamedAddrNone {
		sb.WriteString(" " + unnamedAddrWord(f.UnnamedAddr))
	}
	if f.AddrSpace != 0 {
		sb.WriteString(" addrspace(" + strconv.FormatUint(uint64(f.AddrSpace), 10) + ")")
	}
	if len(f.FnAttrs) > 0 {
		sb.WriteString(" " + p.attrs(f.FnAttrs))
	}
	for _, g := range f.AttrGroups {
		sb.WriteString(" #" + strconv.FormatUint(uint64(g), 10))
	}
	if f.Section != "" {
		sb.WriteString(" section " + quote([]byte(f.Section)))
	}
	if f.Partition != "" {
		sb.WriteString(" partition " + quote([]byte(f.Partition)))
	}
	if f.HasComdat {
		sb.WriteString(" " + comdatRef(&f.GlobalHeader))
	}
	if f.Align != 0 {
		sb.WriteString(" align " + strconv.FormatUint(f.Align, 10))
	}
	if f.GC != "" {
		sb.WriteString(" gc " + quote([]byte(f.GC)))
	}
	if f.Prefix != nil {
		sb.WriteString(" prefix " + p.typed(f.Prefix))
	}
	if f.Prologue != nil {
		sb.WriteString(" prologue " + p.typed(f.Prologue))
	}
	if f.Personality != nil {
		sb.WriteString(" personality " + p.typed(f.Personality))
	}
	for _, a := range f.Attachments {
		sb.WriteString(" " + p.attachment(a))
	}

	if f.Declaration {
		p.line(sb.String())
		return
	}
	p.line(sb.String(), " {")
	for i, b := range f.Blocks {
		if i > 0 {
			p.w.Newline()
		}
		p.line(b.Name.Label())
		p.w.IndentPush()
		for _, inst := range b.Insts {
			p.line(p.inst(inst))
		}
		p.w.IndentPop()
	}
	p.line("}")
}
