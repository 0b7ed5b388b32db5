package parser

import (
	"fmt"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/lexer"
	"llvet/internal/source"
	"llvet/internal/symbols"
	"llvet/internal/token"
	"llvet/internal/types"
)

// Parser: состояние разбора одного модуля. Однопроходный, один токен
// lookahead, первая ошибка фатальна.
type Parser struct {
	lx   *lexer.Lexer
	file *source.File
	opts Options
	ctx  *types.Context
	b    types.Builtins
	m    *ir.Module

	globals *symbols.Globals
	locals  *symbols.Locals // nil вне тела функции
	fn      *ir.Function
	inPhi   bool

	depth    int
	lastSpan source.Span

	typeRefs   map[types.TypeID]source.Span // первое упоминание именованного типа
	typeAlias  map[string]types.TypeID      // %T = type i32
	groupRefs  []groupRef
	blockAddrs []*ir.BlockAddress
	fnBlocks   map[*ir.Function]map[ir.Name]*ir.Block
	baSpans    map[*ir.BlockAddress]source.Span
}

type groupRef struct {
	id   uint32
	span source.Span
}

func newParser(tctx *types.Context, file *source.File, opts Options) *Parser {
	if tctx == nil {
		tctx = types.NewContext()
	}
	return &Parser{
		lx: lexer.New(file, lexer.Options{
			Reporter:       warningsOnly{next: opts.Reporter},
			MaxTokenLength: opts.MaxTokenLength,
		}),
		file:      file,
		opts:      opts,
		ctx:       tctx,
		b:         tctx.Builtins(),
		m:         ir.NewModule(tctx),
		globals:   symbols.NewGlobals(),
		typeRefs:  make(map[types.TypeID]source.Span),
		typeAlias: make(map[string]types.TypeID),
		fnBlocks:  make(map[*ir.Function]map[ir.Name]*ir.Block),
		baSpans:   make(map[*ir.BlockAddress]source.Span),
	}
}

// ParseModule parses file into a module whose types live in tctx (a fresh
// Context when nil). On failure the module is nil and the error is a *Error,
// or the Options.Context error.
func ParseModule(tctx *types.Context, file *source.File, opts Options) (m *ir.Module, err error) {
	p := newParser(tctx, file, opts)
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			m, err = nil, b.err
		}
	}()
	if err := p.parseTopLevel(); err != nil {
		return nil, err
	}
	p.finishModule()
	return p.m, nil
}

// parseTopLevel: основной цикл верхнего уровня.
func (p *Parser) parseTopLevel() error {
	for !p.at(token.EOF) {
		if p.opts.Context != nil {
			if err := p.opts.Context.Err(); err != nil {
				return fmt.Errorf("parse %s: %w", p.file.Path, err)
			}
		}
		p.parseEntity()
	}
	return nil
}

func (p *Parser) parseEntity() {
	tok := p.peek()
	switch tok.Kind {
	case token.LocalVar, token.LocalID:
		p.parseNamedType()
	case token.GlobalVar, token.GlobalID:
		p.parseGlobal()
	case token.ComdatVar:
		p.parseComdat()
	case token.MetadataID:
		p.parseMetadataDef()
	case token.MetadataVar:
		p.parseNamedMetadata()
	case token.Keyword:
		switch tok.Text {
		case "define":
			p.parseFunction(true)
		case "declare":
			p.parseFunction(false)
		case "source_filename":
			p.next()
			p.expect(token.Equal, "'='")
			p.m.SourceFilename = p.parseString()
		case "target":
			p.parseTarget()
		case "module":
			p.next()
			p.expectKw("asm")
			p.m.ModuleAsm = append(p.m.ModuleAsm, p.parseString())
		case "attributes":
			p.parseAttrGroup()
		default:
			p.fail(diag.SynUnexpectedTopLevel, tok.Span, "top-level entity", tok.Describe())
		}
	default:
		p.fail(diag.SynUnexpectedTopLevel, tok.Span, "top-level entity", tok.Describe())
	}
}

func (p *Parser) parseTarget() {
	p.next()
	switch {
	case p.eatKw("datalayout"):
		p.expect(token.Equal, "'='")
		p.m.DataLayout = p.parseString()
	case p.eatKw("triple"):
		p.expect(token.Equal, "'='")
		p.m.Triple = p.parseString()
	default:
		p.failExpected("'datalayout' or 'triple'")
	}
}

// finishModule resolves what may be referenced before its definition.
func (p *Parser) finishModule() {
	repl, bad := p.globals.Finish()
	if len(bad) > 0 {
		p.failUnresolved(bad[0])
	}
	if len(repl) > 0 {
		p.m.Rewrite(func(v ir.Value) ir.Value {
			if ph, ok := v.(*ir.Placeholder); ok {
				if r, ok := repl[ph]; ok {
					return r
				}
			}
			return v
		})
	}

	for _, ba := range p.blockAddrs {
		p.resolveBlockAddress(ba)
	}

	for _, g := range p.groupRefs {
		if _, ok := p.m.AttrGroups[g.id]; !ok {
			p.fail(diag.ResUndefinedAttrGrp, g.span, "", "", fmt.Sprintf("undefined attribute group #%d", g.id))
		}
	}

	if uses := p.m.MD.Unresolved(); len(uses) > 0 {
		u := uses[0]
		p.fail(diag.ResUndefinedMD, u.Span, "", "", fmt.Sprintf("undefined metadata !%d", u.ID))
	}

	if undef := p.ctx.UndefinedNamed(); len(undef) > 0 {
		first := undef[0]
		for _, id := range undef[1:] {
			if p.typeRefs[id].Start < p.typeRefs[first].Start {
				first = id
			}
		}
		p.fail(diag.ResUndefinedType, p.typeRefs[first], "", "",
			"use of undefined type "+p.ctx.String(first))
	}
}

func (p *Parser) resolveBlockAddress(ba *ir.BlockAddress) {
	sp := p.baSpans[ba]
	fn, ok := ba.Func.(*ir.Function)
	if !ok {
		p.fail(diag.ResUndefinedValue, sp, "", "", "blockaddress must refer to a function")
	}
	blocks := p.fnBlocks[fn]
	b, ok := blocks[ba.Block]
	if !ok {
		p.fail(diag.ResUndefinedBlock, sp, "", "",
			fmt.Sprintf("function %s has no block %s", fn.Name.Global(), ba.Block.Local()))
	}
	ba.Target = b
}

func (p *Parser) failUnresolved(u symbols.Unresolved) {
	switch u.Kind {
	case symbols.UnresolvedBlock:
		p.fail(diag.ResUndefinedBlock, u.Span, "", "", "use of undefined block "+u.Name.Local())
	case symbols.UnresolvedType:
		name := u.Name.Local()
		if u.Scope == symbols.ScopeModule {
			name = u.Name.Global()
		}
		p.fail(diag.ResForwardRefType, u.Span, "", "",
			fmt.Sprintf("%s referenced with type %s but defined with type %s",
				name, p.ctx.String(u.Want), p.ctx.String(u.Got)))
	default:
		if u.Scope == symbols.ScopeModule {
			p.fail(diag.ResUndefinedGlobal, u.Span, "", "", "use of undefined global "+u.Name.Global())
		}
		p.fail(diag.ResUndefinedValue, u.Span, "", "", "use of undefined value "+u.Name.Local())
	}
}
