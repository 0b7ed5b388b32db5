package main

import (
	"fmt"
	"io"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"llvet/internal/driver"
	"llvet/internal/ir"
	"llvet/internal/irfmt"
	"llvet/internal/source"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.ll",
		Short: "Parse an LLVM IR file and print the module",
		Long:  `Parse reads a textual LLVM IR file, builds the in-memory module and prints it back`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "ir", "output format (ir|dump|summary)")
	cmd.Flags().String("config", "", "path to llvet.toml (default: discovered from the input)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "ir", "dump", "summary":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	s, err := loadSettings(cmd, args[0])
	if err != nil {
		return err
	}
	s.output.format = "pretty"

	result, err := driver.ParseFile(args[0], s.opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := reportResult(cmd, result.Bag, result.FileSet, s); err != nil {
		return err
	}
	if result.Module == nil {
		return errFailed
	}

	out := cmd.OutOrStdout()
	switch format {
	case "ir":
		err = irfmt.Module(out, result.Module)
	case "dump":
		_, err = pretty.Fprintf(out, "%# v\n", outline(result.Module, result.FileSet))
	case "summary":
		err = printSummary(out, result.Module)
	}
	if err != nil {
		return err
	}
	if !result.OK() {
		return errFailed
	}
	return nil
}

type instOutline struct {
	Line uint32
	Text string
}

type blockOutline struct {
	Label string
	Insts []instOutline
}

type funcOutline struct {
	Name        string
	Declaration bool
	Blocks      []blockOutline
}

type moduleOutline struct {
	Source     string
	Triple     string
	DataLayout string
	Types      []string
	Globals    []string
	Funcs      []funcOutline
	Metadata   int
}

// outline сворачивает модуль в дерево строк: у IR есть циклические ссылки
// (Parent, операнды), которые печатать целиком бессмысленно.
func outline(m *ir.Module, fs *source.FileSet) moduleOutline {
	o := moduleOutline{
		Source:     m.SourceFilename,
		Triple:     m.Triple,
		DataLayout: m.DataLayout,
		Metadata:   len(m.MD.IDs()),
	}
	for _, id := range m.NamedTypes {
		o.Types = append(o.Types, m.Types.String(id)+" = type "+m.Types.NamedBody(id))
	}
	for _, g := range m.Globals {
		o.Globals = append(o.Globals, g.Name.Global()+": "+m.Types.String(g.ValueType))
	}
	for _, f := range m.Funcs {
		fo := funcOutline{Name: f.Name.Global(), Declaration: f.Declaration}
		for _, b := range f.Blocks {
			bo := blockOutline{Label: b.Name.Local()}
			for _, inst := range b.Insts {
				start, _ := fs.Resolve(inst.Base().Span)
				bo.Insts = append(bo.Insts, instOutline{Line: start.Line, Text: irfmt.Instruction(m, inst)})
			}
			fo.Blocks = append(fo.Blocks, bo)
		}
		o.Funcs = append(o.Funcs, fo)
	}
	return o
}

func printSummary(w io.Writer, m *ir.Module) error {
	defined, declared, blocks, insts := 0, 0, 0, 0
	for _, f := range m.Funcs {
		if f.Declaration {
			declared++
			continue
		}
		defined++
		blocks += len(f.Blocks)
		for _, b := range f.Blocks {
			insts += len(b.Insts)
		}
	}
	_, err := fmt.Fprintf(w,
		"types: %d\nglobals: %d\naliases: %d\nifuncs: %d\nfunctions: %d defined, %d declared\nblocks: %d\ninstructions: %d\nmetadata: %d\n",
		len(m.NamedTypes), len(m.Globals), len(m.Aliases), len(m.IFuncs),
		defined, declared, blocks, insts, len(m.MD.IDs()))
	return err
}
