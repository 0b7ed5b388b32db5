package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"llvet/internal/diag"
	"llvet/internal/source"
)

// palette держит цвета одного вызова Pretty; при Color=false всё без ANSI.
type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty печатает каждую диагностику в порядке bag.Items():
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строки контекста с подчёркиванием ^~~~ под Span и, при ShowNotes,
// заметки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	loc := location(d.Primary, fs, opts.PathMode)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		loc, pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()), clip(d.Message, opts.Width))
	writeSnippet(w, d.Primary, fs, opts, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
		}
	}
}

func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if int(sp.File) >= fs.Len() {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs.Get(sp.File), fs, mode), start.Line, start.Col)
}

// writeSnippet печатает строки вокруг span и подчёркивание под первой строкой.
// Ширина считается в колонках терминала, а не в байтах.
func writeSnippet(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts, pal palette) {
	if int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := max(min(start.Line+ctx, lineCount(f)), start.Line)
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := strings.ReplaceAll(f.GetLine(ln), "\t", "    ")
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", width, ln), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		from := min(int(start.Col)-1, len(raw))
		to := len(raw)
		if end.Line == start.Line {
			to = min(int(end.Col)-1, len(raw))
		}
		pad := runewidth.StringWidth(strings.ReplaceAll(raw[:from], "\t", "    "))
		span := runewidth.StringWidth(strings.ReplaceAll(raw[from:max(to, from)], "\t", "    "))
		mark := "^"
		if span > 1 {
			mark += strings.Repeat("~", span-1)
		}
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), pal.caret.Sprint(mark))
	}
}

// lineCount не считает пустой хвост после завершающего '\n'.
func lineCount(f *source.File) uint32 {
	n := uint32(len(f.LineIdx))
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "...")
}
