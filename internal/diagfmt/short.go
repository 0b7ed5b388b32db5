package diagfmt

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"llvet/internal/diag"
	"llvet/internal/source"
)

type shortLine struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

// Short печатает по одной строке на диагностику:
//
//	error SYN2001 path:line:col message
//
// Строки отсортированы по файлу и позиции, заметки идут отдельными
// строками с меткой "note".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	if bag == nil || bag.Len() == 0 || fs == nil {
		return nil
	}
	var lines []shortLine
	add := func(label string, code diag.Code, sp source.Span, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		pos, _ := fs.Resolve(sp)
		lines = append(lines, shortLine{
			sev:  label,
			code: code.ID(),
			path: shortPath(f, fs.BaseDir()),
			pos:  pos,
			msg:  oneLine(msg),
		})
	}
	for _, d := range bag.Items() {
		add(d.Severity.Label(), d.Code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add("note", d.Code, n.Span, n.Msg)
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	bw := bufio.NewWriter(w)
	for _, l := range lines {
		fmt.Fprintf(bw, "%s %s %s:%d:%d %s\n", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
	return bw.Flush()
}

func shortPath(f *source.File, base string) string {
	p := filepath.ToSlash(f.DisplayPath(base))
	return strings.TrimPrefix(p, "./")
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func oneLine(s string) string {
	return newlines.Replace(s)
}
