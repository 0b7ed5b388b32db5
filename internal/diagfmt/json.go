package diagfmt

import (
	"encoding/json"
	"io"

	"llvet/internal/diag"
	"llvet/internal/source"
)

// Location is a span in json output. Line and column fields are filled only
// with JSONOpts.IncludePositions.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type EntryNote struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Location Location    `json:"location"`
	Notes    []EntryNote `json:"notes,omitempty"`
}

// Document is the root of the json diagnostics output.
type Document struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	// Dropped считает и отброшенное Bag, и срезанное по JSONOpts.Max.
	Dropped int `json:"dropped,omitempty"`
}

type locator struct {
	fs        *source.FileSet
	mode      PathMode
	positions bool
}

func (l locator) at(sp source.Span) Location {
	loc := Location{File: "<unknown>", StartByte: sp.Start, EndByte: sp.End}
	if int(sp.File) >= l.fs.Len() {
		return loc
	}
	loc.File = formatPath(l.fs.Get(sp.File), l.fs, l.mode)
	if l.positions {
		from, to := l.fs.Resolve(sp)
		loc.StartLine, loc.StartCol = from.Line, from.Col
		loc.EndLine, loc.EndCol = to.Line, to.Col
	}
	return loc
}

// BuildDocument converts bag into a Document without encoding it.
func BuildDocument(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Document {
	items := bag.Items()
	shown := items
	if opts.Max > 0 && opts.Max < len(items) {
		shown = items[:opts.Max]
	}
	loc := locator{fs: fs, mode: opts.PathMode, positions: opts.IncludePositions}

	doc := Document{
		Diagnostics: make([]Entry, 0, len(shown)),
		Dropped:     bag.Dropped() + len(items) - len(shown),
	}
	for _, d := range shown {
		e := Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: loc.at(d.Primary),
		}
		// у таймингов полезная нагрузка целиком в заметках
		if opts.IncludeNotes || d.Code == diag.ObsTimings {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, EntryNote{Message: n.Msg, Location: loc.at(n.Span)})
			}
		}
		doc.Diagnostics = append(doc.Diagnostics, e)
	}
	doc.Count = len(doc.Diagnostics)
	return doc
}

// JSON writes BuildDocument as indented json.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDocument(bag, fs, opts))
}
