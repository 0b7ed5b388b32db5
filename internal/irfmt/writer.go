package irfmt

// Writer accumulates output and keeps track of indentation.
type Writer struct {
	buf         []byte
	indentWidth int
	indentLevel int
	atLineStart bool
}

func newWriter(indentWidth int) *Writer {
	return &Writer{indentWidth: indentWidth, atLineStart: true}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for range w.indentLevel * w.indentWidth {
		w.buf = append(w.buf, ' ')
	}
	w.atLineStart = false
}

// WriteString writes s, indenting at the start of a line.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Space writes a single space unless the output already ends with one.
func (w *Writer) Space() {
	if len(w.buf) == 0 {
		return
	}
	if last := w.buf[len(w.buf)-1]; last == ' ' || last == '\n' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// BlankLine separates top-level groups; repeated calls collapse.
func (w *Writer) BlankLine() {
	n := len(w.buf)
	if n == 0 || (n >= 2 && w.buf[n-1] == '\n' && w.buf[n-2] == '\n') {
		return
	}
	if w.buf[n-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

func (w *Writer) IndentPush() { w.indentLevel++ }

func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
