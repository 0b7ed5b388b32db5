package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"llvet/internal/source"
)

// Cursor walks the bytes of one file. Reads past Limit yield 0.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // исключающая граница для Off, по умолчанию len(File.Content)
}

func NewCursor(f *source.File) Cursor {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: n}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// at возвращает байт по абсолютному смещению или 0 за границей.
func (c *Cursor) at(off uint32) byte {
	if off >= c.Limit {
		return 0
	}
	return c.File.Content[off]
}

func (c *Cursor) Peek() byte { return c.at(c.Off) }

// PeekAt looks n bytes ahead.
func (c *Cursor) PeekAt(n uint32) byte { return c.at(c.Off + n) }

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.at(c.Off), c.at(c.Off + 1), true
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.at(c.Off)
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes the next byte when it equals b.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.File.Content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

func (c *Cursor) SkipToEnd() { c.Off = c.Limit }

// Mark is a saved offset for SpanFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers [m, Off).
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
