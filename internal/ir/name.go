package ir

import (
	"strconv"

	"llvet/internal/types"
)

// Name is the textual name of a value or block. Numbered names keep Text
// empty; Set is false for unnamed entities such as void instructions.
type Name struct {
	Text string
	Num  uint32
	Set  bool
}

// Named builds %text / @text.
func Named(text string) Name { return Name{Text: text, Set: true} }

// Numbered builds %N / @N.
func Numbered(n uint32) Name { return Name{Num: n, Set: true} }

// IsNumbered reports %N names.
func (n Name) IsNumbered() bool { return n.Set && n.Text == "" }

// body renders the part after the sigil.
func (n Name) body() string {
	if n.IsNumbered() {
		return strconv.FormatUint(uint64(n.Num), 10)
	}
	return types.QuoteName(n.Text)
}

// Local renders %name.
func (n Name) Local() string {
	if !n.Set {
		return ""
	}
	return "%" + n.body()
}

// Global renders @name.
func (n Name) Global() string {
	if !n.Set {
		return ""
	}
	return "@" + n.body()
}

// Label renders the block header form "name:".
func (n Name) Label() string {
	return n.body() + ":"
}

func (n Name) String() string {
	return n.Local()
}
