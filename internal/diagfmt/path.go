package diagfmt

import (
	"path/filepath"

	"llvet/internal/source"
)

// autoPathLimit: длиннее этого авто-режим печатает только имя файла.
const autoPathLimit = 48

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if filepath.IsAbs(f.Path) {
			return filepath.ToSlash(f.Path)
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return f.DisplayPath(fs.BaseDir())
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	p := f.DisplayPath(fs.BaseDir())
	if len(p) > autoPathLimit {
		return filepath.Base(p)
	}
	return p
}
