package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nalgeon/be"

	"llvet/internal/config"
	"llvet/internal/driver"
	"llvet/internal/verify"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	be.Err(t, os.MkdirAll(filepath.Dir(path), 0o755), nil)
	be.Err(t, os.WriteFile(path, []byte(content), 0o600), nil)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	write(t, path, `
[parser]
max_depth = 64

[verify]
phases = ["structural", "cfg"]
max_violations = 10

[output]
format = "json"
`)
	cfg, err := config.Load(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Path, path)
	be.Equal(t, cfg.Parser.MaxDepth, 64)
	be.Equal(t, cfg.Output.Format, "json")
	be.Equal(t, cfg.Output.Color, "auto")
	be.Equal(t, cfg.Output.MaxDiagnostics, 100)
	be.Equal(t, len(cfg.Undecoded), 0)

	var opts driver.Options
	be.Err(t, cfg.Apply(&opts), nil)
	be.Equal(t, opts.Verify, verify.PhaseStructural|verify.PhaseCFG)
	be.Equal(t, opts.MaxViolations, 10)
	be.Equal(t, opts.MaxDepth, 64)
	be.Equal(t, opts.MaxDiagnostics, 100)
}

func TestLoadReportsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	write(t, path, "[verify]\nphase = [\"cfg\"]\n[extra]\nx = 1\n")
	cfg, err := config.Load(path)
	be.Err(t, err, nil)
	be.True(t, slices.Contains(cfg.Undecoded, "verify.phase"))
	be.True(t, slices.Contains(cfg.Undecoded, "extra.x"))
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"phase", "[verify]\nphases = [\"loops\"]\n", "unknown verification phase"},
		{"format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"color", "[output]\ncolor = \"always\"\n", "output.color"},
		{"negative", "[verify]\njobs = -1\n", "verify.jobs must not be negative"},
		{"syntax", "[verify\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), config.FileName)
			write(t, path, tt.body)
			_, err := config.Load(path)
			be.Err(t, err, tt.want)
		})
	}
}

func TestInvalidIsSentinel(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Format = "xml"
	be.Err(t, cfg.Validate(), config.ErrInvalid)
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, config.FileName), "[verify]\nmax_violations = 3\n")
	file := filepath.Join(root, "a", "b", "x.ll")
	write(t, file, "")

	path, ok, err := config.Find(file)
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, path, filepath.Join(root, config.FileName))

	cfg, err := config.Discover(filepath.Dir(file))
	be.Err(t, err, nil)
	be.Equal(t, cfg.Verify.MaxViolations, 3)
}

func TestDiscoverWithoutFileUsesDefault(t *testing.T) {
	cfg, err := config.Discover(t.TempDir())
	be.Err(t, err, nil)
	be.Equal(t, cfg.Path, "")
	be.Equal(t, cfg.Output.Format, "pretty")
}
