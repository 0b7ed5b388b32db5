// Package config loads llvet.toml.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"

	"llvet/internal/driver"
	"llvet/internal/verify"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Parser struct {
	MaxDepth       int `toml:"max_depth"`
	MaxTokens      int `toml:"max_tokens"`
	MaxTokenLength int `toml:"max_token_length"`
}

type Verify struct {
	Phases        []string `toml:"phases"`
	MaxViolations int      `toml:"max_violations"`
	Jobs          int      `toml:"jobs"`
}

type Output struct {
	Format         string `toml:"format"`
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Config mirrors llvet.toml. Zero fields mean "use the driver default".
type Config struct {
	Parser Parser `toml:"parser"`
	Verify Verify `toml:"verify"`
	Output Output `toml:"output"`
	Cache  Cache  `toml:"cache"`

	// Path is empty for Default.
	Path string `toml:"-"`
	// Undecoded lists keys present in the file but unknown to Config.
	Undecoded []string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Verify: Verify{Phases: []string{"all"}},
		Output: Output{Format: "pretty", Color: "auto", MaxDiagnostics: 100},
	}
}

// Load decodes path over Default and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	for _, k := range meta.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, k.String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest llvet.toml above start, or Default when none
// exists.
func Discover(start string) (*Config, error) {
	path, ok, err := Find(start)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

var (
	formats = []string{"pretty", "json", "short"}
	colors  = []string{"auto", "on", "off"}
)

// Validate checks enums and ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := verify.ParsePhases(c.Verify.Phases); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format %q (expected: pretty|json|short)", c.Output.Format))
	}
	if !slices.Contains(colors, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color %q (expected: auto|on|off)", c.Output.Color))
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"parser.max_depth", c.Parser.MaxDepth},
		{"parser.max_tokens", c.Parser.MaxTokens},
		{"parser.max_token_length", c.Parser.MaxTokenLength},
		{"verify.max_violations", c.Verify.MaxViolations},
		{"verify.jobs", c.Verify.Jobs},
		{"output.max_diagnostics", c.Output.MaxDiagnostics},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", f.name, f.v))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// Apply copies the settings into driver options. Flags are applied after
// Apply and override it.
func (c *Config) Apply(opts *driver.Options) error {
	phases, err := verify.ParsePhases(c.Verify.Phases)
	if err != nil {
		return err
	}
	opts.MaxDepth = c.Parser.MaxDepth
	opts.MaxTokens = c.Parser.MaxTokens
	opts.MaxTokenLength = c.Parser.MaxTokenLength
	opts.Verify = phases
	opts.MaxViolations = c.Verify.MaxViolations
	opts.Jobs = c.Verify.Jobs
	opts.MaxDiagnostics = c.Output.MaxDiagnostics
	return nil
}
