package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"llvet/internal/config"
	"llvet/internal/driver"
	"llvet/internal/trace"
	"llvet/internal/verify"
)

// runSettings is llvet.toml merged with the command line.
type runSettings struct {
	cfg    *config.Config
	opts   driver.Options
	output diagOutput
	ui     uiMode
	cache  bool
}

// loadSettings discovers or loads the config for target and applies the
// flags that were set explicitly on top of it.
func loadSettings(cmd *cobra.Command, target string) (*runSettings, error) {
	cfg, err := readConfig(cmd, target)
	if err != nil {
		return nil, err
	}
	for _, k := range cfg.Undecoded {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: unknown key %q\n", cfg.Path, k)
	}

	s := &runSettings{cfg: cfg, ui: uiModeOff, cache: cfg.Cache.Enabled}
	if err := cfg.Apply(&s.opts); err != nil {
		return nil, err
	}
	s.opts.Context = cmd.Context()
	s.opts.Tracer = trace.FromContext(cmd.Context())

	root := cmd.Root().PersistentFlags()
	if root.Changed("max-diagnostics") {
		if s.opts.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}
	if s.opts.Timings, err = root.GetBool("timings"); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	s.output.format = cfg.Output.Format
	if f := flags.Lookup("format"); f != nil && f.Changed {
		s.output.format = f.Value.String()
	}
	if flags.Changed("phases") {
		names, err := flags.GetStringSlice("phases")
		if err != nil {
			return nil, err
		}
		if s.opts.Verify, err = verify.ParsePhases(names); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if s.opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-violations") {
		if s.opts.MaxViolations, err = flags.GetInt("max-violations"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("disk-cache") {
		if s.cache, err = flags.GetBool("disk-cache"); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("ui"); f != nil {
		if s.ui, err = readUIMode(f.Value.String()); err != nil {
			return nil, err
		}
	}

	if s.output.color, err = useColor(cmd, cfg.Output.Color, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	s.output.maxShown = s.opts.MaxDiagnostics
	return s, nil
}

func readConfig(cmd *cobra.Command, target string) (*config.Config, error) {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
		return config.Load(f.Value.String())
	}
	start := target
	if start == "" {
		start = "."
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	return config.Discover(abs)
}

// openCache opens the disk cache from settings; the directory from the
// config wins over the XDG location.
func (s *runSettings) openCache() error {
	if !s.cache {
		return nil
	}
	var (
		c   *driver.DiskCache
		err error
	)
	if dir := s.cfg.Cache.Dir; dir != "" {
		c, err = driver.OpenDir(dir)
	} else {
		c, err = driver.Open("llvet")
	}
	if err != nil {
		return fmt.Errorf("disk cache: %w", err)
	}
	s.opts.Cache = c
	return nil
}

func isDir(path string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return st.IsDir(), nil
}
