package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"llvet/internal/diag"
	"llvet/internal/diagfmt"
	"llvet/internal/driver"
	"llvet/internal/observ"
	"llvet/internal/source"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// useColor resolves --color for w; only *os.File can be a terminal.
func useColor(cmd *cobra.Command, fallback string, w io.Writer) (bool, error) {
	value := fallback
	if f := cmd.Root().PersistentFlags().Lookup("color"); f != nil && f.Changed {
		value = f.Value.String()
	}
	mode, err := readColorMode(value)
	if err != nil {
		return false, err
	}
	switch mode {
	case colorOn:
		return true, nil
	case colorOff:
		return false, nil
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f) && !color.NoColor, nil
}

type diagOutput struct {
	format   string
	color    bool
	maxShown int
}

// printDiagnostics renders bag without OBS6001 entries; timings have their
// own output.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, out diagOutput) error {
	shown := diag.NewBag(0)
	shown.Merge(bag)
	shown.Filter(func(d diag.Diagnostic) bool { return d.Code != diag.ObsTimings })
	switch out.format {
	case "pretty":
		diagfmt.Pretty(w, shown, fs, diagfmt.PrettyOpts{
			Color:     out.color,
			Context:   2,
			ShowNotes: true,
		})
		return nil
	case "short":
		return diagfmt.Short(w, shown, fs, true)
	case "json":
		return diagfmt.JSON(w, shown, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              out.maxShown,
		})
	default:
		return fmt.Errorf("unknown format: %s", out.format)
	}
}

// printTimings collects OBS6001 payloads from bag and prints their sum.
func printTimings(w io.Writer, bag *diag.Bag) {
	var reports []observ.Report
	for _, d := range bag.Items() {
		if r, ok := driver.TimingPhases(d); ok {
			reports = append(reports, r)
		}
	}
	if len(reports) == 0 {
		return
	}
	fmt.Fprint(w, observ.Merge(reports...).Summary())
}

// reportResult prints diagnostics to stderr and, with --timings, the
// timing table.
func reportResult(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, s *runSettings) error {
	errOut := cmd.ErrOrStderr()
	if err := printDiagnostics(errOut, bag, fs, s.output); err != nil {
		return err
	}
	if s.opts.Timings {
		printTimings(errOut, bag)
	}
	return nil
}
