package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"llvet/internal/diag"
	"llvet/internal/driver"
	"llvet/internal/source"
	"llvet/internal/ui"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [flags] <file.ll|directory>",
		Short: "Verify an LLVM IR file or every *.ll file in a directory",
		Long: `Verify parses the input and runs the verifier phases over it, reporting
every violation found rather than stopping at the first one`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|json|short)")
	f.StringSlice("phases", []string{"all"}, "verifier phases (structural,type,cfg,attributes,metadata|all)")
	f.Int("max-violations", 0, "stop collecting after N violations (0=unlimited)")
	f.Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	f.String("ui", "auto", "progress UI for directories (auto|on|off)")
	f.Bool("disk-cache", false, "reuse results for unchanged files from the on-disk cache")
	f.String("config", "", "path to llvet.toml (default: discovered from the input)")
	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	target := args[0]
	dir, err := isDir(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	if err := s.openCache(); err != nil {
		return err
	}

	var (
		bag        *diag.Bag
		fs         *source.FileSet
		ok         bool
		violations int
		files      int
	)
	if dir {
		res, err := verifyDir(cmd, target, s)
		if err != nil {
			return err
		}
		bag, fs, ok, violations, files = res.Bag(), res.FileSet, res.OK(), res.Violations(), len(res.Files)
	} else {
		res, err := driver.VerifyFile(target, s.opts)
		if err != nil {
			return err
		}
		bag, fs, ok, violations, files = res.Bag, res.FileSet, res.OK(), res.Violations(), 1
	}

	diagOut := cmd.ErrOrStderr()
	if s.output.format == "json" {
		diagOut = cmd.OutOrStdout()
	}
	if err := printDiagnostics(diagOut, bag, fs, s.output); err != nil {
		return err
	}
	if s.opts.Timings {
		printTimings(cmd.ErrOrStderr(), bag)
	}
	if s.output.format != "json" {
		printVerdict(cmd.ErrOrStderr(), files, violations, ok)
	}
	if !ok {
		return errFailed
	}
	return nil
}

func verifyDir(cmd *cobra.Command, dir string, s *runSettings) (*driver.DirResult, error) {
	files, err := driver.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	if shouldUseTUI(s.ui, cmd.OutOrStdout()) && len(files) > 0 {
		return verifyFilesWithUI(cmd.Context(), cmd.OutOrStdout(), dir, files, s.opts)
	}
	return driver.VerifyFiles(cmd.Context(), dir, files, s.opts)
}

func printVerdict(w io.Writer, files, violations int, ok bool) {
	checked := ui.Count(files, "file")
	switch {
	case ok:
		fmt.Fprintf(w, "%s verified, no violations\n", checked)
	case violations > 0:
		fmt.Fprintf(w, "%s checked, %s\n", checked, ui.Count(violations, "violation"))
	default:
		fmt.Fprintf(w, "%s checked, errors reported\n", checked)
	}
}
