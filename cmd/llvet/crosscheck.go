package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"llvet/internal/crosscheck"
	"llvet/internal/driver"
)

func newCrosscheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crosscheck file.ll",
		Short: "Compare llvet's reading of a file with llir/llvm",
		Long: `Crosscheck parses the file with llvet and with github.com/llir/llvm and
compares entity counts (types, globals, functions, blocks, instructions)`,
		Args: cobra.ExactArgs(1),
		RunE: runCrosscheck,
	}
}

func runCrosscheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	path := args[0]
	s, err := loadSettings(cmd, path)
	if err != nil {
		return err
	}
	s.output.format = "pretty"
	result, err := driver.ParseFile(path, s.opts)
	if err != nil {
		return err
	}
	if err := reportResult(cmd, result.Bag, result.FileSet, s); err != nil {
		return err
	}
	if result.Module == nil {
		return errFailed
	}
	// #nosec G304 -- path is a user-supplied input file
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res := crosscheck.Check(path, src, result.Module)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "entity\tllvet\tllir")
	for _, row := range res.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row[0], row[1], row[2])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if res.LLIRErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "llir: %v\n", res.LLIRErr)
		return errFailed
	}
	for _, m := range res.Mismatches {
		fmt.Fprintln(cmd.ErrOrStderr(), "mismatch:", m.String())
	}
	if !res.Agree() {
		return errFailed
	}
	return nil
}
