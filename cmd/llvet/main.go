package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"llvet/internal/version"
)

// errFailed signals that diagnostics were already printed and the process
// must exit with status 1.
var errFailed = errors.New("llvet: errors reported")

// newRootCmd builds the command tree; tests build a fresh one per run.
// finish stops the tracer and profilers and must run after Execute, also
// when a command fails.
func newRootCmd() (root *cobra.Command, finish func()) {
	var cleanup []func()
	finish = func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
		cleanup = nil
	}
	root = &cobra.Command{
		Use:           "llvet",
		Short:         "LLVM IR parser and verifier",
		Long:          `llvet parses textual LLVM IR and reports every verifier violation it finds`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			stopProf, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			cleanup = append(cleanup, stopProf)
			stopTrace, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			cleanup = append(cleanup, stopTrace)
			return nil
		},
	}

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newVerifyCmd(),
		newCrosscheckCmd(),
		newVersionCmd(),
	)
	return root, finish
}

func main() {
	root, finish := newRootCmd()
	err := root.Execute()
	finish()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "llvet:", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
