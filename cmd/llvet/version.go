package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"llvet/internal/version"
)

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show llvet build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Current()
			switch strings.ToLower(format) {
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), info)
			case "pretty":
				colored, err := useColor(cmd, "auto", cmd.OutOrStdout())
				if err != nil {
					return err
				}
				renderVersionPretty(cmd.OutOrStdout(), info, full, colored)
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "also print Go version and platform")
	return cmd
}

func renderVersionPretty(out io.Writer, info version.Info, full, colored bool) {
	prev := color.NoColor
	color.NoColor = !colored
	defer func() { color.NoColor = prev }()

	fmt.Fprintln(out, version.Banner())
	if full {
		fmt.Fprintf(out, "go:       %s\n", info.GoVersion)
		fmt.Fprintf(out, "platform: %s\n", info.Platform)
	}
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
