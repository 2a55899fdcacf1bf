package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/protostate/internal/cli"
	"github.com/aretw0/protostate/internal/presentation/tui"
	"github.com/aretw0/protostate/pkg/analysis"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// errProblems makes --strict exit non-zero.
var errProblems = errors.New("machine has problems")

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Report unreachable and unresolved states",
	Long: `Reads a machine file (JSON or YAML) and reports states that cannot be
reached from the initial state, targets that name no state and an undefined
initial state. With --strict the command fails when any problem is found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		strict, _ := cmd.Flags().GetBool("strict")
		if format == "" {
			format = "text"
			if tui.IsTerminal(cmd.OutOrStdout()) {
				format = "markdown"
			}
		}
		return runAnalyze(cmd.OutOrStdout(), args[0], format, strict)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Bool("strict", false, "Exit with an error when problems are found")
	analyzeCmd.Flags().String("format", "", "Output format: markdown, text or json (default markdown on a terminal, text otherwise)")
}

type analyzeOutput struct {
	File    string          `json:"file"`
	Initial string          `json:"initial"`
	States  []string        `json:"states"`
	Report  analysis.Report `json:"report"`
}

func runAnalyze(w io.Writer, path, format string, strict bool) error {
	m, err := cli.LoadMachine(path)
	if err != nil {
		return err
	}
	report := analysis.Analyze(m)
	title := filepath.Base(path)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		out := analyzeOutput{File: path, Initial: m.Initial(), States: m.Names(), Report: report}
		if out.States == nil {
			out.States = []string{}
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	case "markdown":
		md := tui.ReportMarkdown(title, m, report)
		if tui.IsTerminal(w) {
			rendered, err := tui.NewRenderer()(md)
			if err == nil {
				md = rendered
			}
		}
		fmt.Fprint(w, md)
	case "text":
		profile := termenv.Ascii
		if tui.IsTerminal(w) {
			profile = termenv.ColorProfile()
		}
		tui.WriteReport(w, profile, title, m, report)
	default:
		return fmt.Errorf("unknown format %q (want markdown, text or json)", format)
	}

	if strict && !report.Clean() {
		return errProblems
	}
	return nil
}
