package main

import (
	"fmt"

	"github.com/aretw0/protostate/internal/cli"
	"github.com/aretw0/protostate/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the machine as a Mermaid diagram",
	Long: `Reads a machine file (JSON or YAML) and prints a Mermaid diagram (graph TD).
Unreachable and unresolved states are styled; --current highlights a state.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := cli.LoadMachine(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if current, _ := cmd.Flags().GetString("current"); current != "" {
			overlay = &graph.GraphOverlay{CurrentState: current}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "State to highlight as current")
}
