package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/protostate"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of protostate",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "protostate version %s\n", strings.TrimSpace(protostate.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
