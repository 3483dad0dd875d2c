// Package main implements the condense CLI for running hierarchical
// context reduction from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version information, set at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "condense",
	Short: "Hierarchically condense context items to fit a character budget",
	Long: `condense batches context items under a character budget, runs an
extractor over each batch, and recursively re-condenses the results until
the final output fits the budget.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(runCmd)
}
