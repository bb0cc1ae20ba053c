// stagectl evaluates startup snapshot series offline.
//
// Usage:
//
//	stagectl evaluate -f <series.yaml> [--xlsx <out.xlsx>] [--ceiling <n>] [--markdown]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "stagectl",
	Short: "Derive startup stages from dated financial snapshots",
	Long:  "stagectl runs the stage derivation pipeline over a YAML series of\nsnapshots without a database and reports stages, timeline and trends.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
