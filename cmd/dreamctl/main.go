// Command dreamctl runs the interpretation pipeline and checks fallback
// catalogs from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dreamctl",
		Short:         "Operator tooling for the oh-my-freud backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level for diagnostics written to stderr")

	rootCmd.AddCommand(interpretCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(langCmd())
	return rootCmd
}
