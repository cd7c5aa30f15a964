// Package cli implements the petapd command-line interface using Cobra.
// Each subcommand maps to one engine capability (serve, steps, claim, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "petapd",
	Short: "petapd — Step-challenge and sticker-entitlement daemon",
	Long: `petapd tracks daily step-count challenges, grants sticker rewards,
and manages the sticker-creation chance budget for each user.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
