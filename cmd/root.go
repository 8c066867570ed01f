// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recent-contributors",
	Short: "A CLI tool to aggregate recent commit contributors in a GitHub organization.",
	Long: `recent-contributors aggregates commit activity across all repositories of a
GitHub organization over a trailing window of days, distinguishes free-text
commit-author names from GitHub account logins, and cross-references the
logins against the organization's membership roster to separate internal
from external contributors.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
