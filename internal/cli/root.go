// Package cli implements taskctl, an offline companion to the server: it
// renders board and analytics views from seed data and mints API tokens.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the taskctl command tree.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskctl",
		Short: "taskctl - task board from the command line",
		Long: `taskctl renders the task board and analytics from a YAML seed file
(or the built-in sample board) and mints bearer tokens for the HTTP API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newAnalyticsCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newVersionCmd(version))
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taskctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskctl %s\n", version)
		},
	}
}
