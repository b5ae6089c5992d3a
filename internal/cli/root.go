// Package cli wires the graft commands together.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graft.dev/graft/internal/runtime"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var quiet bool

	rootCmd := &cobra.Command{
		Use:   "graft",
		Short: "Graft ports a chain of changesets onto every branch that builds on its base",
		Long: `Graft ports a chain of changesets onto every branch that builds on its base.

Given a base, an upstream holding a strictly linear chain of changesets, and
the tree of work that already grew out of the base, graft replays the chain
across every branch of that tree and then flattens the merge bubbles the
replay leaves behind.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			runtime.SetQuiet(quiet)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")

	// Add subcommands
	rootCmd.AddCommand(newPortCmd())
	rootCmd.AddCommand(newChainCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
