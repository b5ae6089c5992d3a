package cli

import (
	"github.com/spf13/cobra"

	"graft.dev/graft/internal/actions"
	"graft.dev/graft/internal/runtime"
)

// newRunsCmd creates the runs command
func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent port runs recorded in the journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtime.GetContext()
			if err != nil {
				return err
			}
			rt.Context = cmd.Context()

			return actions.RunsAction(rt, actions.RunsOptions{Limit: limit})
		},
	}

	// Add flags
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")

	cmd.AddCommand(newRunsShowCmd())

	return cmd
}

// newRunsShowCmd creates the runs show command
func newRunsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded port run, including its trees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.GetContext()
			if err != nil {
				return err
			}
			rt.Context = cmd.Context()

			return actions.RunsShowAction(rt, actions.RunsShowOptions{ID: args[0]})
		},
	}

	return cmd
}
