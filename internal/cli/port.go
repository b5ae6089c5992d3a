package cli

import (
	"github.com/spf13/cobra"

	"graft.dev/graft/internal/actions"
	"graft.dev/graft/internal/runtime"
)

// newPortCmd creates the port command
func newPortCmd() *cobra.Command {
	var (
		tip      string
		force    bool
		showTree bool
	)

	cmd := &cobra.Command{
		Use:   "port <base> <upstream>",
		Short: "Port the changesets between base and upstream onto the dependent tree",
		Long: `Port the changesets between base and upstream onto the dependent tree.

The commits reachable from <upstream> but not from <base> must form a
strictly linear chain. Each changeset is replayed across the tree of work
that builds on <base>, branch by branch, and the merge bubbles left by the
replay are flattened afterwards.

By default the chain is ported onto the bare base commit. Pass --tip to
port onto the history between <base> and an existing branch instead.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.GetContext()
			if err != nil {
				return err
			}
			rt.Context = cmd.Context()

			opts := actions.PortOptions{
				Base:     args[0],
				Upstream: args[1],
				Tip:      tip,
				Force:    force,
				ShowTree: showTree,
			}
			return actions.PortAction(rt, opts)
		},
	}

	// Add flags
	cmd.Flags().StringVarP(&tip, "tip", "t", "", "Branch whose history down to <base> forms the tree to port onto")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not prompt when the working tree has uncommitted changes")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the ported and flattened trees")

	_ = cmd.RegisterFlagCompletionFunc("tip", completeBranches)

	return cmd
}
