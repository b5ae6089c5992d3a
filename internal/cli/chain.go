package cli

import (
	"github.com/spf13/cobra"

	"graft.dev/graft/internal/actions"
	"graft.dev/graft/internal/runtime"
)

// newChainCmd creates the chain command
func newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain <base> <upstream>",
		Short: "Validate and print the changeset chain between base and upstream",
		Long: `Validate and print the changeset chain between base and upstream.

The commits reachable from <upstream> but not from <base> must form a
strictly linear chain: no merges, no forks, each changeset building on the
one before it. The chain is printed oldest first, the order in which a
port would replay it.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.GetContext()
			if err != nil {
				return err
			}
			rt.Context = cmd.Context()

			opts := actions.ChainOptions{
				Base:     args[0],
				Upstream: args[1],
			}
			return actions.ChainAction(rt, opts)
		},
	}

	return cmd
}
