package actions

import (
	"strings"

	"graft.dev/graft/internal/config"
	"graft.dev/graft/internal/git"
	"graft.dev/graft/internal/runtime"
	"graft.dev/graft/internal/tui"
)

// ChainOptions contains options for the chain command
type ChainOptions struct {
	Base     string
	Upstream string
}

// ChainAction validates the changeset chain between base and upstream and
// prints it oldest first.
func ChainAction(ctx *runtime.Context, opts ChainOptions) error {
	eng := ctx.Engine
	splog := ctx.Splog

	chain, err := eng.ValidateChain(ctx.Context, opts.Base, opts.Upstream)
	if err != nil {
		return err
	}

	if len(chain) == 0 {
		splog.Info("%s and %s point at the same changeset; the chain is empty.", opts.Base, opts.Upstream)
		return nil
	}

	abbrev, err := config.GetAbbrevLen(ctx.RepoRoot)
	if err != nil {
		return err
	}

	splog.Info("%d changeset(s) from %s to %s, oldest first:", len(chain), opts.Base, opts.Upstream)
	for i, sha := range chain {
		subject := ""
		if msg, err := git.CommitMessage(sha); err == nil {
			subject = firstLine(msg)
		}
		splog.Info("  %d. %s %s", i+1, tui.ColorCyan(shortRev(sha, abbrev)), subject)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// shortRev truncates a revision id for display. Non-positive widths leave
// it untouched.
func shortRev(rev string, width int) string {
	if width <= 0 || width >= len(rev) {
		return rev
	}
	return rev[:width]
}
