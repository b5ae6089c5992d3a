package actions

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"graft.dev/graft/internal/config"
	"graft.dev/graft/internal/engine"
	"graft.dev/graft/internal/git"
	"graft.dev/graft/internal/journal"
	"graft.dev/graft/internal/runtime"
	"graft.dev/graft/internal/tui"
)

// PortOptions contains options for the port command
type PortOptions struct {
	Base     string
	Upstream string
	Tip      string
	Force    bool
	ShowTree bool
}

// PortAction ports the changeset chain between base and upstream onto the
// tree of work that already builds on base, then flattens the result.
func PortAction(ctx *runtime.Context, opts PortOptions) error {
	eng := ctx.Engine
	splog := ctx.Splog

	// Porting checks out and rewrites commits while it runs
	dirty, err := git.IsWorktreeDirty(ctx.Context)
	if err != nil {
		return err
	}
	if dirty && !opts.Force {
		msg := "Your working tree has uncommitted changes that a port run would clobber. Continue anyway?"
		confirmed, err := tui.PromptConfirm(msg, false)
		if err != nil {
			return fmt.Errorf("failed to get confirmation: %w", err)
		}
		if !confirmed {
			splog.Info("Port canceled.")
			return nil
		}
	}

	// Remember the branch we started on so the user lands back on it
	startBranch, err := git.CurrentBranch()
	if err != nil {
		return err
	}

	splog.Debug("Porting %s..%s", opts.Base, opts.Upstream)

	result, portErr := eng.Port(ctx.Context, engine.PortOptions{
		Base:     opts.Base,
		Upstream: opts.Upstream,
		Tip:      opts.Tip,
	})

	if startBranch != "" {
		if err := git.CheckoutBranch(ctx.Context, startBranch); err != nil {
			splog.Warn("Could not return to branch %s: %v", startBranch, err)
		}
	}

	if err := appendJournal(ctx, opts, result, portErr); err != nil {
		splog.Debug("Failed to journal run: %v", err)
	}

	if portErr != nil {
		return portErr
	}

	if len(result.Chain) == 0 {
		splog.Info("No changesets between %s and %s. Nothing to port.", opts.Base, opts.Upstream)
		return nil
	}

	splog.Info("Ported %d changeset(s) from %s onto %s.", len(result.Chain), opts.Upstream, opts.Base)
	printStats(splog, result.Stats)

	if opts.ShowTree {
		abbrev, err := config.GetAbbrevLen(ctx.RepoRoot)
		if err != nil {
			return err
		}
		renderer := tui.NewTreeRenderer(abbrev)
		splog.Newline()
		splog.Info("Ported tree:")
		splog.Page(renderer.Render(result.Root))
		splog.Newline()
		splog.Info("Flattened tree:")
		splog.Page(renderer.Render(result.Flattened))
		splog.Newline()
	}

	splog.Info("Ported head is %s, flattened head is %s.",
		tui.ColorCyan(result.Root.Commit), tui.ColorGreen(result.Flattened.Commit))
	splog.Tip("Run 'graft runs show %s' to revisit this run.", shortRev(result.RunID, 8))
	return nil
}

// appendJournal records a finished run, successful or not. Journaling is
// best effort and never fails the port itself.
func appendJournal(ctx *runtime.Context, opts PortOptions, result *engine.PortResult, runErr error) error {
	enabled, err := config.IsJournalEnabled(ctx.RepoRoot)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	j, err := journal.Open(ctx.RepoRoot)
	if err != nil {
		return err
	}
	defer j.Close()

	record := &journal.Record{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		BaseRef:     opts.Base,
		UpstreamRef: opts.Upstream,
		TipRef:      opts.Tip,
		Status:      journal.StatusFailed,
	}
	if runErr != nil {
		record.Error = runErr.Error()
	}
	if result != nil {
		record.ID = result.RunID
		record.Base = result.Base
		record.Upstream = result.Upstream
		record.Status = journal.StatusCompleted
		record.Chain = result.Chain
		record.Stats = result.Stats
		record.Root = journal.EncodeTree(result.Root)
		record.Flattened = journal.EncodeTree(result.Flattened)
	}
	return j.Append(record)
}

func printStats(splog *tui.Splog, stats engine.Stats) {
	splog.Info("  %d picked, %d merged, %d forged (%d conflicts, %d fallbacks)",
		stats.Picks, stats.Merges, stats.Forges, stats.Conflicts, stats.Fallbacks)
}
