package actions

import (
	"time"

	"graft.dev/graft/internal/config"
	"graft.dev/graft/internal/journal"
	"graft.dev/graft/internal/runtime"
	"graft.dev/graft/internal/tui"
)

// RunsOptions contains options for the runs command
type RunsOptions struct {
	Limit int
}

// RunsAction lists recent journaled port runs, newest first
func RunsAction(ctx *runtime.Context, opts RunsOptions) error {
	splog := ctx.Splog

	j, err := journal.Open(ctx.RepoRoot)
	if err != nil {
		return err
	}
	defer j.Close()

	records, err := j.Recent(opts.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		splog.Info("No port runs recorded yet.")
		splog.Tip("Run 'graft port' to record one.")
		return nil
	}

	for _, rec := range records {
		status := tui.ColorGreen(rec.Status)
		if rec.Status == journal.StatusFailed {
			status = tui.ColorRed(rec.Status)
		}
		splog.Info("%s  %s  %s..%s  %d changeset(s)  %s",
			tui.ColorCyan(shortRev(rec.ID, 8)),
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.BaseRef, rec.UpstreamRef, len(rec.Chain), status)
	}
	return nil
}

// RunsShowOptions contains options for the runs show command
type RunsShowOptions struct {
	ID string
}

// RunsShowAction prints one journaled run in full, including the recorded
// ported and flattened trees.
func RunsShowAction(ctx *runtime.Context, opts RunsShowOptions) error {
	splog := ctx.Splog

	j, err := journal.Open(ctx.RepoRoot)
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.Get(opts.ID)
	if err != nil {
		return err
	}

	abbrev, err := config.GetAbbrevLen(ctx.RepoRoot)
	if err != nil {
		return err
	}

	status := tui.ColorGreen(rec.Status)
	if rec.Status == journal.StatusFailed {
		status = tui.ColorRed(rec.Status)
	}
	splog.Info("Run %s  %s", tui.ColorCyan(rec.ID), status)
	splog.Info("Created:  %s", rec.CreatedAt.Format(time.RFC1123))
	splog.Info("Range:    %s..%s", rec.BaseRef, rec.UpstreamRef)
	if rec.TipRef != "" {
		splog.Info("Tip:      %s", rec.TipRef)
	}
	if rec.Error != "" {
		splog.Error("%s", rec.Error)
		return nil
	}

	printStats(splog, rec.Stats)

	if len(rec.Chain) > 0 {
		splog.Newline()
		splog.Info("Chain, oldest first:")
		for i, sha := range rec.Chain {
			splog.Info("  %d. %s", i+1, tui.ColorCyan(shortRev(sha, abbrev)))
		}
	}

	renderer := tui.NewTreeRenderer(abbrev)
	if root := rec.Root.Decode(); root != nil {
		splog.Newline()
		splog.Info("Ported tree:")
		splog.Page(renderer.Render(root))
	}
	if flat := rec.Flattened.Decode(); flat != nil {
		splog.Newline()
		splog.Info("Flattened tree:")
		splog.Page(renderer.Render(flat))
	}
	return nil
}
