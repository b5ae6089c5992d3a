package engine

import (
	"context"

	"graft.dev/graft/internal/git"
)

// Backend defines the version-control operations the engine needs. This
// allows the engine to run against both real git and fake implementations.
//
// Mutating operations work on whatever state the last Checkout established.
// An operation that reports an apply conflict must leave the working state
// aborted, ready for the next Checkout.
type Backend interface {
	// History lists the changesets reachable from `from` but not from
	// `excluding`, newest first, each with its recorded parents.
	History(ctx context.Context, from, excluding string) ([]HistoryEntry, error)

	// Resolve turns a ref into a full changeset identifier
	Resolve(ctx context.Context, ref string) (string, error)

	// IsAncestor reports whether ancestor is reachable from descendant.
	// A changeset counts as its own ancestor.
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)

	// Checkout resets the working state to the given changeset
	Checkout(ctx context.Context, ref string) error

	// ApplyOne ports a single changeset onto the current working state and
	// returns the identifier of the new changeset
	ApplyOne(ctx context.Context, changeset string) (string, error)

	// MergeTwo merges changeset B into changeset A and returns the
	// identifier of the merge changeset. Leaves the working state at the
	// new changeset.
	MergeTwo(ctx context.Context, refA, refB string) (string, error)

	// ForgeMerge creates a changeset carrying the content of contentRef and
	// exactly the given parents, in order, without any content merge
	ForgeMerge(ctx context.Context, contentRef string, parents []string) (string, error)

	// CurrentHead returns the identifier the working state currently sits on
	CurrentHead(ctx context.Context) (string, error)
}

// NewGitBackend returns a Backend that drives the real git repository through
// the git package.
func NewGitBackend() Backend {
	return &realBackend{}
}

// realBackend implements Backend by calling the actual git package functions
type realBackend struct{}

func (b *realBackend) History(ctx context.Context, from, excluding string) ([]HistoryEntry, error) {
	revs, err := git.RevListWithParents(ctx, from, excluding)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, len(revs))
	for i, rev := range revs {
		entries[i] = HistoryEntry{Hash: rev.Hash, Parents: rev.Parents}
	}
	return entries, nil
}

func (b *realBackend) Resolve(ctx context.Context, ref string) (string, error) {
	return git.ResolveCommit(ref)
}

func (b *realBackend) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	return git.IsAncestor(ancestor, descendant)
}

func (b *realBackend) Checkout(ctx context.Context, ref string) error {
	return git.CheckoutDetached(ctx, ref)
}

func (b *realBackend) ApplyOne(ctx context.Context, changeset string) (string, error) {
	return git.CherryPick(ctx, changeset)
}

func (b *realBackend) MergeTwo(ctx context.Context, refA, refB string) (string, error) {
	if err := git.CheckoutDetached(ctx, refA); err != nil {
		return "", err
	}
	return git.MergeNoEdit(ctx, refB)
}

func (b *realBackend) ForgeMerge(ctx context.Context, contentRef string, parents []string) (string, error) {
	message, err := git.CommitMessage(contentRef)
	if err != nil {
		return "", err
	}
	return git.CommitTree(ctx, contentRef, parents, message)
}

func (b *realBackend) CurrentHead(ctx context.Context) (string, error) {
	return git.CurrentHead()
}
