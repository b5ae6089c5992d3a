package engine

import (
	"context"
	"errors"

	grafterrors "graft.dev/graft/internal/errors"
)

// Propagate applies every changeset in the chain to the tree in order, each
// changeset building on the tree the previous one produced. An empty chain
// returns the tree unchanged. Any error aborts the whole propagation; the
// working state is left aborted, never mid-conflict.
func (e *Engine) Propagate(ctx context.Context, chain Chain, root *BranchNode) (*BranchNode, error) {
	working := root
	for _, changeset := range chain {
		next, err := e.ApplyChangeset(ctx, changeset, working)
		if err != nil {
			return nil, err
		}
		working = next
	}
	return working, nil
}

// ApplyChangeset ports a single changeset onto every branch of the tree
// below node and returns the new top of the grown tree. The policy at each
// node depends on its parent count; apply conflicts are converted into
// structural fallbacks wherever one is defined, so the only conflict that
// can escape is one at a parentless node with nothing to fall back to.
func (e *Engine) ApplyChangeset(ctx context.Context, changeset string, node *BranchNode) (*BranchNode, error) {
	switch len(node.Parents) {
	case 0:
		return e.applyDirect(ctx, changeset, node)
	case 1:
		return e.applyOnEdge(ctx, changeset, node)
	case 2:
		return e.applyOnMerge(ctx, changeset, node)
	default:
		return nil, grafterrors.NewParseError(
			"changeset %s has %d parents, cannot propagate onto it", node.Commit, len(node.Parents))
	}
}

// applyDirect checks out the node and applies the changeset right there.
// There is no fallback at this level: a conflict surfaces to the caller,
// which either has a structural fallback of its own or fails the run.
func (e *Engine) applyDirect(ctx context.Context, changeset string, node *BranchNode) (*BranchNode, error) {
	if err := e.backend.Checkout(ctx, node.Commit); err != nil {
		return nil, err
	}
	newCommit, err := e.backend.ApplyOne(ctx, changeset)
	if err != nil {
		if errors.Is(err, grafterrors.ErrApplyConflict) {
			e.stats.Conflicts++
		}
		return nil, err
	}
	e.stats.Picks++
	return &BranchNode{Commit: newCommit, Parents: []*BranchNode{node}}, nil
}

// applyOnEdge handles a node with a single parent: propagate into the parent
// first, then merge the parent's new line back into this node. When the
// recursion or the merge conflicts, fall back to applying the changeset
// directly at this node, so a failure deeper in history never blocks
// propagation here.
func (e *Engine) applyOnEdge(ctx context.Context, changeset string, node *BranchNode) (*BranchNode, error) {
	recursed, err := e.ApplyChangeset(ctx, changeset, node.Parents[0])
	if err == nil {
		merged, merr := e.backend.MergeTwo(ctx, node.Commit, recursed.Commit)
		if merr == nil {
			e.stats.Merges++
			return &BranchNode{Commit: merged, Parents: []*BranchNode{node, recursed}}, nil
		}
		if !errors.Is(merr, grafterrors.ErrApplyConflict) {
			return nil, merr
		}
		e.stats.Conflicts++
	} else if !errors.Is(err, grafterrors.ErrApplyConflict) {
		return nil, err
	}

	e.stats.Fallbacks++
	return e.applyDirect(ctx, changeset, node)
}

// applyOnMerge handles a pre-existing merge point: propagate into both
// parents independently, then blend whatever succeeded. Each side's attempt
// is isolated because every conflicting backend operation aborts its own
// working state before reporting, so a failed first side leaves nothing
// behind for the second.
func (e *Engine) applyOnMerge(ctx context.Context, changeset string, node *BranchNode) (*BranchNode, error) {
	recursed1, err1 := e.ApplyChangeset(ctx, changeset, node.Parents[0])
	if err1 != nil && !errors.Is(err1, grafterrors.ErrApplyConflict) {
		return nil, err1
	}

	recursed2, err2 := e.ApplyChangeset(ctx, changeset, node.Parents[1])
	if err2 != nil && !errors.Is(err2, grafterrors.ErrApplyConflict) {
		return nil, err2
	}

	var refA, refB string
	var parents []*BranchNode
	switch {
	case err1 != nil && err2 != nil:
		e.stats.Fallbacks++
		return e.applyDirect(ctx, changeset, node)
	case err2 != nil:
		refA, refB = recursed1.Commit, node.Parents[1].Commit
		parents = []*BranchNode{recursed1, node.Parents[1]}
	case err1 != nil:
		refA, refB = node.Parents[0].Commit, recursed2.Commit
		parents = []*BranchNode{node.Parents[0], recursed2}
	default:
		// Both sides succeeded. Blend the two propagated lines together so
		// neither side's work is dropped.
		refA, refB = recursed1.Commit, recursed2.Commit
		parents = []*BranchNode{recursed1, recursed2}
	}

	merged, merr := e.backend.MergeTwo(ctx, refA, refB)
	if merr == nil {
		e.stats.Merges++
		return &BranchNode{Commit: merged, Parents: parents}, nil
	}
	if !errors.Is(merr, grafterrors.ErrApplyConflict) {
		return nil, merr
	}
	e.stats.Conflicts++

	e.stats.Fallbacks++
	return e.applyDirect(ctx, changeset, node)
}
