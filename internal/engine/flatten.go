package engine

import (
	"context"
)

// Flatten rewrites a propagation result into the smallest equivalent merge
// structure: runs of single-parent pass-through nodes collapse to one edge,
// one level of merge-of-merges is spliced away, and any point where more
// than two lines converge becomes a single forged multi-parent merge.
//
// The walk is post-order and memoized by node identity, so shared subtrees
// flatten once and a tree that is already flat comes back pointer-identical
// with no backend calls at all. A conflict while re-applying a changeset
// onto its flattened base is fatal; no fallback exists during flattening.
func (e *Engine) Flatten(ctx context.Context, node *BranchNode) (*BranchNode, error) {
	f := &flattener{engine: e, memo: make(map[*BranchNode]*BranchNode)}
	return f.flatten(ctx, node)
}

// flattener carries the per-run memo table. Raw nodes enter flatten, finished
// nodes land in memo; a node found in memo is terminal and never revisited.
type flattener struct {
	engine *Engine
	memo   map[*BranchNode]*BranchNode
}

func (f *flattener) flatten(ctx context.Context, node *BranchNode) (*BranchNode, error) {
	if done, ok := f.memo[node]; ok {
		return done, nil
	}

	result, err := f.flattenNode(ctx, node)
	if err != nil {
		return nil, err
	}
	f.memo[node] = result
	return result, nil
}

func (f *flattener) flattenNode(ctx context.Context, node *BranchNode) (*BranchNode, error) {
	switch len(node.Parents) {
	case 0:
		return node, nil
	case 1:
		return f.flattenEdge(ctx, node)
	default:
		return f.flattenMerge(ctx, node)
	}
}

// flattenEdge collapses pass-through structure. The node's changeset is
// re-applied only when the commit underneath it actually moved; when the
// flattened parent is itself a single-parent node the run is absorbed and
// this node takes over the deeper parent edge.
func (f *flattener) flattenEdge(ctx context.Context, node *BranchNode) (*BranchNode, error) {
	fp, err := f.flatten(ctx, node.Parents[0])
	if err != nil {
		return nil, err
	}

	commit := node.Commit
	if fp.Commit != node.Parents[0].Commit {
		if err := f.engine.backend.Checkout(ctx, fp.Commit); err != nil {
			return nil, err
		}
		commit, err = f.engine.backend.ApplyOne(ctx, node.Commit)
		if err != nil {
			return nil, err
		}
		f.engine.stats.Picks++
	}

	parents := []*BranchNode{fp}
	if len(fp.Parents) == 1 {
		parents = fp.Parents
	}

	if commit == node.Commit && parents[0] == node.Parents[0] {
		return node, nil
	}
	return &BranchNode{Commit: commit, Parents: parents}, nil
}

// flattenMerge flattens every parent, splices one level of merge-of-merges,
// deduplicates what accumulated, and forges a single multi-parent merge when
// more than two lines remain.
func (f *flattener) flattenMerge(ctx context.Context, node *BranchNode) (*BranchNode, error) {
	var accumulated []*BranchNode
	for _, parent := range node.Parents {
		fp, err := f.flatten(ctx, parent)
		if err != nil {
			return nil, err
		}
		if len(fp.Parents) > 1 {
			accumulated = append(accumulated, fp.Parents...)
		} else {
			accumulated = append(accumulated, fp)
		}
	}
	accumulated = dedupeNodes(accumulated)

	if len(accumulated) > 2 {
		commits := make([]string, len(accumulated))
		for i, p := range accumulated {
			commits[i] = p.Commit
		}
		forged, err := f.engine.backend.ForgeMerge(ctx, node.Commit, commits)
		if err != nil {
			return nil, err
		}
		f.engine.stats.Forges++
		return &BranchNode{Commit: forged, Parents: accumulated}, nil
	}

	if sameNodes(accumulated, node.Parents) {
		return node, nil
	}
	return &BranchNode{Commit: node.Commit, Parents: accumulated}, nil
}

// dedupeNodes removes repeated nodes by identity, keeping first-occurrence
// order. Two distinct nodes carrying the same commit stay distinct.
func dedupeNodes(nodes []*BranchNode) []*BranchNode {
	seen := make(map[*BranchNode]bool, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func sameNodes(a, b []*BranchNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
