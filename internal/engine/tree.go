package engine

import (
	"context"

	grafterrors "graft.dev/graft/internal/errors"
)

// BuildTree reconstructs the dependency tree of the region between base and
// tip from recorded history. Nodes are interned by changeset identifier, so
// ancestry shared between merge sides comes out as one shared node, the way
// the flattener's identity checks expect. Parents outside the region become
// parentless roots; the base itself is the usual one.
//
// Returns the node for tip, or the base's root node when tip is the base.
func (e *Engine) BuildTree(ctx context.Context, base, tip string) (*BranchNode, error) {
	baseSHA, err := e.backend.Resolve(ctx, base)
	if err != nil {
		return nil, err
	}
	tipSHA, err := e.backend.Resolve(ctx, tip)
	if err != nil {
		return nil, err
	}

	if baseSHA == tipSHA {
		return NewRoot(baseSHA), nil
	}

	ok, err := e.backend.IsAncestor(ctx, baseSHA, tipSHA)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, grafterrors.NewParseError("%s is not an ancestor of %s", base, tip)
	}

	entries, err := e.backend.History(ctx, tipSHA, baseSHA)
	if err != nil {
		return nil, err
	}

	region := make(map[string]HistoryEntry, len(entries))
	for _, entry := range entries {
		if len(entry.Parents) > 2 {
			return nil, grafterrors.NewParseError(
				"changeset %s has %d parents, trees of degree above two are not supported",
				entry.Hash, len(entry.Parents))
		}
		region[entry.Hash] = entry
	}

	nodes := make(map[string]*BranchNode, len(region)+1)
	var build func(hash string) *BranchNode
	build = func(hash string) *BranchNode {
		if node, ok := nodes[hash]; ok {
			return node
		}

		entry, inRegion := region[hash]
		if !inRegion {
			root := NewRoot(hash)
			nodes[hash] = root
			return root
		}

		node := &BranchNode{Commit: hash}
		nodes[hash] = node
		for _, parent := range entry.Parents {
			node.Parents = append(node.Parents, build(parent))
		}
		return node
	}

	return build(tipSHA), nil
}

// CountNodes returns the number of distinct nodes reachable from node,
// counting shared nodes once.
func CountNodes(node *BranchNode) int {
	seen := make(map[*BranchNode]bool)
	var walk func(n *BranchNode)
	walk = func(n *BranchNode) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		for _, p := range n.Parents {
			walk(p)
		}
	}
	walk(node)
	return len(seen)
}

// MaxParentCount returns the largest parent count of any node reachable from
// node. A freshly propagated tree never exceeds two; a flattened tree exceeds
// two exactly where a merge was forged.
func MaxParentCount(node *BranchNode) int {
	max := 0
	seen := make(map[*BranchNode]bool)
	var walk func(n *BranchNode)
	walk = func(n *BranchNode) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if len(n.Parents) > max {
			max = len(n.Parents)
		}
		for _, p := range n.Parents {
			walk(p)
		}
	}
	walk(node)
	return max
}
