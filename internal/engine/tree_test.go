package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	grafterrors "graft.dev/graft/internal/errors"
)

func TestBuildTree(t *testing.T) {
	ctx := context.Background()

	t.Run("the base itself becomes a bare root", func(t *testing.T) {
		eng := NewEngine(newFakeBackend())

		root, err := eng.BuildTree(ctx, "B", "B")
		require.NoError(t, err)
		require.Equal(t, "B", root.Commit)
		require.Empty(t, root.Parents)
	})

	t.Run("rebuilds a linear region", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "T3")
		fake.setHistory("T3", "B",
			HistoryEntry{Hash: "T3", Parents: []string{"T2"}},
			HistoryEntry{Hash: "T2", Parents: []string{"T1"}},
			HistoryEntry{Hash: "T1", Parents: []string{"B"}},
		)
		eng := NewEngine(fake)

		top, err := eng.BuildTree(ctx, "B", "T3")
		require.NoError(t, err)
		require.Equal(t, "T3", top.Commit)
		require.Equal(t, "T2", top.Parents[0].Commit)
		require.Equal(t, "T1", top.Parents[0].Parents[0].Commit)

		root := top.Parents[0].Parents[0].Parents[0]
		require.Equal(t, "B", root.Commit)
		require.Empty(t, root.Parents)

		require.Equal(t, 4, CountNodes(top))
		require.Equal(t, 1, MaxParentCount(top))
	})

	t.Run("interns ancestry shared between merge sides", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "M")
		fake.setHistory("M", "B",
			HistoryEntry{Hash: "M", Parents: []string{"L", "R"}},
			HistoryEntry{Hash: "L", Parents: []string{"B"}},
			HistoryEntry{Hash: "R", Parents: []string{"B"}},
		)
		eng := NewEngine(fake)

		top, err := eng.BuildTree(ctx, "B", "M")
		require.NoError(t, err)
		require.Len(t, top.Parents, 2)
		left, right := top.Parents[0], top.Parents[1]
		require.Equal(t, "L", left.Commit)
		require.Equal(t, "R", right.Commit)
		require.Same(t, left.Parents[0], right.Parents[0])

		require.Equal(t, 4, CountNodes(top))
		require.Equal(t, 2, MaxParentCount(top))
	})

	t.Run("parents outside the region become roots", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "M")
		fake.setHistory("M", "B",
			HistoryEntry{Hash: "M", Parents: []string{"T1", "X"}},
			HistoryEntry{Hash: "T1", Parents: []string{"B"}},
		)
		eng := NewEngine(fake)

		top, err := eng.BuildTree(ctx, "B", "M")
		require.NoError(t, err)
		require.Len(t, top.Parents, 2)
		side := top.Parents[1]
		require.Equal(t, "X", side.Commit)
		require.Empty(t, side.Parents)
	})

	t.Run("rejects history entries beyond two parents", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "M")
		fake.setHistory("M", "B",
			HistoryEntry{Hash: "M", Parents: []string{"a", "b", "c"}},
		)
		eng := NewEngine(fake)

		_, err := eng.BuildTree(ctx, "B", "M")
		require.ErrorIs(t, err, grafterrors.ErrParse)
		require.ErrorContains(t, err, "degree above two")
	})

	t.Run("rejects a tip that does not descend from the base", func(t *testing.T) {
		eng := NewEngine(newFakeBackend())

		_, err := eng.BuildTree(ctx, "B", "elsewhere")
		require.ErrorIs(t, err, grafterrors.ErrParse)
		require.ErrorContains(t, err, "not an ancestor")
	})

	t.Run("rejects an unknown tip", func(t *testing.T) {
		fake := newFakeBackend()
		fake.unknown["nope"] = true
		eng := NewEngine(fake)

		_, err := eng.BuildTree(ctx, "B", "nope")
		require.ErrorIs(t, err, grafterrors.ErrUnknownRef)
	})
}

func TestTreeMeasures(t *testing.T) {
	root := NewRoot("B")
	left := &BranchNode{Commit: "L", Parents: []*BranchNode{root}}
	right := &BranchNode{Commit: "R", Parents: []*BranchNode{root}}
	forged := &BranchNode{Commit: "F", Parents: []*BranchNode{left, right, root}}

	require.Equal(t, 4, CountNodes(forged))
	require.Equal(t, 3, MaxParentCount(forged))
	require.Equal(t, 1, CountNodes(root))
	require.Equal(t, 0, MaxParentCount(root))
}
