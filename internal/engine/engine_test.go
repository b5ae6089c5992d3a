package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	grafterrors "graft.dev/graft/internal/errors"
)

func TestPort(t *testing.T) {
	ctx := context.Background()

	t.Run("an empty chain returns the bare base untouched", func(t *testing.T) {
		fake := newFakeBackend()
		eng := NewEngine(fake)

		result, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "B"})
		require.NoError(t, err)
		require.NotEmpty(t, result.RunID)
		require.Equal(t, "B", result.Base)
		require.Equal(t, "B", result.Upstream)
		require.Empty(t, result.Chain)
		require.Same(t, result.Root, result.Flattened)
		require.Equal(t, "B", result.Root.Commit)
		require.Equal(t, Stats{}, result.Stats)

		// The only backend mutation is the head restore on the way out.
		require.Equal(t, []string{"checkout start"}, fake.calls)
	})

	t.Run("ports a chain onto the bare base", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "U")
		fake.setHistory("U", "B",
			HistoryEntry{Hash: "c2", Parents: []string{"c1"}},
			HistoryEntry{Hash: "c1", Parents: []string{"B"}},
		)
		eng := NewEngine(fake)

		result, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "U"})
		require.NoError(t, err)
		require.Equal(t, Chain{"c1", "c2"}, result.Chain)
		require.Equal(t, "m(B+c1,B+c2)", result.Root.Commit)
		require.Equal(t, Stats{Picks: 2, Merges: 1}, result.Stats)

		// Two single-parent lines over one root are already minimal, so
		// flattening keeps the propagated tree as is.
		require.Same(t, result.Root, result.Flattened)
		require.Equal(t, "checkout start", fake.calls[len(fake.calls)-1])
	})

	t.Run("ports onto an existing branch tree", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "U")
		fake.setAncestor("B", "T1")
		fake.setHistory("U", "B",
			HistoryEntry{Hash: "c1", Parents: []string{"B"}},
		)
		fake.setHistory("T1", "B",
			HistoryEntry{Hash: "T1", Parents: []string{"B"}},
		)
		eng := NewEngine(fake)

		result, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "U", Tip: "T1"})
		require.NoError(t, err)
		require.Equal(t, Chain{"c1"}, result.Chain)
		require.Equal(t, "m(T1,B+c1)", result.Root.Commit)
		require.Len(t, result.Root.Parents, 2)
		require.Equal(t, "T1", result.Root.Parents[0].Commit)
		require.Equal(t, "B+c1", result.Root.Parents[1].Commit)
		require.Equal(t, Stats{Picks: 1, Merges: 1}, result.Stats)
		require.Same(t, result.Root, result.Flattened)
	})

	t.Run("flattening forges when deep bubbles pile up", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "U")
		fake.setHistory("U", "B",
			HistoryEntry{Hash: "c3", Parents: []string{"c2"}},
			HistoryEntry{Hash: "c2", Parents: []string{"c1"}},
			HistoryEntry{Hash: "c1", Parents: []string{"B"}},
		)
		eng := NewEngine(fake)

		result, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "U"})
		require.NoError(t, err)
		require.Equal(t, Chain{"c1", "c2", "c3"}, result.Chain)

		// The third changeset lands on a merge, so both of its sides grow
		// merges of merges; flattening splices them into one forged point.
		require.Equal(t, Stats{Picks: 4, Merges: 4, Forges: 1}, result.Stats)
		require.NotSame(t, result.Root, result.Flattened)
		require.Len(t, result.Flattened.Parents, 4)
		require.Equal(t, 4, MaxParentCount(result.Flattened))
		require.Equal(t, 2, MaxParentCount(result.Root))
		require.Less(t, CountNodes(result.Flattened), CountNodes(result.Root))
	})

	t.Run("restores the head after a failed run", func(t *testing.T) {
		fake := newFakeBackend()
		fake.unknown["nope"] = true
		eng := NewEngine(fake)

		_, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "nope"})
		require.ErrorIs(t, err, grafterrors.ErrUnknownRef)
		require.Equal(t, []string{"checkout start"}, fake.calls)
	})

	t.Run("restores the head after a fatal conflict", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "U")
		fake.setHistory("U", "B",
			HistoryEntry{Hash: "c1", Parents: []string{"B"}},
		)
		fake.conflictOnApply("c1", "B")
		eng := NewEngine(fake)

		_, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "U"})
		require.ErrorIs(t, err, grafterrors.ErrApplyConflict)
		require.Equal(t, "checkout start", fake.calls[len(fake.calls)-1])
	})

	t.Run("consecutive runs reset the counters", func(t *testing.T) {
		fake := newFakeBackend()
		fake.setAncestor("B", "U")
		fake.setHistory("U", "B",
			HistoryEntry{Hash: "c1", Parents: []string{"B"}},
		)
		eng := NewEngine(fake)

		first, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "U"})
		require.NoError(t, err)
		require.Equal(t, Stats{Picks: 1}, first.Stats)

		second, err := eng.Port(ctx, PortOptions{Base: "B", Upstream: "B"})
		require.NoError(t, err)
		require.Equal(t, Stats{}, second.Stats)
		require.Equal(t, Stats{}, eng.Stats())
		require.NotEqual(t, first.RunID, second.RunID)
	})
}
