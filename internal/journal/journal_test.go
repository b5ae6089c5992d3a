package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"graft.dev/graft/internal/engine"
	"graft.dev/graft/internal/journal"
	"graft.dev/graft/testhelpers"
)

func TestJournalRoundTrip(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	j, err := journal.Open(scene.Dir)
	require.NoError(t, err)
	defer j.Close()

	// A diamond with a shared root, so the encoding's sharing survives too.
	root := engine.NewRoot("B")
	left := &engine.BranchNode{Commit: "B+c1", Parents: []*engine.BranchNode{root}}
	right := &engine.BranchNode{Commit: "B+c2", Parents: []*engine.BranchNode{root}}
	top := &engine.BranchNode{Commit: "m(B+c1,B+c2)", Parents: []*engine.BranchNode{left, right}}

	record := &journal.Record{
		ID:          "0b5e7d4a-9f13-4e58-8f61-2f6d35f0c001",
		CreatedAt:   time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC),
		BaseRef:     "main",
		UpstreamRef: "upstream",
		TipRef:      "target",
		Base:        "B",
		Upstream:    "U",
		Status:      journal.StatusCompleted,
		Chain:       []string{"c1", "c2"},
		Stats:       engine.Stats{Picks: 2, Merges: 1},
		Root:        journal.EncodeTree(top),
		Flattened:   journal.EncodeTree(top),
	}
	require.NoError(t, j.Append(record))

	got, err := j.Get(record.ID)
	require.NoError(t, err)
	require.Equal(t, record.BaseRef, got.BaseRef)
	require.Equal(t, record.UpstreamRef, got.UpstreamRef)
	require.Equal(t, record.TipRef, got.TipRef)
	require.Equal(t, journal.StatusCompleted, got.Status)
	require.Equal(t, record.Chain, got.Chain)
	require.Equal(t, record.Stats, got.Stats)
	require.True(t, record.CreatedAt.Equal(got.CreatedAt))

	decoded := got.Root.Decode()
	require.NotNil(t, decoded)
	require.Equal(t, "m(B+c1,B+c2)", decoded.Commit)
	require.Len(t, decoded.Parents, 2)
	require.Equal(t, "B+c1", decoded.Parents[0].Commit)
	require.Equal(t, "B+c2", decoded.Parents[1].Commit)
	require.Same(t, decoded.Parents[0].Parents[0], decoded.Parents[1].Parents[0])
	require.Equal(t, 4, engine.CountNodes(decoded))
}

func TestJournalGetByPrefix(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	j, err := journal.Open(scene.Dir)
	require.NoError(t, err)
	defer j.Close()

	for _, id := range []string{"abc123", "abd999", "run1", "run12"} {
		require.NoError(t, j.Append(&journal.Record{ID: id, Status: journal.StatusCompleted}))
	}

	got, err := j.Get("abc")
	require.NoError(t, err)
	require.Equal(t, "abc123", got.ID)

	_, err = j.Get("ab")
	require.ErrorContains(t, err, "ambiguous")

	_, err = j.Get("zzz")
	require.ErrorContains(t, err, "not found")

	// An exact id wins even when it prefixes another.
	got, err = j.Get("run1")
	require.NoError(t, err)
	require.Equal(t, "run1", got.ID)
}

func TestJournalRecent(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	j, err := journal.Open(scene.Dir)
	require.NoError(t, err)
	defer j.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, j.Append(&journal.Record{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Status:    journal.StatusCompleted,
		}))
	}

	records, err := j.Recent(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "third", records[0].ID)
	require.Equal(t, "second", records[1].ID)

	records, err = j.Recent(0)
	require.NoError(t, err)
	require.Len(t, records, 3)
}

func TestTreeEncoding(t *testing.T) {
	t.Run("nil trees stay nil", func(t *testing.T) {
		require.Nil(t, journal.EncodeTree(nil))

		var tree *journal.Tree
		require.Nil(t, tree.Decode())
		require.Nil(t, (&journal.Tree{}).Decode())
	})

	t.Run("corrupt indices decode to nil", func(t *testing.T) {
		bad := &journal.Tree{
			Nodes: []journal.TreeNode{{Commit: "x", Parents: []int{5}}},
			Top:   0,
		}
		require.Nil(t, bad.Decode())

		badTop := &journal.Tree{
			Nodes: []journal.TreeNode{{Commit: "x"}},
			Top:   3,
		}
		require.Nil(t, badTop.Decode())
	})
}
