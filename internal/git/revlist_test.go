package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"graft.dev/graft/internal/git"
	"graft.dev/graft/testhelpers"
)

func TestRevListWithParents(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the excluded range newest first with parents", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		baseSha := testhelpers.Must(scene.Repo.Rev("HEAD"))

		require.NoError(t, scene.Repo.CommitFile("a.txt", "A", "add a"))
		aSha := testhelpers.Must(scene.Repo.Rev("HEAD"))
		require.NoError(t, scene.Repo.CommitFile("b.txt", "B", "add b"))
		bSha := testhelpers.Must(scene.Repo.Rev("HEAD"))

		entries, err := git.RevListWithParents(ctx, "HEAD", baseSha)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, bSha, entries[0].Hash)
		require.Equal(t, []string{aSha}, entries[0].Parents)
		require.Equal(t, aSha, entries[1].Hash)
		require.Equal(t, []string{baseSha}, entries[1].Parents)
	})

	t.Run("records both parents of a merge", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		baseSha := testhelpers.Must(scene.Repo.Rev("HEAD"))

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("side"))
		require.NoError(t, scene.Repo.CommitFile("s.txt", "S", "side change"))
		sideSha := testhelpers.Must(scene.Repo.Rev("HEAD"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		require.NoError(t, scene.Repo.CommitFile("m.txt", "M", "main change"))
		mainSha := testhelpers.Must(scene.Repo.Rev("HEAD"))
		require.NoError(t, scene.Repo.MergeNoFF(sideSha))
		mergeSha := testhelpers.Must(scene.Repo.Rev("HEAD"))

		entries, err := git.RevListWithParents(ctx, "HEAD", baseSha)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		require.Equal(t, mergeSha, entries[0].Hash)
		require.Equal(t, []string{mainSha, sideSha}, entries[0].Parents)
	})

	t.Run("an empty range yields no entries", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		headSha := testhelpers.Must(scene.Repo.Rev("HEAD"))

		entries, err := git.RevListWithParents(ctx, "HEAD", headSha)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("lists everything when nothing is excluded", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CommitFile("a.txt", "A", "add a"))

		entries, err := git.RevListWithParents(ctx, "HEAD", "")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Empty(t, entries[1].Parents)
	})
}
