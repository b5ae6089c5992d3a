package cli_test

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"graft.dev/graft/testhelpers"
)

func TestChainCommand(t *testing.T) {
	binaryPath := getGraftBinary(t)

	t.Run("lists the changesets oldest first", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("upstream"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("change u1", "u1"))
		u1Sha, err := scene.Repo.Rev("upstream")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CreateChangeAndCommit("change u2", "u2"))
		u2Sha, err := scene.Repo.Rev("upstream")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.CheckoutBranch("main"))

		cmd := exec.Command(binaryPath, "chain", "main", "upstream")
		cmd.Dir = scene.Dir
		output, err := cmd.CombinedOutput()
		require.NoError(t, err, "chain command failed: %s", string(output))

		text := string(output)
		require.Contains(t, text, "2 changeset(s) from main to upstream")
		require.Contains(t, text, u1Sha[:10])
		require.Contains(t, text, u2Sha[:10])
		require.Less(t, strings.Index(text, u1Sha[:10]), strings.Index(text, u2Sha[:10]),
			"chain should print the older changeset first")
	})

	t.Run("reports an empty chain", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		cmd := exec.Command(binaryPath, "chain", "main", "main")
		cmd.Dir = scene.Dir
		output, err := cmd.CombinedOutput()
		require.NoError(t, err, "chain command failed: %s", string(output))
		require.Contains(t, string(output), "the chain is empty")
	})

	t.Run("fails for an unknown ref", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		cmd := exec.Command(binaryPath, "chain", "main", "no-such-branch")
		cmd.Dir = scene.Dir
		output, err := cmd.CombinedOutput()
		require.Error(t, err, "chain should fail for an unknown ref")
		require.Contains(t, string(output), "unknown ref")
	})
}
