package cli_test

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"graft.dev/graft/internal/journal"
	"graft.dev/graft/testhelpers"
)

func TestRunsCommand(t *testing.T) {
	binaryPath := getGraftBinary(t)

	t.Run("reports an empty journal", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		cmd := exec.Command(binaryPath, "runs")
		cmd.Dir = scene.Dir
		output, err := cmd.CombinedOutput()
		require.NoError(t, err, "runs command failed: %s", string(output))
		require.Contains(t, string(output), "No port runs recorded yet.")
	})

	t.Run("lists and shows a recorded run", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("upstream"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("change u1", "u1"))
		require.NoError(t, scene.Repo.CreateChangeAndCommit("change u2", "u2"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))

		cmd := exec.Command(binaryPath, "port", "main", "upstream")
		cmd.Dir = scene.Dir
		output, err := cmd.CombinedOutput()
		require.NoError(t, err, "port command failed: %s", string(output))

		cmd = exec.Command(binaryPath, "runs")
		cmd.Dir = scene.Dir
		output, err = cmd.CombinedOutput()
		require.NoError(t, err, "runs command failed: %s", string(output))
		require.Contains(t, string(output), "main..upstream")
		require.Contains(t, string(output), "2 changeset(s)")
		require.Contains(t, string(output), "completed")

		// The run id comes from the journal; the binary must be done with
		// the database before we read it.
		j, err := journal.Open(scene.Dir)
		require.NoError(t, err)
		records, err := j.Recent(1)
		require.NoError(t, j.Close())
		require.NoError(t, err)
		require.Len(t, records, 1)

		cmd = exec.Command(binaryPath, "runs", "show", records[0].ID[:8])
		cmd.Dir = scene.Dir
		output, err = cmd.CombinedOutput()
		require.NoError(t, err, "runs show command failed: %s", string(output))
		require.Contains(t, string(output), records[0].ID)
		require.Contains(t, string(output), "main..upstream")
		require.Contains(t, string(output), "Chain, oldest first:")
		require.Contains(t, string(output), "Flattened tree:")
	})

	t.Run("fails for an unknown run id", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		cmd := exec.Command(binaryPath, "runs", "show", "zzzzzzzz")
		cmd.Dir = scene.Dir
		output, err := cmd.CombinedOutput()
		require.Error(t, err, "runs show should fail for an unknown id")
		require.Contains(t, string(output), "not found")
	})
}
