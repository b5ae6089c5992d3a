// Package scenario provides a high-level test scenario that combines a Scene,
// an Engine, and a runtime Context to provide a terse API for action tests.
package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"graft.dev/graft/internal/engine"
	"graft.dev/graft/internal/git"
	"graft.dev/graft/internal/runtime"
	"graft.dev/graft/testhelpers"
)

// Scenario bundles a Scene with a git-backed engine and a ready runtime
// Context, so action tests read as a short script over a real repository.
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Engine  *engine.Engine
	Context *runtime.Context
}

// NewScenario creates a new Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv and NewScene.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	// Force non-interactive mode and keep log files inside the scene
	t.Setenv("GRAFT_TEST_NO_INTERACTIVE", "true")

	scene := testhelpers.NewScene(t, setup)
	t.Setenv("GRAFT_LOG_FILE", filepath.Join(scene.Dir, "graft.log"))

	require.NoError(t, git.InitDefaultRepo())

	eng := engine.NewEngine(engine.NewGitBackend())
	ctx := runtime.NewContextWithRepoRoot(eng, scene.Dir)

	return &Scenario{
		T:       t,
		Scene:   scene,
		Engine:  eng,
		Context: ctx,
	}
}

// WithUncommittedChange creates an uncommitted change in the repository.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChange("unstaged content", name, true)
	require.NoError(s.T, err)
	return s
}

// RunGit runs a git command in the scenario's repository.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand(args...)
	require.NoError(s.T, err)
	return s
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CheckoutBranch(branch)
	require.NoError(s.T, err)
	return s
}

// CreateBranch creates and checks out a new branch.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateAndCheckoutBranch(name)
	require.NoError(s.T, err)
	return s
}

// CommitChange creates a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit(message, name)
	require.NoError(s.T, err)
	return s
}

// CommitFile writes one file with the given content and commits it.
func (s *Scenario) CommitFile(name, content, message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CommitFile(name, content, message)
	require.NoError(s.T, err)
	return s
}

// Rev resolves a revision to its full SHA.
func (s *Scenario) Rev(rev string) string {
	s.T.Helper()
	sha, err := s.Scene.Repo.Rev(rev)
	require.NoError(s.T, err)
	return sha
}

// ExpectBranch asserts that the current branch is as expected.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual)
	return s
}
