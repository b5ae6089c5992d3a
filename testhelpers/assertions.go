package testhelpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectParents asserts that a revision has exactly the expected parents,
// in order.
func ExpectParents(t *testing.T, repo *GitRepo, rev string, expected []string) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput("log", "-1", "--format=%P", rev)
	require.NoError(t, err, "Failed to read parents of %s", rev)

	parents := strings.Fields(output)
	resolved := make([]string, 0, len(expected))
	for _, e := range expected {
		resolved = append(resolved, Must(repo.Rev(e)))
	}
	require.Equal(t, resolved, parents, "Parents of %s do not match", rev)
}

// ExpectSameTree asserts that two revisions point at identical trees.
func ExpectSameTree(t *testing.T, repo *GitRepo, revA, revB string) {
	t.Helper()

	treeA := Must(repo.Rev(revA + "^{tree}"))
	treeB := Must(repo.Rev(revB + "^{tree}"))
	require.Equal(t, treeA, treeB, "Trees of %s and %s differ", revA, revB)
}

// ExpectAncestor asserts that ancestor is reachable from descendant.
func ExpectAncestor(t *testing.T, repo *GitRepo, ancestor, descendant string) {
	t.Helper()

	err := repo.RunGitCommand("merge-base", "--is-ancestor", ancestor, descendant)
	require.NoError(t, err, "%s is not an ancestor of %s", ancestor, descendant)
}
