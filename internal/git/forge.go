package git

import (
	"context"
	"fmt"
	"strings"
)

// CommitTree creates a commit carrying the tree of contentRef with exactly
// the given parents, in order, without attempting any content merge. The
// message is passed on stdin so multi-line messages survive intact. Returns
// the SHA of the new commit. Nothing is checked out; the working tree is
// untouched.
func CommitTree(ctx context.Context, contentRef string, parents []string, message string) (string, error) {
	args := []string{"commit-tree", contentRef + "^{tree}"}
	for _, parent := range parents {
		args = append(args, "-p", parent)
	}

	if strings.TrimSpace(message) == "" {
		message = "merge"
	}

	sha, err := RunGitCommandWithInputAndContext(ctx, message, args...)
	if err != nil {
		return "", fmt.Errorf("failed to forge merge commit: %w", err)
	}
	return sha, nil
}
