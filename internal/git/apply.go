package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	grafterrors "graft.dev/graft/internal/errors"
)

// CheckoutDetached checks out a revision in detached HEAD state
func CheckoutDetached(ctx context.Context, rev string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", "--detach", rev)
	if err != nil {
		return fmt.Errorf("failed to checkout %s in detached state: %w", rev, err)
	}
	return nil
}

// CheckoutBranch checks out a branch by name
func CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// HardReset performs a hard reset to a specific SHA
func HardReset(ctx context.Context, sha string) error {
	_, err := RunGitCommandWithContext(ctx, "reset", "--hard", sha)
	if err != nil {
		return fmt.Errorf("failed to hard reset to %s: %w", sha, err)
	}
	return nil
}

// CherryPick applies a single commit onto the current HEAD and returns the
// SHA of the resulting commit. Commits that apply to an empty change are
// kept, so a pick either produces a commit or conflicts. On conflict the
// pick is aborted, the working tree restored, and an ApplyConflictError
// returned; any other failure surfaces as a BackendError.
func CherryPick(ctx context.Context, commitSHA string) (string, error) {
	onto, _ := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")

	_, err := RunGitCommandWithContext(ctx, "cherry-pick", "--allow-empty", "--keep-redundant-commits", commitSHA)
	if err != nil {
		if IsCherryPickInProgress(ctx) {
			// Restore the pre-pick state even if the abort itself fails
			_, _ = RunGitCommandWithContext(ctx, "cherry-pick", "--abort")
			if onto != "" {
				_ = HardReset(ctx, onto)
			}
			return "", grafterrors.NewApplyConflictError("cherry-pick", commitSHA, onto)
		}
		return "", err
	}

	newRev, err := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get revision after cherry-pick: %w", err)
	}
	return newRev, nil
}

// MergeNoEdit merges a revision into the current HEAD with the default merge
// message and returns the SHA of the merge commit. On conflict the merge is
// aborted and an ApplyConflictError returned.
func MergeNoEdit(ctx context.Context, rev string) (string, error) {
	onto, _ := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")

	_, err := RunGitCommandWithContext(ctx, "merge", "--no-edit", "--no-ff", rev)
	if err != nil {
		if IsMergeInProgress(ctx) {
			_, _ = RunGitCommandWithContext(ctx, "merge", "--abort")
			if onto != "" {
				_ = HardReset(ctx, onto)
			}
			return "", grafterrors.NewApplyConflictError("merge", rev, onto)
		}
		return "", err
	}

	newRev, err := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get revision after merge: %w", err)
	}
	return newRev, nil
}

// IsCherryPickInProgress checks if a cherry-pick is currently in progress
func IsCherryPickInProgress(ctx context.Context) bool {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(gitDir, "CHERRY_PICK_HEAD")); err == nil {
		return true
	}
	// A multi-commit pick that stopped leaves the sequencer directory behind
	if _, err := os.Stat(filepath.Join(gitDir, "sequencer")); err == nil {
		return true
	}
	return false
}

// IsMergeInProgress checks if a merge is currently in progress
func IsMergeInProgress(ctx context.Context) bool {
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(gitDir, "MERGE_HEAD")); err == nil {
		return true
	}
	return false
}

// IsWorktreeDirty reports whether the working tree has uncommitted changes,
// including untracked files.
func IsWorktreeDirty(ctx context.Context) (bool, error) {
	output, err := RunGitCommandWithContext(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to get worktree status: %w", err)
	}
	return output != "", nil
}
