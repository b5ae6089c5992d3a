package git

import (
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// Repository wraps a go-git repository. Reads go through go-git; anything
// that mutates the working tree or object store shells out to git itself.
type Repository struct {
	*gogit.Repository
	path string
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       worktree.Filesystem.Root(),
	}, nil
}

// Root returns the root directory of the repository
func (r *Repository) Root() string {
	return r.path
}

var defaultRepo *Repository

// InitDefaultRepo initializes the default repository from the current
// directory (or the runner's working directory when one is set) and points
// the command runner at its root.
func InitDefaultRepo() error {
	if defaultRepo != nil {
		return nil
	}

	dir := GetWorkingDir()
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	repo, err := OpenRepository(dir)
	if err != nil {
		return err
	}

	defaultRepo = repo
	SetWorkingDir(repo.Root())
	return nil
}

// GetDefaultRepo returns the default repository (must call InitDefaultRepo first)
func GetDefaultRepo() (*Repository, error) {
	if defaultRepo == nil {
		return nil, fmt.Errorf("repository not initialized, call InitDefaultRepo first")
	}
	return defaultRepo, nil
}

// GetRepoRoot returns the worktree root of the default repository
func GetRepoRoot() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}
	return repo.Root(), nil
}

// ResetDefaultRepo forgets the default repository and clears the runner's
// working directory. Tests use this when they point the runner at a fresh
// fixture repository.
func ResetDefaultRepo() {
	defaultRepo = nil
	SetWorkingDir("")
}
