// Package runtime provides the execution context for graft commands.
//
// It encapsulates shared dependencies needed by actions, such as the
// engine instance, logger, and repository root path.
package runtime

import (
	"context"
	"fmt"

	"graft.dev/graft/internal/config"
	"graft.dev/graft/internal/engine"
	"graft.dev/graft/internal/git"
	"graft.dev/graft/internal/tui"
)

// Context provides access to the engine and output for commands
type Context struct {
	Context  context.Context
	Engine   *engine.Engine
	Splog    *tui.Splog
	RepoRoot string
}

// quietMode is set by the CLI before any action runs
var quietMode bool

// SetQuiet makes contexts created from now on suppress console output.
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// NewContext creates a new context with the given engine
func NewContext(eng *engine.Engine) *Context {
	splog, err := tui.NewSplogWithConfig(tui.GetLogFilePath())
	if err != nil {
		// Fall back to console-only logging
		splog = tui.NewSplog()
	}
	splog.SetQuiet(quietMode)
	return &Context{
		Context: context.Background(),
		Engine:  eng,
		Splog:   splog,
	}
}

// NewContextWithRepoRoot creates a new context with the given engine and repo root
func NewContextWithRepoRoot(eng *engine.Engine, repoRoot string) *Context {
	ctx := NewContext(eng)
	ctx.RepoRoot = repoRoot
	return ctx
}

// GetContext opens the enclosing repository and builds a context with a
// git-backed engine configured from the repo config.
func GetContext() (*Context, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, err
	}

	width, err := config.GetLinkPrefixLen(repoRoot)
	if err != nil {
		return nil, err
	}

	eng := engine.NewEngineWithOptions(engine.NewGitBackend(), engine.Options{
		LinkPrefixLen: width,
	})

	return NewContextWithRepoRoot(eng, repoRoot), nil
}
