package engine

import (
	"context"

	"github.com/google/uuid"
)

// Options tunes engine behavior. The zero value is the default: full
// identifier comparison for chain links.
type Options struct {
	// LinkPrefixLen, when positive, truncates identifiers to that many
	// characters before comparing chain parent links. Zero compares full
	// identifiers.
	LinkPrefixLen int
}

// Engine drives porting runs against a Backend. It is a single logical
// actor: one run at a time, everything synchronous, all waiting done inside
// backend calls.
type Engine struct {
	backend Backend
	opts    Options
	stats   Stats
}

// NewEngine creates an engine with default options
func NewEngine(backend Backend) *Engine {
	return NewEngineWithOptions(backend, Options{})
}

// NewEngineWithOptions creates an engine with the given options
func NewEngineWithOptions(backend Backend, opts Options) *Engine {
	return &Engine{backend: backend, opts: opts}
}

// Stats returns the backend-visible work counted since the last reset
func (e *Engine) Stats() Stats {
	return e.stats
}

// ResetStats clears the work counters
func (e *Engine) ResetStats() {
	e.stats = Stats{}
}

// PortOptions selects what a port run works on
type PortOptions struct {
	// Base is the ref the chain grows from
	Base string
	// Upstream is the ref holding the chain to port
	Upstream string
	// Tip, when set, names the branch whose history between Base and the
	// tip becomes the tree to port onto. Empty means port onto the bare
	// base.
	Tip string
}

// Port runs a complete porting pass: validate the chain between base and
// upstream, build or synthesize the target tree, propagate every changeset
// across it, and flatten the result. The working state is restored to the
// pre-run head on the way out, whether the run succeeded or not.
func (e *Engine) Port(ctx context.Context, opts PortOptions) (*PortResult, error) {
	e.ResetStats()

	head, err := e.backend.CurrentHead(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = e.backend.Checkout(ctx, head)
	}()

	baseSHA, err := e.backend.Resolve(ctx, opts.Base)
	if err != nil {
		return nil, err
	}
	upstreamSHA, err := e.backend.Resolve(ctx, opts.Upstream)
	if err != nil {
		return nil, err
	}

	chain, err := e.validateResolved(ctx, opts.Base, baseSHA, opts.Upstream, upstreamSHA)
	if err != nil {
		return nil, err
	}

	root := NewRoot(baseSHA)
	if opts.Tip != "" {
		root, err = e.BuildTree(ctx, baseSHA, opts.Tip)
		if err != nil {
			return nil, err
		}
	}

	result := &PortResult{
		RunID:    uuid.NewString(),
		Base:     baseSHA,
		Upstream: upstreamSHA,
		Chain:    chain,
	}

	if len(chain) == 0 {
		result.Root = root
		result.Flattened = root
		return result, nil
	}

	propagated, err := e.Propagate(ctx, chain, root)
	if err != nil {
		return nil, err
	}

	flattened, err := e.Flatten(ctx, propagated)
	if err != nil {
		return nil, err
	}

	result.Root = propagated
	result.Flattened = flattened
	result.Stats = e.stats
	return result, nil
}
