package engine

import (
	"context"

	grafterrors "graft.dev/graft/internal/errors"
)

// ValidateChain resolves base and upstream and checks that the history
// between them is strictly linear: every entry has exactly one parent and
// each entry's parent is the next older entry. Returns the changeset
// identifiers oldest first, ready to be applied in order.
//
// Identical base and upstream yield an empty chain. Any structural defect is
// a ParseError and nothing has been mutated when one is returned.
func (e *Engine) ValidateChain(ctx context.Context, base, upstream string) (Chain, error) {
	baseSHA, err := e.backend.Resolve(ctx, base)
	if err != nil {
		return nil, err
	}
	upstreamSHA, err := e.backend.Resolve(ctx, upstream)
	if err != nil {
		return nil, err
	}
	return e.validateResolved(ctx, base, baseSHA, upstream, upstreamSHA)
}

func (e *Engine) validateResolved(ctx context.Context, base, baseSHA, upstream, upstreamSHA string) (Chain, error) {
	if baseSHA == upstreamSHA {
		return Chain{}, nil
	}

	ok, err := e.backend.IsAncestor(ctx, baseSHA, upstreamSHA)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, grafterrors.NewParseError("%s is not an ancestor of %s", base, upstream)
	}

	entries, err := e.backend.History(ctx, upstreamSHA, baseSHA)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return Chain{}, nil
	}

	for _, entry := range entries {
		if len(entry.Parents) != 1 {
			return nil, grafterrors.NewParseError(
				"changeset %s has %d parents, chain must be linear", entry.Hash, len(entry.Parents))
		}
	}

	for i := 0; i < len(entries)-1; i++ {
		newer, older := entries[i], entries[i+1]
		if !e.linksEqual(newer.Parents[0], older.Hash) {
			return nil, grafterrors.NewParseError(
				"changeset %s does not link to %s", newer.Hash, older.Hash)
		}
	}

	chain := make(Chain, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		chain = append(chain, entries[i].Hash)
	}
	return chain, nil
}

// linksEqual compares two changeset identifiers under the configured link
// width. Zero width means full identifiers; a positive width compares
// truncated identifiers the way tooling that stores abbreviated hashes needs.
func (e *Engine) linksEqual(a, b string) bool {
	n := e.opts.LinkPrefixLen
	if n <= 0 {
		return a == b
	}
	if len(a) > n {
		a = a[:n]
	}
	if len(b) > n {
		b = b[:n]
	}
	return a == b
}
