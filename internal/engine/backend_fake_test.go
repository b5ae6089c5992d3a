package engine

import (
	"context"
	"fmt"
	"strings"

	grafterrors "graft.dev/graft/internal/errors"
)

// fakeBackend simulates a backend with synthetic changeset identifiers.
// Applying changeset c onto head h yields "h+c", merging a and b yields
// "m(a,b)", forging yields "f(content;p1,p2,...)", so tests can assert
// exact result shapes. Conflicts and hard failures are scripted per
// operation; every mutating call is appended to the call log.
type fakeBackend struct {
	head      string
	refs      map[string]string         // symbolic ref -> identifier
	unknown   map[string]bool           // refs that fail to resolve
	histories map[string][]HistoryEntry // "from|excluding" -> entries, newest first
	ancestors map[string]bool           // "ancestor|descendant" -> reachable

	applyConflicts map[string]bool  // "changeset@head" -> conflict
	mergeConflicts map[string]bool  // "refA|refB" -> conflict
	checkoutErrs   map[string]error // rev -> hard error

	calls []string
}

var _ Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		head:           "start",
		refs:           make(map[string]string),
		unknown:        make(map[string]bool),
		histories:      make(map[string][]HistoryEntry),
		ancestors:      make(map[string]bool),
		applyConflicts: make(map[string]bool),
		mergeConflicts: make(map[string]bool),
		checkoutErrs:   make(map[string]error),
	}
}

func (f *fakeBackend) setHistory(from, excluding string, entries ...HistoryEntry) {
	f.histories[from+"|"+excluding] = entries
}

func (f *fakeBackend) setAncestor(ancestor, descendant string) {
	f.ancestors[ancestor+"|"+descendant] = true
}

func (f *fakeBackend) conflictOnApply(changeset, onto string) {
	f.applyConflicts[changeset+"@"+onto] = true
}

func (f *fakeBackend) conflictOnMerge(refA, refB string) {
	f.mergeConflicts[refA+"|"+refB] = true
}

func (f *fakeBackend) resetCalls() {
	f.calls = nil
}

func (f *fakeBackend) History(_ context.Context, from, excluding string) ([]HistoryEntry, error) {
	entries, ok := f.histories[from+"|"+excluding]
	if !ok {
		return nil, nil
	}
	return entries, nil
}

// Resolve maps scripted refs and passes bare identifiers through, so tests
// can hand either to the engine.
func (f *fakeBackend) Resolve(_ context.Context, ref string) (string, error) {
	if f.unknown[ref] {
		return "", grafterrors.NewUnknownRefError(ref)
	}
	if sha, ok := f.refs[ref]; ok {
		return sha, nil
	}
	return ref, nil
}

func (f *fakeBackend) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}
	return f.ancestors[ancestor+"|"+descendant], nil
}

func (f *fakeBackend) Checkout(_ context.Context, rev string) error {
	if err := f.checkoutErrs[rev]; err != nil {
		return err
	}
	f.calls = append(f.calls, "checkout "+rev)
	f.head = rev
	return nil
}

func (f *fakeBackend) ApplyOne(_ context.Context, changeset string) (string, error) {
	key := changeset + "@" + f.head
	f.calls = append(f.calls, "apply "+key)
	if f.applyConflicts[key] {
		return "", grafterrors.NewApplyConflictError("cherry-pick", changeset, f.head)
	}
	result := f.head + "+" + changeset
	f.head = result
	return result, nil
}

func (f *fakeBackend) MergeTwo(_ context.Context, refA, refB string) (string, error) {
	key := refA + "|" + refB
	f.calls = append(f.calls, "merge "+key)
	if f.mergeConflicts[key] {
		return "", grafterrors.NewApplyConflictError("merge", refB, refA)
	}
	result := fmt.Sprintf("m(%s,%s)", refA, refB)
	f.head = result
	return result, nil
}

func (f *fakeBackend) ForgeMerge(_ context.Context, contentRef string, parents []string) (string, error) {
	f.calls = append(f.calls, "forge "+contentRef+";"+strings.Join(parents, ","))
	return fmt.Sprintf("f(%s;%s)", contentRef, strings.Join(parents, ",")), nil
}

func (f *fakeBackend) CurrentHead(_ context.Context) (string, error) {
	return f.head, nil
}
