// Package engine ports a linear chain of changesets onto every branch of a
// changeset dependency tree and flattens the merge structure that porting
// leaves behind. It never inspects changeset content; everything
// content-shaped happens behind the Backend interface.
package engine

// HistoryEntry is one recorded changeset as reported by the backend's
// history listing: the changeset identifier and the identifiers of its
// parents, in recorded order.
type HistoryEntry struct {
	Hash    string
	Parents []string
}

// Chain is a validated, strictly linear sequence of changeset identifiers,
// oldest first. Applying the entries in order replays the upstream work on
// top of the base.
type Chain []string

// BranchNode is a node of a dependency tree of changesets. Nodes are treated
// as immutable once built: every rewrite allocates new nodes and shares
// untouched subtrees, so node identity (the pointer) distinguishes two nodes
// that happen to carry the same commit.
//
// Parent counts before flattening are 0 (a root of the region), 1 (ordinary
// history edge) or 2 (merge). Flattening may forge nodes with more.
type BranchNode struct {
	Commit  string
	Parents []*BranchNode
}

// NewRoot returns a parentless node over a resolved commit. The propagation
// driver uses one as the synthetic tree when porting starts from a bare base.
func NewRoot(commit string) *BranchNode {
	return &BranchNode{Commit: commit}
}

// Stats counts the backend-visible work of a run
type Stats struct {
	Picks     int `json:"picks"`
	Merges    int `json:"merges"`
	Forges    int `json:"forges"`
	Conflicts int `json:"conflicts"`
	Fallbacks int `json:"fallbacks"`
}

// PortResult is what a completed port reports: the validated chain, the raw
// propagated tree, and its flattened form.
type PortResult struct {
	RunID     string
	Base      string
	Upstream  string
	Chain     Chain
	Root      *BranchNode
	Flattened *BranchNode
	Stats     Stats
}
