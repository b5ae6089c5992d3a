package tui

import (
	"strings"

	"graft.dev/graft/internal/engine"
)

const (
	// TopSymbol marks the topmost changeset in tree views
	TopSymbol = "◉"
	// NodeSymbol marks every other changeset in tree views
	NodeSymbol = "◯"
)

// TreeRenderer draws changeset trees produced by the engine, newest
// changeset first, with parents indented beneath their children.
type TreeRenderer struct {
	abbrevLen int
}

// NewTreeRenderer creates a renderer that shortens commit ids to
// abbrevLen characters. A non-positive abbrevLen disables shortening.
func NewTreeRenderer(abbrevLen int) *TreeRenderer {
	return &TreeRenderer{abbrevLen: abbrevLen}
}

// Render returns a multi-line drawing of the tree below top.
// Nodes reachable through more than one path are drawn in full once;
// later occurrences show only the commit id with an ellipsis.
func (r *TreeRenderer) Render(top *engine.BranchNode) string {
	var b strings.Builder
	seen := make(map[*engine.BranchNode]bool)
	r.renderNode(&b, top, "", "", TopSymbol, seen)
	return b.String()
}

func (r *TreeRenderer) renderNode(b *strings.Builder, node *engine.BranchNode, linePrefix, childPrefix, symbol string, seen map[*engine.BranchNode]bool) {
	line := linePrefix + symbol + " " + ColorCyan(r.abbrev(node.Commit))
	switch {
	case seen[node]:
		line += " " + ColorDim("…")
	case len(node.Parents) == 0:
		line += " " + ColorDim("(root)")
	case len(node.Parents) > 2:
		line += " " + ColorYellow("(octopus)")
	}
	b.WriteString(line + "\n")

	if seen[node] {
		return
	}
	seen[node] = true

	for i, parent := range node.Parents {
		connector := ColorDim("├─") + " "
		nextPrefix := childPrefix + ColorDim("│") + "  "
		if i == len(node.Parents)-1 {
			connector = ColorDim("└─") + " "
			nextPrefix = childPrefix + "   "
		}
		r.renderNode(b, parent, childPrefix+connector, nextPrefix, NodeSymbol, seen)
	}
}

func (r *TreeRenderer) abbrev(commit string) string {
	if r.abbrevLen <= 0 || r.abbrevLen >= len(commit) {
		return commit
	}
	return commit[:r.abbrevLen]
}
