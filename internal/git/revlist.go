package git

import (
	"context"
	"strings"
)

// RevListEntry is one line of rev-list --parents output: a commit and the
// parents recorded for it.
type RevListEntry struct {
	Hash    string
	Parents []string
}

// RevListWithParents lists the commits reachable from `from` but not from
// `excluding`, newest first, each with its recorded parents. The listing
// order is git's; callers that need oldest-first reverse it themselves.
func RevListWithParents(ctx context.Context, from, excluding string) ([]RevListEntry, error) {
	args := []string{"rev-list", "--parents", from}
	if excluding != "" {
		args = append(args, "^"+excluding)
	}

	lines, err := RunGitCommandLinesWithContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	entries := make([]RevListEntry, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, RevListEntry{
			Hash:    fields[0],
			Parents: fields[1:],
		})
	}
	return entries, nil
}
