package gitrepo

import (
	"fmt"
	"strings"

	"github.com/edgewatch/ipsync/pkg/errors"
)

// rejectionHints are the phrases git prints when a push loses the race
// against another writer. Anything else is a hard failure.
var rejectionHints = []string{
	"non-fast-forward",
	"fetch first",
	"[rejected]",
	"cannot lock ref",
}

// classifyPushError maps a failed push to ErrUpstreamDiverged when the
// output indicates the upstream moved, and passes the failure through
// otherwise.
func classifyPushError(output string, err error) error {
	lower := strings.ToLower(output)
	for _, hint := range rejectionHints {
		if strings.Contains(lower, hint) {
			return fmt.Errorf("%w: %s", errors.ErrUpstreamDiverged, firstLine(output))
		}
	}
	return err
}

// isConflict reports whether a stash pop failed because of merge
// conflicts (markers are now in the working tree) rather than some other
// git failure.
func isConflict(output string) bool {
	return strings.Contains(output, "CONFLICT") ||
		strings.Contains(output, "Merge conflict")
}

// isNothingToCommit reports whether a commit failed only because the
// tree already matches HEAD.
func isNothingToCommit(output string) bool {
	return strings.Contains(output, "nothing to commit") ||
		strings.Contains(output, "nothing added to commit")
}

// firstLine trims output down to its first non-empty line for error text.
func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
