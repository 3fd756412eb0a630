// Package conflict extracts rival record sets from files that may carry
// git conflict markers. All marker parsing lives here; the merge engine
// only ever sees a tagged View value.
package conflict

import (
	"strings"

	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/records"
)

// Conflict markers as git writes them. Input only; ipsync never produces them.
const (
	MarkerOurs   = "<<<<<<<"
	MarkerSplit  = "======="
	MarkerTheirs = ">>>>>>>"
)

// View is the result of scanning one file for embedded rival edits:
// either a single clean record set, or the two competing sets.
type View struct {
	Diverged bool
	Ours     records.Set
	Theirs   records.Set
}

// Records returns every record in the view regardless of side.
func (v View) Records() records.Set {
	if !v.Diverged {
		return v.Ours
	}
	return v.Ours.Union(v.Theirs)
}

// Clean builds a non-diverged view over a single set.
func Clean(set records.Set) View {
	return View{Ours: set, Theirs: records.NewSet()}
}

// Diverged builds a view over two competing sets.
func Diverged(ours, theirs records.Set) View {
	return View{Diverged: true, Ours: ours, Theirs: theirs}
}

// Extract scans file content for conflict markers. Content without an
// "ours" start marker parses as a single clean set. Divergent content
// splits into the ours half (everything before the start marker plus the
// block up to the separator) and the theirs half (the block up to the end
// marker); each half is validated into a record set.
//
// Malformed marker structure degrades to two empty sets rather than an
// error: one broken file must not block reconciliation of the rest.
func Extract(name, content string) View {
	before, rest, found := strings.Cut(content, MarkerOurs)
	if !found {
		return Clean(records.ValidateText(content))
	}

	oursBlock, rest, ok := strings.Cut(rest, MarkerSplit)
	if !ok {
		logging.Warn().
			Str("file", name).
			Str("marker", MarkerSplit).
			Msg("Conflict separator marker missing, treating file as empty")
		return Diverged(records.NewSet(), records.NewSet())
	}

	theirsBlock, _, ok := strings.Cut(rest, MarkerTheirs)
	if !ok {
		logging.Warn().
			Str("file", name).
			Str("marker", MarkerTheirs).
			Msg("Conflict end marker missing, treating file as empty")
		return Diverged(records.NewSet(), records.NewSet())
	}

	// The marker remnants ("HEAD", branch labels) fail validation and drop out.
	ours := records.ValidateText(before + "\n" + oursBlock)
	theirs := records.ValidateText(theirsBlock)
	return Diverged(ours, theirs)
}
