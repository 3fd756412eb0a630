package publish

import "context"

// SyncStatus reports how replaying local changes onto the latest upstream
// state went.
type SyncStatus string

const (
	// SyncClean means the replay applied without conflicts.
	SyncClean SyncStatus = "clean"

	// SyncConflicted means the replay left conflict markers in the
	// working tree for the merge engine to resolve.
	SyncConflicted SyncStatus = "conflicted"
)

// Upstream is the shared version-controlled store the loop publishes to.
// It is the single point of mutual exclusion between concurrent writers:
// a push is accepted atomically or rejected outright, and rejection is
// surfaced as errors.ErrUpstreamDiverged.
type Upstream interface {
	// HasLocalChanges compares the working tree to the last committed state.
	HasLocalChanges(ctx context.Context) (bool, error)

	// Sync brings the working tree up to the latest upstream state and
	// re-applies the pending local changes. A conflicted replay is not an
	// error; the markers are left in place for the merge engine.
	Sync(ctx context.Context) (SyncStatus, error)

	// AbortSync unwinds a replay that cannot complete, so a failing run
	// never leaves the store in a half-applied state.
	AbortSync(ctx context.Context) error

	// CommitAll stages the category directory and commits it.
	CommitAll(ctx context.Context, message string) error

	// Push publishes the commit. Rejection due to upstream divergence
	// returns errors.ErrUpstreamDiverged; anything else is fatal.
	Push(ctx context.Context) error

	// StatusText returns a human-readable working tree status for the
	// run summary.
	StatusText(ctx context.Context) (string, error)
}
