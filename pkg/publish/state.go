package publish

// State names one step of the publish state machine. Every transition is
// an explicit value returned by a step function, never a thrown signal.
type State string

const (
	// StateIdle is the state before a run begins.
	StateIdle State = "idle"

	// StateDetectChange compares the working tree to the last commit.
	StateDetectChange State = "detect-change"

	// StateReconcile snapshots, syncs with upstream, and runs the merge engine.
	StateReconcile State = "reconcile"

	// StateCommit stages and commits the category directory.
	StateCommit State = "commit"

	// StatePush attempts to publish the commit upstream.
	StatePush State = "push"

	// StateRetryReconcile re-reconciles after a rejected push. The pending
	// local diff is assumed still relevant, so change detection is skipped.
	StateRetryReconcile State = "retry-reconcile"

	// StateDone is the successful terminal state, possibly a no-op.
	StateDone State = "done"

	// StateFailed is the failing terminal state.
	StateFailed State = "failed"
)
