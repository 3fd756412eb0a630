// Package publish drives the commit-and-push cycle against the shared
// upstream store: detect local changes, snapshot, reconcile, commit, push,
// retrying a bounded number of times when a concurrent writer got there
// first.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/reconcile"
)

const (
	// DefaultMaxAttempts bounds pushes for a single logical change set.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed pause between retries, to reduce
	// thrash against a fast-moving upstream.
	DefaultRetryDelay = 2 * time.Second

	// DefaultTriggerHour selects the extended commit message. The
	// GeoLite2 database refresh is scheduled at this hour.
	DefaultTriggerHour = 10

	baseCommitMessage     = "Update IP lists"
	extendedCommitMessage = "Update IP lists and GeoLite2 database"
)

// Loop is the publish state machine. It owns the retry budget and the
// decision of when to snapshot; the merge engine owns nothing between runs.
type Loop struct {
	Upstream Upstream
	Engine   *reconcile.Engine

	// MaxAttempts bounds total pushes per run (default 3).
	MaxAttempts int

	// RetryDelay is the pause between push retries.
	RetryDelay time.Duration

	// TriggerHour selects the extended commit message when the run's
	// wall-clock hour matches.
	TriggerHour int

	// Now stubs the clock in tests.
	Now func() time.Time
}

// NewLoop creates a publish loop with default retry policy.
func NewLoop(upstream Upstream, engine *reconcile.Engine) *Loop {
	return &Loop{
		Upstream:    upstream,
		Engine:      engine,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,
		TriggerHour: DefaultTriggerHour,
		Now:         time.Now,
	}
}

// Run executes the state machine to a terminal state. It returns the last
// reconcile result for the status sink, and a nil error only from Done.
// A clean working tree is a successful no-op.
func (l *Loop) Run(ctx context.Context) (*reconcile.Result, error) {
	state := StateDetectChange
	attempt := 0
	var result *reconcile.Result
	var failure error

	for {
		logging.Debug().Str("state", string(state)).Int("attempt", attempt).Msg("Publish transition")

		switch state {
		case StateDetectChange:
			dirty, err := l.Upstream.HasLocalChanges(ctx)
			if err != nil {
				state, failure = StateFailed, err
				break
			}
			if !dirty {
				logging.Info().Msg("Working tree clean, nothing to publish")
				state = StateDone
				break
			}
			state = StateReconcile

		case StateReconcile, StateRetryReconcile:
			if state == StateRetryReconcile {
				if err := l.pause(ctx); err != nil {
					state, failure = StateFailed, err
					break
				}
			}
			var err error
			result, err = l.reconcile(ctx, attempt+1)
			if err != nil {
				state, failure = StateFailed, err
				break
			}
			state = StateCommit

		case StateCommit:
			if err := l.Upstream.CommitAll(ctx, l.commitMessage()); err != nil {
				state, failure = StateFailed, errors.NewPublishError(attempt+1, "commit", err)
				break
			}
			state = StatePush

		case StatePush:
			attempt++
			err := l.Upstream.Push(ctx)
			if err == nil {
				logging.Info().Int("attempt", attempt).Msg("Published to upstream")
				state = StateDone
				break
			}
			if !errors.IsUpstreamDiverged(err) {
				state, failure = StateFailed, errors.NewPublishError(attempt, "push", err)
				break
			}
			if attempt >= l.maxAttempts() {
				state, failure = StateFailed, errors.NewPublishError(attempt, "push",
					fmt.Errorf("%w after %d attempts", errors.ErrRetryExhausted, attempt))
				break
			}
			logging.Warn().Int("attempt", attempt).Msg("Push rejected, upstream diverged; retrying")
			state = StateRetryReconcile

		case StateDone:
			return result, nil

		case StateFailed:
			logging.Error().Err(failure).Msg("Publish failed")
			return result, failure

		default:
			return result, fmt.Errorf("publish loop reached unknown state %q", state)
		}
	}
}

// reconcile snapshots the category files, syncs with upstream, and runs
// the merge engine. The engine runs whether or not the replay conflicted:
// clean and conflicted syncs funnel through the same merge/rewrite path.
func (l *Loop) reconcile(ctx context.Context, attempt int) (*reconcile.Result, error) {
	if err := reconcile.Snapshot(l.Engine.Dir, l.Engine.BackupDir); err != nil {
		return nil, errors.NewPublishError(attempt, "reconcile", err)
	}

	status, err := l.Upstream.Sync(ctx)
	if err != nil {
		// The replay could not complete at all; unwind before failing so
		// the store is never left half-applied.
		if abortErr := l.Upstream.AbortSync(ctx); abortErr != nil {
			logging.Error().Err(abortErr).Msg("Failed to unwind interrupted sync")
		}
		return nil, errors.NewPublishError(attempt, "reconcile", err)
	}

	logging.Info().Str("status", string(status)).Msg("Synchronized with upstream")

	result, err := l.Engine.Run(ctx)
	if err != nil {
		return result, errors.NewPublishError(attempt, "reconcile", err)
	}
	return result, nil
}

// pause waits the fixed retry delay, honoring cancellation.
func (l *Loop) pause(ctx context.Context) error {
	delay := l.RetryDelay
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// commitMessage picks the commit message by the time-of-day predicate:
// the trigger hour mentions the database refresh, every other hour uses
// the base message.
func (l *Loop) commitMessage() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	if now().Hour() == l.TriggerHour {
		return extendedCommitMessage
	}
	return baseCommitMessage
}

func (l *Loop) maxAttempts() int {
	if l.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return l.MaxAttempts
}
