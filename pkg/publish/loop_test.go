package publish_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/publish"
	"github.com/edgewatch/ipsync/pkg/reconcile"
)

// fakeUpstream scripts the shared store's behavior for one run.
type fakeUpstream struct {
	dirty      bool
	syncStatus publish.SyncStatus
	syncErr    error
	onSync     func() error
	pushErrs   []error

	syncs    int
	aborts   int
	commits  int
	pushes   int
	messages []string
}

func (f *fakeUpstream) HasLocalChanges(context.Context) (bool, error) {
	return f.dirty, nil
}

func (f *fakeUpstream) Sync(context.Context) (publish.SyncStatus, error) {
	f.syncs++
	if f.syncErr != nil {
		return "", f.syncErr
	}
	if f.onSync != nil {
		if err := f.onSync(); err != nil {
			return "", err
		}
	}
	if f.syncStatus == "" {
		return publish.SyncClean, nil
	}
	return f.syncStatus, nil
}

func (f *fakeUpstream) AbortSync(context.Context) error {
	f.aborts++
	return nil
}

func (f *fakeUpstream) CommitAll(_ context.Context, message string) error {
	f.commits++
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeUpstream) Push(context.Context) error {
	f.pushes++
	if len(f.pushErrs) == 0 {
		return nil
	}
	err := f.pushErrs[0]
	f.pushErrs = f.pushErrs[1:]
	return err
}

func (f *fakeUpstream) StatusText(context.Context) (string, error) {
	return "", nil
}

func newTestLoop(t *testing.T, upstream publish.Upstream) (*publish.Loop, string) {
	t.Helper()
	workDir := t.TempDir()
	backupDir := filepath.Join(t.TempDir(), "backup")

	loop := publish.NewLoop(upstream, reconcile.New(workDir, backupDir))
	loop.RetryDelay = time.Millisecond
	return loop, workDir
}

func TestRunCleanTreeIsANoOp(t *testing.T) {
	upstream := &fakeUpstream{dirty: false}
	loop, _ := newTestLoop(t, upstream)

	_, err := loop.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, upstream.syncs)
	assert.Equal(t, 0, upstream.commits)
	assert.Equal(t, 0, upstream.pushes)
}

func TestRunPublishesOnFirstAttempt(t *testing.T) {
	upstream := &fakeUpstream{dirty: true}
	loop, workDir := newTestLoop(t, upstream)
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "us.txt"), []byte("1.1.1.1:443#US\n"), 0o644))

	result, err := loop.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.syncs)
	assert.Equal(t, 1, upstream.commits)
	assert.Equal(t, 1, upstream.pushes)
	assert.Equal(t, 1, result.Categories["us.txt"])
}

func TestRunRetriesOnDivergenceAndConverges(t *testing.T) {
	upstream := &fakeUpstream{
		dirty:    true,
		pushErrs: []error{errors.ErrUpstreamDiverged, errors.ErrUpstreamDiverged, nil},
	}
	loop, workDir := newTestLoop(t, upstream)
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "us.txt"), []byte("1.1.1.1:443#US\n"), 0o644))

	_, err := loop.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, upstream.pushes)
	assert.Equal(t, 3, upstream.commits)
	assert.Equal(t, 3, upstream.syncs, "every retry re-reconciles")
}

func TestRunStopsAtRetryBound(t *testing.T) {
	upstream := &fakeUpstream{
		dirty: true,
		pushErrs: []error{
			errors.ErrUpstreamDiverged,
			errors.ErrUpstreamDiverged,
			errors.ErrUpstreamDiverged,
			errors.ErrUpstreamDiverged, // never reached
		},
	}
	loop, _ := newTestLoop(t, upstream)

	_, err := loop.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsRetryExhausted(err))
	assert.Equal(t, 3, upstream.pushes, "never more than 3 pushes for one change set")
}

func TestRunNonDivergencePushErrorIsFatal(t *testing.T) {
	upstream := &fakeUpstream{dirty: true, pushErrs: []error{errors.New("remote hung up")}}
	loop, _ := newTestLoop(t, upstream)

	_, err := loop.Run(context.Background())
	require.Error(t, err)
	assert.False(t, errors.IsUpstreamDiverged(err))
	assert.Equal(t, 1, upstream.pushes)
}

func TestRunSyncFailureUnwindsAndFails(t *testing.T) {
	upstream := &fakeUpstream{dirty: true, syncErr: errors.New("replay cannot continue")}
	loop, _ := newTestLoop(t, upstream)

	_, err := loop.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, upstream.aborts, "interrupted replay must be unwound")
	assert.Equal(t, 0, upstream.commits, "nothing is committed after a failed sync")
	assert.Equal(t, 0, upstream.pushes)
}

func TestRunMergesConflictsLeftBySync(t *testing.T) {
	var workDir string
	upstream := &fakeUpstream{
		dirty:      true,
		syncStatus: publish.SyncConflicted,
	}
	upstream.onSync = func() error {
		content := "<<<<<<< HEAD\n1.1.1.1:443#US\n=======\n8.8.8.8:443#US\n>>>>>>> origin/main\n"
		return os.WriteFile(filepath.Join(workDir, "us.txt"), []byte(content), 0o644)
	}

	loop, dir := newTestLoop(t, upstream)
	workDir = dir
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "us.txt"), []byte("1.1.1.1:443#US\n"), 0o644))

	_, err := loop.Run(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(workDir, "us.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1:443#US\n8.8.8.8:443#US\n", string(content))
}

func TestRunNormalizesEvenWithoutConflicts(t *testing.T) {
	// Clean syncs funnel through the same merge path: the engine still
	// re-sorts and re-validates every category file.
	upstream := &fakeUpstream{dirty: true}
	loop, workDir := newTestLoop(t, upstream)
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "us.txt"),
		[]byte("8.8.8.8:443#US\nnot-a-record\n1.1.1.1:443#US\n"), 0o644))

	_, err := loop.Run(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(workDir, "us.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1:443#US\n8.8.8.8:443#US\n", string(content))
}

func TestRunSnapshotsBeforeSync(t *testing.T) {
	upstream := &fakeUpstream{dirty: true}
	loop, workDir := newTestLoop(t, upstream)
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "us.txt"), []byte("1.1.1.1:443#US\n"), 0o644))

	_, err := loop.Run(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(loop.Engine.BackupDir, "us.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1:443#US\n", string(content))
}

func TestCommitMessageTriggerHour(t *testing.T) {
	tests := []struct {
		name         string
		hour         int
		wantExtended bool
	}{
		{"trigger hour uses extended message", 10, true},
		{"other hour uses base message", 9, false},
		{"midnight uses base message", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := &fakeUpstream{dirty: true}
			loop, _ := newTestLoop(t, upstream)
			loop.Now = func() time.Time {
				return time.Date(2025, 6, 1, tt.hour, 30, 0, 0, time.UTC)
			}

			_, err := loop.Run(context.Background())
			require.NoError(t, err)

			require.Len(t, upstream.messages, 1)
			if tt.wantExtended {
				assert.Contains(t, upstream.messages[0], "GeoLite2 database")
			} else {
				assert.NotContains(t, upstream.messages[0], "GeoLite2 database")
			}
		})
	}
}
