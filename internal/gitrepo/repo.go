// Package gitrepo implements the publish.Upstream collaborator on top of
// the git command line. The publish loop only ever consumes "applied",
// "diverged", and "conflict markers present" signals; all git mechanics
// stay in here.
package gitrepo

import (
	"context"
	"os/exec"
	"strings"

	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/publish"
)

// Repo is a git repository holding the category file directory.
type Repo struct {
	// Dir is the repository root.
	Dir string

	// ListDir is the category file directory, relative to Dir.
	ListDir string

	// Remote and Branch name the shared upstream reference.
	Remote string
	Branch string
}

// New creates a Repo over an existing clone.
func New(dir, listDir, remote, branch string) *Repo {
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = "main"
	}
	return &Repo{Dir: dir, ListDir: listDir, Remote: remote, Branch: branch}
}

// run executes one git command in the repository and returns its combined
// output.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // All parameters are controlled
	cmd.Dir = r.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), errors.NewProcessError(
			"git "+args[0], "git "+strings.Join(args, " "), string(output), err)
	}
	return string(output), nil
}

// HasLocalChanges reports whether the category directory differs from the
// last committed state.
func (r *Repo) HasLocalChanges(ctx context.Context) (bool, error) {
	output, err := r.run(ctx, "status", "--porcelain", "--", r.ListDir)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

// Sync brings the working tree to the latest upstream head and re-applies
// the pending local changes: stash, fetch, hard reset, stash pop. A
// conflicted pop leaves markers in the category files and reports
// SyncConflicted; the merge engine takes it from there.
func (r *Repo) Sync(ctx context.Context) (publish.SyncStatus, error) {
	stashOut, err := r.run(ctx, "stash", "push", "--include-untracked", "--", r.ListDir)
	if err != nil {
		return "", err
	}
	stashed := !strings.Contains(stashOut, "No local changes to save")

	if _, err := r.run(ctx, "fetch", r.Remote, r.Branch); err != nil {
		return "", err
	}
	if _, err := r.run(ctx, "reset", "--hard", r.Remote+"/"+r.Branch); err != nil {
		return "", err
	}

	if !stashed {
		return publish.SyncClean, nil
	}

	popOut, popErr := r.run(ctx, "stash", "pop")
	if popErr == nil {
		return publish.SyncClean, nil
	}
	if !isConflict(popOut) {
		return "", popErr
	}

	// The conflicted stash entry is kept by git; drop it, the markers are
	// already in the working tree.
	if _, err := r.run(ctx, "stash", "drop"); err != nil {
		logging.Warn().Err(err).Msg("Could not drop conflicted stash entry")
	}
	return publish.SyncConflicted, nil
}

// AbortSync unwinds an interrupted replay so the clone is never left in
// an ambiguous half-applied state.
func (r *Repo) AbortSync(ctx context.Context) error {
	if _, err := r.run(ctx, "reset", "--hard", "HEAD"); err != nil {
		return err
	}
	// Best effort: an aborted replay may have left a stash entry behind.
	if _, err := r.run(ctx, "stash", "drop"); err != nil {
		logging.Debug().Err(err).Msg("No stash entry to drop during unwind")
	}
	return nil
}

// CommitAll stages the category directory and commits it. A tree with
// nothing left to commit (a retry can converge to the upstream state
// exactly) is not an error.
func (r *Repo) CommitAll(ctx context.Context, message string) error {
	if _, err := r.run(ctx, "add", "--", r.ListDir); err != nil {
		return err
	}
	output, err := r.run(ctx, "commit", "-m", message)
	if err != nil && !isNothingToCommit(output) {
		return err
	}
	return nil
}

// Push publishes the local branch. Rejection because the upstream moved
// is reported as errors.ErrUpstreamDiverged so the loop can retry.
func (r *Repo) Push(ctx context.Context) error {
	output, err := r.run(ctx, "push", r.Remote, "HEAD:"+r.Branch)
	if err != nil {
		return classifyPushError(output, err)
	}
	return nil
}

// StatusText returns the short working tree status for the run summary.
func (r *Repo) StatusText(ctx context.Context) (string, error) {
	return r.run(ctx, "status", "--short")
}

var _ publish.Upstream = (*Repo)(nil)
