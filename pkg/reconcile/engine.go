// Package reconcile implements the merge engine: one pass that validates
// the category files in a working directory, extracts any embedded
// conflict sides, unions everything with the backup snapshot, and rewrites
// the files grouped by category.
package reconcile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/edgewatch/ipsync/pkg/conflict"
	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/records"
)

// Engine merges the working copy, any conflicting remote copy embedded in
// it, and the backup snapshot into a fresh set of category files. It owns
// no state between runs; a run is a pure transformation of the inputs,
// written back as a side effect.
type Engine struct {
	// Dir holds the category files being reconciled.
	Dir string

	// BackupDir holds the snapshot taken before the sync attempt.
	// Empty or missing means no backup input.
	BackupDir string
}

// New creates an engine over a working directory and an optional backup.
func New(dir, backupDir string) *Engine {
	return &Engine{Dir: dir, BackupDir: backupDir}
}

// Run reconciles every category file found in the working directory or the
// backup. Records are never dropped once they appear in any input: the
// merged output is the union of ours, theirs, and backup for every file.
//
// Failures on individual files or categories are recorded in the result
// and processing continues; the returned error is non-nil if anything
// failed, but every category has been attempted by then.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	result := NewResult()

	names, err := e.discover()
	if err != nil {
		result.Record(err)
		return result, result.Err()
	}

	// Gather the merged union across all files first; only then write.
	// Two files can feed the same category (case-folded names), so a
	// per-file write would clobber earlier contributions.
	merged := records.NewSet()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			result.Record(err)
			return result, result.Err()
		}
		set, err := e.mergeFile(name)
		if err != nil {
			result.Record(errors.NewMergeError("", name, err))
			continue
		}
		merged = merged.Union(set)
	}

	for category, set := range records.Partition(merged) {
		name := records.FileName(category)
		path := filepath.Join(e.Dir, name)
		if err := records.WriteFile(path, set); err != nil {
			result.Record(errors.NewMergeError(category, path, err))
			continue
		}
		result.Written(name, set.Len())
		logging.Debug().
			Str("file", name).
			Int("records", set.Len()).
			Msg("Category file rewritten")
	}

	logging.Info().
		Int("files", len(result.Files)).
		Int("records", result.TotalRecords()).
		Int("failures", len(result.Failures)).
		Msg("Reconcile pass complete")

	return result, result.Err()
}

// discover returns the union of category file names present in the
// working directory and the backup directory.
func (e *Engine) discover() ([]string, error) {
	working, err := records.ListFiles(e.Dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(working))
	names := make([]string, 0, len(working))
	for _, name := range working {
		seen[name] = true
		names = append(names, name)
	}
	if e.BackupDir != "" {
		backup, err := records.ListFiles(e.BackupDir)
		if err != nil {
			return nil, err
		}
		for _, name := range backup {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// mergeFile builds the merged record set for one category file:
// ours ∪ theirs from the working copy (which may carry conflict markers),
// unioned with the validated backup copy.
func (e *Engine) mergeFile(name string) (records.Set, error) {
	view := conflict.Clean(records.NewSet())

	content, err := os.ReadFile(filepath.Join(e.Dir, name))
	switch {
	case err == nil:
		view = conflict.Extract(name, string(content))
	case os.IsNotExist(err):
		// Present only in the backup; merge proceeds from that alone.
	default:
		return nil, errors.WrapIO("read", filepath.Join(e.Dir, name), err)
	}

	backup := records.NewSet()
	if e.BackupDir != "" {
		backup, err = records.Load(filepath.Join(e.BackupDir, name))
		if err != nil {
			return nil, err
		}
	}

	if view.Diverged {
		logging.Info().
			Str("file", name).
			Int("ours", view.Ours.Len()).
			Int("theirs", view.Theirs.Len()).
			Int("backup", backup.Len()).
			Msg("Merging divergent category file")
	}

	return view.Records().Union(backup), nil
}
