package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// Result collects what one reconcile pass wrote and what failed. Failures
// never short-circuit the pass; they accumulate here so the caller can
// report everything and decide whether to abort the publish attempt.
type Result struct {
	// Categories maps written file name to the record count it holds.
	Categories map[string]int

	// Files lists the category files written, in write order.
	Files []string

	// Failures holds every per-file and per-category error from the pass.
	Failures []error
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{Categories: make(map[string]int)}
}

// Written records a successfully rewritten category file.
func (r *Result) Written(file string, count int) {
	r.Categories[file] = count
	r.Files = append(r.Files, file)
}

// Record adds a failure without stopping the pass.
func (r *Result) Record(err error) {
	r.Failures = append(r.Failures, err)
}

// Success reports whether the whole pass completed without failures.
func (r *Result) Success() bool {
	return len(r.Failures) == 0
}

// TotalRecords returns the record count across all written files.
func (r *Result) TotalRecords() int {
	total := 0
	for _, count := range r.Categories {
		total += count
	}
	return total
}

// Err returns nil on success, or an error naming every failure.
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	msgs := make([]string, len(r.Failures))
	for i, err := range r.Failures {
		msgs[i] = err.Error()
	}
	return fmt.Errorf("reconcile completed with %d failure(s): %s",
		len(r.Failures), strings.Join(msgs, "; "))
}

// Summary returns a human-readable account of the pass, one category per
// line, for the status sink.
func (r *Result) Summary() string {
	if len(r.Categories) == 0 && r.Success() {
		return "No category files written"
	}

	files := make([]string, 0, len(r.Categories))
	for file := range r.Categories {
		files = append(files, file)
	}
	sort.Strings(files)

	var b strings.Builder
	fmt.Fprintf(&b, "%d records across %d categories\n", r.TotalRecords(), len(files))
	for _, file := range files {
		fmt.Fprintf(&b, "  %s: %d\n", file, r.Categories[file])
	}
	if !r.Success() {
		fmt.Fprintf(&b, "%d failure(s)\n", len(r.Failures))
	}
	return strings.TrimRight(b.String(), "\n")
}
