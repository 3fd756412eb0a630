// Package errors provides custom error types for the ipsync system.
// These errors enable programmatic error checking and preserve context
// about which file, category, or upstream operation failed.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the ipsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamDiverged indicates the shared upstream moved while we were
	// preparing a commit; the publish attempt must re-reconcile and retry
	ErrUpstreamDiverged = errors.New("upstream diverged")

	// ErrRetryExhausted indicates the publish retry budget was spent without
	// the upstream accepting our commit
	ErrRetryExhausted = errors.New("retry budget exhausted")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "copy", "delete"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "conflict-markers", "record", etc.
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// MergeError records a failure while merging or rewriting one category,
// so the reconcile pass can keep going and report everything at the end.
type MergeError struct {
	Category string
	File     string
	Err      error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("merge failed for category %s (%s): %v", e.Category, e.File, e.Err)
	}
	return fmt.Sprintf("merge failed for %s: %v", e.File, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(category, file string, err error) *MergeError {
	return &MergeError{Category: category, File: file, Err: err}
}

// PublishError represents a failure of a publish attempt against the
// shared upstream store.
type PublishError struct {
	Attempt int
	Stage   string // "reconcile", "commit", "push"
	Err     error
}

// Error implements the error interface
func (e *PublishError) Error() string {
	return fmt.Sprintf("publish attempt %d failed during %s: %v", e.Attempt, e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PublishError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *PublishError) Is(target error) bool {
	return target == ErrRetryExhausted && errors.Is(e.Err, ErrRetryExhausted)
}

// NewPublishError creates a new PublishError
func NewPublishError(attempt int, stage string, err error) *PublishError {
	return &PublishError{Attempt: attempt, Stage: stage, Err: err}
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string // What operation was being performed
	Command   string // The command that was executed
	Output    string // Stdout/stderr output from the process
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// NewProcessError creates a new ProcessError
func NewProcessError(operation, command, output string, err error) *ProcessError {
	return &ProcessError{Operation: operation, Command: command, Output: output, Err: err}
}

// SourceError represents a failure fetching records from one source.
// Per-source failures are absorbed by the caller; the run continues.
type SourceError struct {
	Source string
	Target string // domain or URL that failed
	Err    error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("source %s failed for %s: %v", e.Source, e.Target, e.Err)
	}
	return fmt.Sprintf("source %s failed: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError
func NewSourceError(source, target string, err error) *SourceError {
	return &SourceError{Source: source, Target: target, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUpstreamDiverged checks if an error is a recoverable push rejection
func IsUpstreamDiverged(err error) bool {
	return errors.Is(err, ErrUpstreamDiverged)
}

// IsRetryExhausted checks if an error means the publish retry budget ran out
func IsRetryExhausted(err error) bool {
	return errors.Is(err, ErrRetryExhausted)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapSource wraps an error as a SourceError
func WrapSource(source, target string, err error) error {
	if err == nil {
		return nil
	}
	return NewSourceError(source, target, err)
}
