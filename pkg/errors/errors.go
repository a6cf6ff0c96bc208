// Package errors provides the error taxonomy for the pricesync engine.
// Typed errors carry the context a failed run needs to report (source
// file, row index, offending field) and support errors.Is checks against
// the package sentinels.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the pricesync engine.
var (
	// ErrMalformedRow indicates an import row failed normalization.
	// Malformed input is fatal to the run: no partial ingestion may
	// proceed to join or resolve.
	ErrMalformedRow = errors.New("malformed row")

	// ErrSnapshotUnavailable indicates the previous snapshot could not
	// be loaded. The run aborts with the baseline unchanged.
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")

	// ErrCommitFailed indicates the new snapshot could not be committed.
	// The previous baseline stays in force and the run is safe to retry.
	ErrCommitFailed = errors.New("snapshot commit failed")

	// ErrUnresolvedTie indicates the resolver's deterministic tie-break
	// failed to order two candidate rules. This cannot happen with
	// well-formed input and is treated as an invariant violation.
	ErrUnresolvedTie = errors.New("unresolved price rule tie")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreLocked indicates another run holds the snapshot store's
	// exclusive run lock.
	ErrStoreLocked = errors.New("snapshot store locked")
)

// MalformedRowError reports a row that failed normalization, with the
// source file, row index and field needed to find it in the export.
type MalformedRowError struct {
	Source string // import source kind
	Row    int    // zero-based row index within the source
	Field  string // the specific field that failed
	Reason string
}

// Error implements the error interface.
func (e *MalformedRowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed row %d in %s: field %q: %s", e.Row, e.Source, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed row %d in %s: %s", e.Row, e.Source, e.Reason)
}

// Is implements errors.Is support.
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

// NewMalformedRowError creates a new MalformedRowError.
func NewMalformedRowError(source string, row int, field, reason string) *MalformedRowError {
	return &MalformedRowError{Source: source, Row: row, Field: field, Reason: reason}
}

// TieError reports two candidate price rules the deterministic
// tie-break could not order. Carries the item and rule codes so the
// invariant violation can be logged with full context before aborting.
type TieError struct {
	ItemCode  string
	RuleCodes []string
}

// Error implements the error interface.
func (e *TieError) Error() string {
	return fmt.Sprintf("unresolved price rule tie for item %s between rules %v", e.ItemCode, e.RuleCodes)
}

// Is implements errors.Is support.
func (e *TieError) Is(target error) bool {
	return target == ErrUnresolvedTie
}

// SnapshotError reports a persistence failure at the snapshot store
// boundary. Op is "load" or "commit"; the sentinel it matches depends
// on which.
type SnapshotError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SnapshotError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("snapshot %s failed for %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *SnapshotError) Is(target error) bool {
	if e.Op == "commit" {
		return target == ErrCommitFailed
	}
	return target == ErrSnapshotUnavailable
}

// NewSnapshotError creates a new SnapshotError.
func NewSnapshotError(op, path string, err error) *SnapshotError {
	return &SnapshotError{Op: op, Path: path, Err: err}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// IOError represents an error during file I/O.
type IOError struct {
	Operation string // "read", "write", "create", "rename", "remove"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ExportError reports a report/export selector that failed to
// materialize its output file. Any ExportError vetoes the snapshot
// commit for the run.
type ExportError struct {
	Report string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s to %s failed: %v", e.Report, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(report, path string, err error) *ExportError {
	return &ExportError{Report: report, Path: path, Err: err}
}

// Helper functions for error checking.

// IsMalformedRow checks if an error is a malformed row error.
func IsMalformedRow(err error) bool {
	return errors.Is(err, ErrMalformedRow)
}

// IsSnapshotUnavailable checks if an error is a snapshot load failure.
func IsSnapshotUnavailable(err error) bool {
	return errors.Is(err, ErrSnapshotUnavailable)
}

// IsCommitFailed checks if an error is a snapshot commit failure.
func IsCommitFailed(err error) bool {
	return errors.Is(err, ErrCommitFailed)
}

// IsUnresolvedTie checks if an error is a resolver tie violation.
func IsUnresolvedTie(err error) bool {
	return errors.Is(err, ErrUnresolvedTie)
}

// Helper wrapping functions for common patterns.

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapExport wraps an error as an ExportError.
func WrapExport(report, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewExportError(report, path, err)
}
