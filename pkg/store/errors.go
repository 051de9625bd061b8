package store

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrRunNotFound     = errors.New("run not found")
	ErrStoreClosed     = errors.New("store is closed")
	ErrInvalidID       = errors.New("invalid run ID")
	ErrMarshalFailed   = errors.New("marshal failed")
	ErrCorruptedResult = errors.New("stored result is corrupted")
)

// StoreError provides structured error information for store operations.
type StoreError struct {
	Op    string // Operation that failed (e.g., "save", "get")
	RunID string // Run ID (if applicable)
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("%s run %s: %v", e.Op, e.RunID, e.Cause)
	}
	return fmt.Sprintf("%s runs: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *StoreError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func opError(op, id string, cause error) error {
	return &StoreError{Op: op, RunID: id, Cause: cause}
}

// IsNotFound reports whether err means the run does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
