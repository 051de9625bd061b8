// Package remote holds the HTTP plumbing shared by the annotation service
// clients: error classification, retried requests and job polling.
package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrJobFailed is returned when a remote job reports failure.
	ErrJobFailed = errors.New("remote job failed")

	// ErrPollTimeout is returned when a job does not finish in time.
	ErrPollTimeout = errors.New("remote job did not finish in time")

	// ErrResponseTooLarge is returned when a body exceeds the client limit.
	ErrResponseTooLarge = errors.New("response too large")
)

// TransientError represents a temporary error that may succeed on retry.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string {
	return e.err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.err
}

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError represents a permanent error that should not be retried.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string {
	return e.err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient returns true if the error is transient and should be retried.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal returns true if the error is fatal and should not be retried.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// StatusError is a non-2xx response from a remote service.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.Code, e.Body)
}

// classifyHTTPError determines if an HTTP error is transient or fatal.
func classifyHTTPError(service string, statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := &StatusError{Service: service, Code: statusCode, Body: bodyStr}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	default:
		// 4xx and anything unexpected will not improve on retry
		return NewFatalError(err)
	}
}
