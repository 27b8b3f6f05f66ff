package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the sync layer. No error here is fatal to the
// process: the feed always falls back to a full refresh, so callers
// only need enough shape to pick a recovery path.

var ErrAuthRequired = errors.New("authentication required")
var ErrNotFound = errors.New("not found")

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// ValidationError rejects input locally, before any request is sent or
// any store mutation happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NetworkError wraps a transport-level failure (request could not
// complete). The cause is kept for logging; callers treat all network
// errors the same way.
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}
