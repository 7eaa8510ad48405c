package resumes

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a store call is made without a signed-in user.
var ErrUnauthenticated = errors.New("no authenticated user")

// NotFoundError indicates the requested résumé does not exist
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// StoreError wraps a failure of the underlying document backend
type StoreError struct {
	Op    string
	ID    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store error: %s %s: %v", e.Op, e.ID, e.Cause)
	}
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// DecodeError indicates a stored document that cannot be read as a résumé.
// The backend itself worked.
type DecodeError struct {
	ID    string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unreadable resume %s: %v", e.ID, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates a record was rejected before being written
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
