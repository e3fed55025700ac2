package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by the store and repositories when the
// requested row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed user input, e.g. a typed clock time
// that is not mm:ss. Resolved locally, never persisted.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// PreconditionError reports an operation attempted from the wrong clock
// state, e.g. finalize while running. Resolved locally with no store
// mutation.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// StoreError wraps any remote read/write failure. The in-progress
// transition is aborted and the previous local state stays authoritative.
type StoreError struct {
	Op     string
	Status int
	Err    error
}

func (e *StoreError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPrecondition reports whether err is (or wraps) a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// IsStore reports whether err is (or wraps) a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
