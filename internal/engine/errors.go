package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned for transitions the current state forbids,
	// e.g. completing an already-completed launch or contributing to a
	// completed goal.
	ErrConflict = errors.New("conflicting state")
)

// ValidationError reports malformed or out-of-range input. It is always
// raised before any write is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps an unclassified failure from the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
