package store

import (
	"errors"
	"fmt"
)

// StoreError represents a table-store invariant violation.
//
// These are the hard errors of the core: strict-mode inserts that are
// missing an ID or collide with an existing one, updates that try to
// rewrite the ID field, and lookups of absent records where the caller
// asked for an error rather than a miss. Everything softer (dangling
// references, malformed keys encountered during repair) is reported as a
// consistency.Warning instead.
type StoreError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Table names the affected table.
	Table string

	// ID is the offending record ID, formatted for display.
	ID string
}

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the referenced record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDuplicateID indicates a strict insert collided with an
	// existing record's ID.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeMissingID indicates a strict insert carried no ID.
	ErrCodeMissingID ErrorCode = "MISSING_ID"

	// ErrCodeImmutableField indicates an update attempted to change the
	// ID field.
	ErrCodeImmutableField ErrorCode = "IMMUTABLE_FIELD"
)

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (table=%s, id=%s)", e.Code, e.Message, e.Table, e.ID)
	}
	return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.Table)
}

// IsNotFound reports whether err is a record-not-found error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsDuplicateID reports whether err is a strict-insert ID collision.
func IsDuplicateID(err error) bool {
	return hasCode(err, ErrCodeDuplicateID)
}

// IsMissingID reports whether err is a strict-insert missing-ID error.
func IsMissingID(err error) bool {
	return hasCode(err, ErrCodeMissingID)
}

// IsImmutableField reports whether err is an ID-mutation error.
func IsImmutableField(err error) bool {
	return hasCode(err, ErrCodeImmutableField)
}

func hasCode(err error, code ErrorCode) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func newNotFoundError(table, id string) *StoreError {
	return &StoreError{
		Code:    ErrCodeNotFound,
		Message: "record not found",
		Table:   table,
		ID:      id,
	}
}

func newDuplicateIDError(table, id string) *StoreError {
	return &StoreError{
		Code:    ErrCodeDuplicateID,
		Message: "record with this ID already exists",
		Table:   table,
		ID:      id,
	}
}

func newMissingIDError(table, idField string) *StoreError {
	return &StoreError{
		Code:    ErrCodeMissingID,
		Message: fmt.Sprintf("ID field %q is required for strict inserts", idField),
		Table:   table,
	}
}

func newImmutableFieldError(table, id, idField string) *StoreError {
	return &StoreError{
		Code:    ErrCodeImmutableField,
		Message: fmt.Sprintf("ID field %q cannot be changed by an update", idField),
		Table:   table,
		ID:      id,
	}
}
