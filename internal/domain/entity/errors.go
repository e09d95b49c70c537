package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrMalformedRecord indicates that a raw source item failed
	// required-field parsing. The item is dropped; the batch continues.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrKeyRequired indicates that the service credential is missing.
	// Dependent operations short-circuit to empty results instead of
	// attempting the call.
	ErrKeyRequired = errors.New("service key required")

	// ErrDuplicateEntry indicates that a watchlist entry already exists.
	ErrDuplicateEntry = errors.New("watchlist entry already exists")

	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
