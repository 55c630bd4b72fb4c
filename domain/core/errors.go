package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound = errors.New("resource not found")

	// Validation errors
	ErrUnknownField  = errors.New("unknown field")
	ErrKindMismatch  = errors.New("field kind mismatch")
	ErrInvalidRange  = errors.New("invalid range bound")
	ErrInvalidChart  = errors.New("invalid chart definition")
	ErrUnknownSource = errors.New("unknown data source")

	// ErrEmptyResult is the non-fatal warning raised when the filter
	// criteria eliminate every record.
	ErrEmptyResult = errors.New("filter criteria matched no records")
)

// WarningEmptyResult is the wire code of ErrEmptyResult
const WarningEmptyResult = "empty_result"

// Error constructors with context
func NewFieldError(kind error, field string) error {
	return fmt.Errorf("%w: %s", kind, field)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrKindMismatch) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidChart)
}
