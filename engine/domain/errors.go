package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. Specific invalid-input conditions wrap ErrInvalidInput so
// transport layers can match the whole family with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrQueryTooShort = fmt.Errorf("%w: query too short", ErrInvalidInput)
	ErrBadCustomerID = fmt.Errorf("%w: malformed customer id", ErrInvalidInput)
	ErrBadDateRange  = fmt.Errorf("%w: start date after end date", ErrInvalidInput)
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
