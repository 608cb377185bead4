package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidItemStatus is returned when an item status is not one of the known values.
	ErrInvalidItemStatus = errors.New("invalid item status")

	// ErrStatusRegression is returned when an update would move an item
	// from PROCESSED back to NEW.
	ErrStatusRegression = errors.New("item status cannot revert from PROCESSED")
)

// ValidationError describes a single invalid field. It wraps a sentinel so
// callers can match it with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil, ErrValidation is used.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrValidation so every field error is also a validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
