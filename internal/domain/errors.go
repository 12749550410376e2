// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Specific validation errors below wrap it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyTask is returned when a reminder is created without a description.
	ErrEmptyTask = fmt.Errorf("%w: task cannot be empty", ErrValidation)

	// ErrPastDate is returned when a reminder is scheduled before the current UTC date.
	ErrPastDate = fmt.Errorf("%w: date cannot be in the past", ErrValidation)

	// ErrInvalidDate is returned when a date is not a YYYY-MM-DD calendar date.
	ErrInvalidDate = fmt.Errorf("%w: date must use YYYY-MM-DD", ErrValidation)

	// ErrInvalidTime is returned when a time of day is not HH:MM (24-hour).
	ErrInvalidTime = fmt.Errorf("%w: time must use HH:MM", ErrValidation)
)

// ValidationError describes a single invalid input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
