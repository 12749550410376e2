package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/todo-reminder/internal/store"
)

// Sentinel errors returned by the services. The API layer maps them to
// HTTP status codes.
var (
	// ErrNoEndpoint indicates a tick had neither a return URL nor a
	// configured default webhook to deliver to.
	ErrNoEndpoint = errors.New("no webhook endpoint configured")

	// ErrReminderNotFound indicates the reminder does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrReminderNotFound = errors.New("reminder not found")
)

// ServiceError wraps unexpected failures with the operation that produced them.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "add_task", "tick")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reminder service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("reminder service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// It returns known sentinel errors directly without wrapping.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrReminderNotFound) || errors.Is(err, store.ErrReminderNotFound) {
		return ErrReminderNotFound
	}
	if errors.Is(err, ErrNoEndpoint) {
		return ErrNoEndpoint
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
