package service

import (
	"errors"
	"fmt"
)

var (
	// ErrKnowledgeDisabled is returned when the knowledge base is not configured.
	// The API maps it to 503 Service Unavailable.
	ErrKnowledgeDisabled = errors.New("knowledge base is not configured")

	// ErrInvalidInput is returned when a request fails service-level validation.
	ErrInvalidInput = errors.New("invalid input")
)

// ServiceError wraps an error with the operation that failed.
type ServiceError struct {
	// Operation is the use case that failed, e.g. "create_patient"
	Operation string
	// Message is a human-readable description of the failure
	Message string
	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err. It returns nil for a nil err and leaves an error
// that is already a *ServiceError untouched.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

// invalidInput reports a validation failure for field.
func invalidInput(operation, field, reason string) error {
	return &ServiceError{
		Operation: operation,
		Message:   field + " " + reason,
		Err:       ErrInvalidInput,
	}
}
