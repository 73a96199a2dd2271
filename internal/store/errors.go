package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update violates a constraint.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed is returned when a delete violates a constraint.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed is returned when a transaction cannot begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrPatientNotFound   = fmt.Errorf("%w: patient", ErrNotFound)
	ErrNoteNotFound      = fmt.Errorf("%w: progress note", ErrNotFound)
	ErrReminderNotFound  = fmt.Errorf("%w: reminder", ErrNotFound)
	ErrTemplateNotFound  = fmt.Errorf("%w: template", ErrNotFound)
	ErrRehabPlanNotFound = fmt.Errorf("%w: rehab plan", ErrNotFound)
	ErrDocumentNotFound  = fmt.Errorf("%w: knowledge document", ErrNotFound)

	// ErrHospitalNumberExists is returned when a patient with the same
	// hospital number is already registered.
	ErrHospitalNumberExists = fmt.Errorf("%w: hospital number", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Entity-specific sentinels wrap ErrNotFound, so one errors.Is suffices.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "patient", "reminder")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
