package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"patient not found", ErrPatientNotFound, true},
		{"wrapped reminder not found", fmt.Errorf("complete: %w", ErrReminderNotFound), true},
		{"store error around template not found", NewStoreError("template", "get", "lookup", ErrTemplateNotFound), true},
		{"duplicate is not not-found", ErrHospitalNumberExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrHospitalNumberExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create patient: %w", ErrHospitalNumberExists)))
	assert.False(t, IsDuplicateError(ErrPatientNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	withCause := NewStoreError("patient", "create", "insert failed", ErrHospitalNumberExists)
	assert.Equal(t,
		"create operation on patient failed: insert failed: entity already exists: hospital number",
		withCause.Error())
	assert.ErrorIs(t, withCause, ErrDuplicate)

	var se *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", withCause), &se))
	assert.Equal(t, "patient", se.Entity)

	bare := NewStoreError("reminder", "list", "bad filter", nil)
	assert.Equal(t, "list operation on reminder failed: bad filter", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
