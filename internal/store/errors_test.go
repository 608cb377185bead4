package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrItemNotFound", err: ErrItemNotFound, expected: true},
		{
			name:     "wrapped ErrItemNotFound",
			err:      fmt.Errorf("failed to load item 4: %w", ErrItemNotFound),
			expected: true,
		},
		{
			name:     "store error wrapping not found",
			err:      NewStoreError("item", "get", "lookup failed", ErrItemNotFound),
			expected: true,
		},
		{name: "duplicate is not not-found", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrItemNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewStoreError("item", "save", "update failed", cause)

		assert.Equal(t, "save operation on item failed: update failed: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("item", "list", "no rows", nil)

		assert.Equal(t, "list operation on item failed: no rows", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
