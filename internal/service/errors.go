package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrItemNotFound indicates that the item does not exist.
	// API layer maps this to 204 for reads and 404 for updates.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidItem indicates the submitted item failed validation.
	// The wrapped error carries the field-level detail. API layer maps this to 400.
	ErrInvalidItem = errors.New("invalid item")

	// ErrBatchNotScheduled indicates a processing batch could not be run,
	// either because item IDs could not be listed or the worker queue was closed.
	ErrBatchNotScheduled = errors.New("item batch could not be scheduled")

	// ErrItemPanicked wraps a panic recovered while processing a single item.
	ErrItemPanicked = errors.New("item processing panicked")
)

// ItemServiceError wraps unexpected errors from the item service with context.
type ItemServiceError struct {
	// Operation is the operation that failed (e.g., "create_item")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ItemServiceError.
func (e *ItemServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("item service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("item service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ItemServiceError) Unwrap() error {
	return e.Err
}

// NewItemServiceError translates err for callers of the item service.
// Not-found errors become ErrItemNotFound, validation failures are wrapped
// with ErrInvalidItem, and anything else becomes an *ItemServiceError.
func NewItemServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, store.ErrItemNotFound):
		return ErrItemNotFound
	case errors.Is(err, ErrInvalidItem):
		return err
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrStatusRegression),
		errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	return &ItemServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
