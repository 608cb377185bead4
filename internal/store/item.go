package store

import (
	"context"

	"github.com/phrazzld/item-api/internal/domain"
)

// ItemStore defines the interface for item data persistence.
// Implementations must be safe for concurrent independent calls; the batch
// processor calls GetByID and Save from many workers at once without any
// locking of its own.
type ItemStore interface {
	// ListIDs returns the IDs of all stored items.
	// Returns an empty slice if the store is empty.
	ListIDs(ctx context.Context) ([]int64, error)

	// GetByID retrieves an item by its ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// Save inserts the item when its ID is zero and updates it otherwise.
	// It returns the persisted item, including a newly assigned ID.
	// Returns ErrItemNotFound when updating an ID that does not exist and
	// domain.ErrStatusRegression when the stored item is PROCESSED and the
	// update carries any other status.
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)

	// DeleteByID removes the item with the given ID.
	// Deleting a missing item is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// List returns all stored items ordered by ID.
	List(ctx context.Context) ([]*domain.Item, error)
}
