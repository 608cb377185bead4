package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/store"
)

// ItemStore keeps items in a map guarded by a RWMutex. IDs are assigned
// from a counter starting at 1 and are never reused.
type ItemStore struct {
	mu     sync.RWMutex
	items  map[int64]domain.Item
	nextID int64
	logger *slog.Logger
}

var _ store.ItemStore = (*ItemStore)(nil)

// NewItemStore returns an empty in-memory store.
func NewItemStore(logger *slog.Logger) *ItemStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemStore{
		items:  make(map[int64]domain.Item),
		nextID: 1,
		logger: logger.With(slog.String("component", "memory_item_store")),
	}
}

// ListIDs returns all IDs in ascending order.
func (s *ItemStore) ListIDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ids := make([]int64, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	slices.Sort(ids)
	return ids, nil
}

// GetByID returns a copy of the stored item or store.ErrItemNotFound.
func (s *ItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()

	if !ok {
		return nil, store.ErrItemNotFound
	}
	return &item, nil
}

// Save inserts or updates a copy of item.
func (s *ItemStore) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: nil item", store.ErrInvalidEntity)
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	saved := *item

	s.mu.Lock()
	defer s.mu.Unlock()

	if saved.ID == 0 {
		saved.ID = s.nextID
		s.nextID++
	} else {
		current, ok := s.items[saved.ID]
		if !ok {
			return nil, store.ErrItemNotFound
		}
		if current.IsProcessed() && !saved.IsProcessed() {
			return nil, fmt.Errorf("%w: item %d", domain.ErrStatusRegression, saved.ID)
		}
	}
	s.items[saved.ID] = saved

	s.logger.Debug("item saved", slog.Int64("item_id", saved.ID))
	return &saved, nil
}

// DeleteByID removes the item if present.
func (s *ItemStore) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

// List returns copies of all items ordered by ID.
func (s *ItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	items := make([]*domain.Item, 0, len(s.items))
	for _, item := range s.items {
		item := item
		items = append(items, &item)
	}
	s.mu.RUnlock()

	slices.SortFunc(items, func(a, b *domain.Item) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return items, nil
}
