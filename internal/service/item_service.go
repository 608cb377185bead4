package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/platform/logger"
	"github.com/phrazzld/item-api/internal/store"
	"github.com/phrazzld/item-api/internal/task"
)

// ItemService provides item-related operations
type ItemService interface {
	// ListItems returns every stored item ordered by ID.
	ListItems(ctx context.Context) ([]domain.Item, error)

	// GetItem returns the item or ErrItemNotFound.
	GetItem(ctx context.Context, id int64) (*domain.Item, error)

	// CreateItem validates and stores a new item. Any ID on the input is
	// ignored and an empty status becomes NEW.
	CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error)

	// UpdateItem replaces the mutable fields of item id. The stored ID is
	// always id. Returns ErrInvalidItem or ErrItemNotFound.
	UpdateItem(ctx context.Context, id int64, item domain.Item) (*domain.Item, error)

	// DeleteItem removes the item; deleting a missing item succeeds.
	DeleteItem(ctx context.Context, id int64) error

	// ProcessAll starts batch processing and returns its pending result.
	ProcessAll(ctx context.Context) *task.Future[[]domain.Item]
}

// maxUpdateAttempts bounds UpdateItem's reload after a concurrent batch
// marks the item PROCESSED.
const maxUpdateAttempts = 2

// itemServiceImpl implements the ItemService interface
type itemServiceImpl struct {
	store     store.ItemStore
	processor BatchProcessor
	logger    *slog.Logger
}

var _ ItemService = (*itemServiceImpl)(nil)

// NewItemService creates the item service.
func NewItemService(itemStore store.ItemStore, processor BatchProcessor, logger *slog.Logger) ItemService {
	if itemStore == nil || processor == nil {
		// ALLOW-PANIC: constructor precondition
		panic("item store and batch processor are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &itemServiceImpl{
		store:     itemStore,
		processor: processor,
		logger:    logger.With("component", "item_service"),
	}
}

func (s *itemServiceImpl) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, NewItemServiceError("list_items", "failed to list items", err)
	}

	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out, nil
}

func (s *itemServiceImpl) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, NewItemServiceError("get_item", "failed to get item", err)
	}
	return item, nil
}

func (s *itemServiceImpl) CreateItem(ctx context.Context, input domain.Item) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewItem(input.Name, input.Description, input.Email, input.Status)
	if err != nil {
		log.Debug("rejected invalid item", "error", err)
		return nil, NewItemServiceError("create_item", "validation failed", err)
	}

	saved, err := s.store.Save(ctx, item)
	if err != nil {
		return nil, NewItemServiceError("create_item", "failed to save item", err)
	}

	log.Info("item created", "item_id", saved.ID)
	return saved, nil
}

func (s *itemServiceImpl) UpdateItem(ctx context.Context, id int64, input domain.Item) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Validate the payload on its own first so malformed input is rejected
	// with ErrInvalidItem whether or not the item exists.
	candidate := input
	candidate.ID = id
	if candidate.Status == "" {
		candidate.Status = domain.ItemStatusNew
	}
	if err := candidate.Validate(); err != nil {
		log.Debug("rejected invalid item update", "item_id", id, "error", err)
		return nil, NewItemServiceError("update_item", "validation failed", err)
	}

	// The store refuses to move a PROCESSED item back to NEW. If a batch
	// processed the item after it was read, reload and apply the update
	// again so an omitted status keeps PROCESSED.
	var saved *domain.Item
	for attempt := 1; ; attempt++ {
		existing, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, NewItemServiceError("update_item", "failed to load item", err)
		}

		if err := existing.ApplyUpdate(input); err != nil {
			return nil, NewItemServiceError("update_item", "update rejected", err)
		}

		saved, err = s.store.Save(ctx, existing)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrStatusRegression) && attempt < maxUpdateAttempts {
			log.Debug("item processed during update, reloading", "item_id", id)
			continue
		}
		return nil, NewItemServiceError("update_item", "failed to save item", err)
	}

	log.Info("item updated", "item_id", saved.ID)
	return saved, nil
}

func (s *itemServiceImpl) DeleteItem(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return NewItemServiceError("delete_item", "failed to delete item", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("item deleted", "item_id", id)
	return nil
}

func (s *itemServiceImpl) ProcessAll(ctx context.Context) *task.Future[[]domain.Item] {
	return s.processor.ProcessAll(ctx)
}
