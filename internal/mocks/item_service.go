package mocks

import (
	"context"

	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/task"
)

// MockItemService implements service.ItemService for testing
type MockItemService struct {
	ListItemsFn  func(ctx context.Context) ([]domain.Item, error)
	GetItemFn    func(ctx context.Context, id int64) (*domain.Item, error)
	CreateItemFn func(ctx context.Context, item domain.Item) (*domain.Item, error)
	UpdateItemFn func(ctx context.Context, id int64, item domain.Item) (*domain.Item, error)
	DeleteItemFn func(ctx context.Context, id int64) error
	ProcessAllFn func(ctx context.Context) *task.Future[[]domain.Item]

	// Default return values
	Item         *domain.Item
	Items        []domain.Item
	DefaultError error
}

// ListItems implements the ItemService.ListItems method
func (m *MockItemService) ListItems(ctx context.Context) ([]domain.Item, error) {
	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx)
	}
	return m.Items, m.DefaultError
}

// GetItem implements the ItemService.GetItem method
func (m *MockItemService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, id)
	}
	return m.Item, m.DefaultError
}

// CreateItem implements the ItemService.CreateItem method
func (m *MockItemService) CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	if m.CreateItemFn != nil {
		return m.CreateItemFn(ctx, item)
	}
	return m.Item, m.DefaultError
}

// UpdateItem implements the ItemService.UpdateItem method
func (m *MockItemService) UpdateItem(ctx context.Context, id int64, item domain.Item) (*domain.Item, error) {
	if m.UpdateItemFn != nil {
		return m.UpdateItemFn(ctx, id, item)
	}
	return m.Item, m.DefaultError
}

// DeleteItem implements the ItemService.DeleteItem method
func (m *MockItemService) DeleteItem(ctx context.Context, id int64) error {
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, id)
	}
	return m.DefaultError
}

// ProcessAll implements the ItemService.ProcessAll method. Without an
// override it returns a future already resolved with Items and DefaultError.
func (m *MockItemService) ProcessAll(ctx context.Context) *task.Future[[]domain.Item] {
	if m.ProcessAllFn != nil {
		return m.ProcessAllFn(ctx)
	}
	f := task.NewFuture[[]domain.Item]()
	f.Complete(m.Items, m.DefaultError)
	return f
}
