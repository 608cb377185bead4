package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/store"
)

// MockItemStore implements store.ItemStore for testing.
// Each method calls its Fn field when set, otherwise delegates to Base when
// set, otherwise returns DefaultError. Calls are counted per method.
type MockItemStore struct {
	ListIDsFn    func(ctx context.Context) ([]int64, error)
	GetByIDFn    func(ctx context.Context, id int64) (*domain.Item, error)
	SaveFn       func(ctx context.Context, item *domain.Item) (*domain.Item, error)
	DeleteByIDFn func(ctx context.Context, id int64) error
	ListFn       func(ctx context.Context) ([]*domain.Item, error)

	// Base receives calls that have no Fn override.
	Base store.ItemStore

	DefaultError error

	mu    sync.Mutex
	calls map[string]int
}

var _ store.ItemStore = (*MockItemStore)(nil)

func (m *MockItemStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times method was invoked.
func (m *MockItemStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// ListIDs implements store.ItemStore
func (m *MockItemStore) ListIDs(ctx context.Context) ([]int64, error) {
	m.record("ListIDs")
	if m.ListIDsFn != nil {
		return m.ListIDsFn(ctx)
	}
	if m.Base != nil {
		return m.Base.ListIDs(ctx)
	}
	return nil, m.DefaultError
}

// GetByID implements store.ItemStore
func (m *MockItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Base != nil {
		return m.Base.GetByID(ctx, id)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return nil, store.ErrItemNotFound
}

// Save implements store.ItemStore
func (m *MockItemStore) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	m.record("Save")
	if m.SaveFn != nil {
		return m.SaveFn(ctx, item)
	}
	if m.Base != nil {
		return m.Base.Save(ctx, item)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	saved := *item
	return &saved, nil
}

// DeleteByID implements store.ItemStore
func (m *MockItemStore) DeleteByID(ctx context.Context, id int64) error {
	m.record("DeleteByID")
	if m.DeleteByIDFn != nil {
		return m.DeleteByIDFn(ctx, id)
	}
	if m.Base != nil {
		return m.Base.DeleteByID(ctx, id)
	}
	return m.DefaultError
}

// List implements store.ItemStore
func (m *MockItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	if m.Base != nil {
		return m.Base.List(ctx)
	}
	return nil, m.DefaultError
}
