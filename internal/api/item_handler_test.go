package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/item-api/internal/api/shared"
	"github.com/phrazzld/item-api/internal/domain"
	"github.com/phrazzld/item-api/internal/mocks"
	"github.com/phrazzld/item-api/internal/service"
	"github.com/phrazzld/item-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc service.ItemService) *chi.Mux {
	r := chi.NewRouter()
	NewItemHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListItems(t *testing.T) {
	tests := []struct {
		name       string
		svc        *mocks.MockItemService
		wantStatus int
		wantBody   string
	}{
		{
			name:       "empty list encodes as array",
			svc:        &mocks.MockItemService{},
			wantStatus: http.StatusOK,
			wantBody:   "[]\n",
		},
		{
			name: "items",
			svc: &mocks.MockItemService{Items: []domain.Item{
				{ID: 1, Name: "a", Status: domain.ItemStatusNew, Email: "a@example.com"},
			}},
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":1,"name":"a","description":"","status":"NEW","email":"a@example.com"}]` + "\n",
		},
		{
			name:       "service failure",
			svc:        &mocks.MockItemService{DefaultError: errors.New("db down")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, newTestRouter(tc.svc), http.MethodGet, "/api/items", "")

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestGetItem(t *testing.T) {
	item := &domain.Item{ID: 7, Name: "seven", Status: domain.ItemStatusNew, Email: "s@example.com"}

	tests := []struct {
		name       string
		path       string
		svc        *mocks.MockItemService
		wantStatus int
		wantCalls  bool
	}{
		{name: "found", path: "/api/items/7", svc: &mocks.MockItemService{Item: item}, wantStatus: http.StatusOK, wantCalls: true},
		{
			name:       "absent yields no content",
			path:       "/api/items/8",
			svc:        &mocks.MockItemService{DefaultError: service.ErrItemNotFound},
			wantStatus: http.StatusNoContent,
			wantCalls:  true,
		},
		{name: "non-integer id", path: "/api/items/abc", svc: &mocks.MockItemService{}, wantStatus: http.StatusBadRequest},
		{name: "zero id", path: "/api/items/0", svc: &mocks.MockItemService{}, wantStatus: http.StatusBadRequest},
		{
			name:       "unexpected failure",
			path:       "/api/items/7",
			svc:        &mocks.MockItemService{DefaultError: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
			wantCalls:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			base := *tc.svc
			tc.svc.GetItemFn = func(ctx context.Context, id int64) (*domain.Item, error) {
				called = true
				return base.Item, base.DefaultError
			}

			rec := doRequest(t, newTestRouter(tc.svc), http.MethodGet, tc.path, "")

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalls, called)
			if tc.wantStatus == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
			}
			if tc.wantStatus == http.StatusOK {
				var resp ItemResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, int64(7), resp.ID)
				assert.Equal(t, "NEW", resp.Status)
			}
		})
	}
}

func TestCreateItem(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCreated bool
		wantMessage string
	}{
		{
			name:        "valid",
			body:        `{"name":"n","description":"d","email":"ok@example.com"}`,
			wantStatus:  http.StatusCreated,
			wantCreated: true,
		},
		{
			name:        "client id is ignored",
			body:        `{"id":99,"name":"n","email":"ok@example.com","status":"PROCESSED"}`,
			wantStatus:  http.StatusCreated,
			wantCreated: true,
		},
		{
			name:        "malformed email",
			body:        `{"name":"n","email":"bad@em..ail.com"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid email: invalid email format",
		},
		{
			name:        "missing email",
			body:        `{"name":"n"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid email: required field",
		},
		{
			name:        "unknown status",
			body:        `{"email":"ok@example.com","status":"DONE"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid status: invalid value",
		},
		{
			name:        "malformed json",
			body:        `{"email":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
		{
			name:        "empty body",
			body:        "",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got *domain.Item
			svc := &mocks.MockItemService{
				CreateItemFn: func(ctx context.Context, item domain.Item) (*domain.Item, error) {
					got = &item
					item.ID = 1
					if item.Status == "" {
						item.Status = domain.ItemStatusNew
					}
					return &item, nil
				},
			}

			rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/items", tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCreated, got != nil)
			if tc.wantCreated {
				assert.Zero(t, got.ID, "request id must not reach the service")
				var resp ItemResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, int64(1), resp.ID)
			}
			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, decodeError(t, rec).Error)
			}
		})
	}
}

func TestCreateItem_ServiceValidationError(t *testing.T) {
	svc := &mocks.MockItemService{
		DefaultError: fmt.Errorf("%w: %w", service.ErrInvalidItem,
			domain.NewValidationError("email", "is not a valid email address", domain.ErrInvalidEmail)),
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/items", `{"email":"ok@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email: is not a valid email address", decodeError(t, rec).Error)
}

func TestUpdateItem(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		svcErr     error
		wantStatus int
		wantCalled bool
	}{
		{name: "updated", path: "/api/items/3", body: `{"id":42,"name":"x","email":"ok@example.com"}`, wantStatus: http.StatusOK, wantCalled: true},
		{name: "unknown id", path: "/api/items/3", body: `{"email":"ok@example.com"}`, svcErr: service.ErrItemNotFound, wantStatus: http.StatusNotFound, wantCalled: true},
		{name: "invalid payload", path: "/api/items/3", body: `{"email":"nope"}`, wantStatus: http.StatusBadRequest},
		{name: "bad id", path: "/api/items/x", body: `{"email":"ok@example.com"}`, wantStatus: http.StatusBadRequest},
		{
			name:       "status regression",
			path:       "/api/items/3",
			body:       `{"email":"ok@example.com","status":"NEW"}`,
			svcErr:     fmt.Errorf("%w: %w", service.ErrInvalidItem, domain.ErrStatusRegression),
			wantStatus: http.StatusBadRequest,
			wantCalled: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotID int64
			called := false
			svc := &mocks.MockItemService{
				UpdateItemFn: func(ctx context.Context, id int64, item domain.Item) (*domain.Item, error) {
					called = true
					gotID = id
					if tc.svcErr != nil {
						return nil, tc.svcErr
					}
					item.ID = id
					return &item, nil
				},
			}

			rec := doRequest(t, newTestRouter(svc), http.MethodPut, tc.path, tc.body)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, called)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, int64(3), gotID)
				var resp ItemResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, int64(3), resp.ID, "path id wins over body id")
			}
		})
	}
}

func TestDeleteItem(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		svcErr     error
		wantStatus int
	}{
		{name: "existing", path: "/api/items/1", wantStatus: http.StatusNoContent},
		{name: "any id", path: "/api/items/123456", wantStatus: http.StatusNoContent},
		{name: "bad id", path: "/api/items/one", wantStatus: http.StatusBadRequest},
		{name: "store failure", path: "/api/items/1", svcErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockItemService{DefaultError: tc.svcErr}
			rec := doRequest(t, newTestRouter(svc), http.MethodDelete, tc.path, "")
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestProcessItems(t *testing.T) {
	processed := []domain.Item{
		{ID: 1, Status: domain.ItemStatusProcessed, Email: "a@example.com"},
		{ID: 2, Status: domain.ItemStatusProcessed, Email: "b@example.com"},
	}

	tests := []struct {
		name       string
		svc        *mocks.MockItemService
		wantStatus int
		wantLen    int
	}{
		{name: "success", svc: &mocks.MockItemService{Items: processed}, wantStatus: http.StatusOK, wantLen: 2},
		{name: "empty batch", svc: &mocks.MockItemService{}, wantStatus: http.StatusOK, wantLen: 0},
		{
			name:       "not scheduled",
			svc:        &mocks.MockItemService{DefaultError: service.ErrBatchNotScheduled},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, newTestRouter(tc.svc), http.MethodGet, "/api/items/process", "")

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				var resp []ItemResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Len(t, resp, tc.wantLen)
			} else {
				assert.Equal(t, "Item processing could not be started", decodeError(t, rec).Error)
			}
		})
	}
}

func TestProcessItems_CallerGivesUp(t *testing.T) {
	pending := task.NewFuture[[]domain.Item]()
	svc := &mocks.MockItemService{
		ProcessAllFn: func(ctx context.Context) *task.Future[[]domain.Item] { return pending },
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/items/process", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	select {
	case <-pending.Done():
		t.Fatal("abandoning the wait must not resolve the batch")
	default:
	}
}

func TestProcessRouteNotShadowedByID(t *testing.T) {
	getCalled := false
	svc := &mocks.MockItemService{
		GetItemFn: func(ctx context.Context, id int64) (*domain.Item, error) {
			getCalled = true
			return nil, service.ErrItemNotFound
		},
	}

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/items/process", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, getCalled)
}

func TestNewItemHandler_PanicsOnNilService(t *testing.T) {
	assert.Panics(t, func() { NewItemHandler(nil, nil) })
}
