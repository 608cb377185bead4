package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/item-api/internal/api/shared"
	"github.com/phrazzld/item-api/internal/platform/logger"
	"github.com/phrazzld/item-api/internal/service"
)

// ItemHandler handles item-related HTTP requests.
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
// It panics if itemService is nil. A nil logger falls back to slog.Default().
func NewItemHandler(itemService service.ItemService, logger *slog.Logger) *ItemHandler {
	if itemService == nil {
		// ALLOW-PANIC: constructor wiring error
		panic("itemService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ItemHandler{
		itemService: itemService,
		logger:      logger.With(slog.String("component", "item_handler")),
	}
}

// RegisterRoutes mounts the item endpoints under /api/items.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		// Static segment takes precedence over {id} in chi, registered first for readability.
		r.Get("/process", h.ProcessItems)
		r.Get("/{id}", h.GetItem)
		r.Put("/{id}", h.UpdateItem)
		r.Delete("/{id}", h.DeleteItem)
	})
}

// requestLogger prefers the request-scoped logger set by the trace middleware.
func (h *ItemHandler) requestLogger(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

// ListItems handles GET /api/items.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.ListItems(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list items")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// GetItem handles GET /api/items/{id}. An absent item yields 204.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		h.requestLogger(r).Debug("invalid item id", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.itemService.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			shared.RespondNoContent(w)
			return
		}
		HandleAPIError(w, r, err, "Failed to get item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// CreateItem handles POST /api/items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.CreateItem(r.Context(), req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create item")
		return
	}

	h.requestLogger(r).Info("item created", slog.Int64("item_id", item.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// UpdateItem handles PUT /api/items/{id}. The path ID always wins over any
// ID in the body.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	req, ok := h.decodeItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), id, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /api/items/{id}. Deleting a missing item is not an error.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete item")
		return
	}

	shared.RespondNoContent(w)
}

// ProcessItems handles GET /api/items/process. It waits for the batch to
// finish and returns the processed items. The batch keeps running if the
// client disconnects.
func (h *ItemHandler) ProcessItems(w http.ResponseWriter, r *http.Request) {
	future := h.itemService.ProcessAll(r.Context())

	items, err := future.Wait(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process items")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// decodeItemRequest decodes and validates the body, writing a 400 on failure.
func (h *ItemHandler) decodeItemRequest(w http.ResponseWriter, r *http.Request) (ItemRequest, bool) {
	var req ItemRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return req, false
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return req, false
	}

	return req, true
}
