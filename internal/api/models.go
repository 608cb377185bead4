package api

import (
	"github.com/phrazzld/item-api/internal/domain"
)

// ItemRequest is the payload for creating or updating an item.
// ID is accepted for compatibility but ignored: storage assigns IDs on
// create and the path ID wins on update.
type ItemRequest struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=NEW PROCESSED"`
	Email       string `json:"email" validate:"required,itememail"`
}

// ItemResponse is the JSON representation of a stored item.
type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Email       string `json:"email"`
}

// toDomain converts the request into an unsaved domain item.
func (req ItemRequest) toDomain() domain.Item {
	return domain.Item{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ItemStatus(req.Status),
		Email:       req.Email,
	}
}

func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Status:      string(item.Status),
		Email:       item.Email,
	}
}

// itemsToResponse always returns a non-nil slice so empty lists encode as [].
func itemsToResponse(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemToResponse(&items[i]))
	}
	return out
}
