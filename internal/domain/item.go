package domain

import (
	"regexp"
	"strings"
)

// ItemStatus represents the processing state of an item.
type ItemStatus string

// Possible item status values
const (
	ItemStatusNew       ItemStatus = "NEW"
	ItemStatusProcessed ItemStatus = "PROCESSED"
)

// emailPattern matches local@domain.tld where the TLD has at least two letters.
// Consecutive dots are rejected separately because RE2 has no lookahead.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Item is the single record type managed by the service.
// ID is zero until storage assigns one on first save.
type Item struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      ItemStatus `json:"status"`
	Email       string     `json:"email"`
}

// NewItem creates an unsaved item. An empty status defaults to NEW.
// Returns an error if validation fails.
func NewItem(name, description, email string, status ItemStatus) (*Item, error) {
	if status == "" {
		status = ItemStatusNew
	}

	item := &Item{
		Name:        name,
		Description: description,
		Status:      status,
		Email:       email,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
func (i *Item) Validate() error {
	if i.ID < 0 {
		return NewValidationError("id", "must not be negative", ErrInvalidID)
	}

	if !IsValidEmail(i.Email) {
		return NewValidationError("email", "is not a valid email address", ErrInvalidEmail)
	}

	if !IsValidItemStatus(i.Status) {
		return NewValidationError("status", "must be NEW or PROCESSED", ErrInvalidItemStatus)
	}

	return nil
}

// MarkProcessed moves the item to PROCESSED. It is idempotent.
func (i *Item) MarkProcessed() {
	i.Status = ItemStatusProcessed
}

// IsProcessed reports whether the item has already been processed.
func (i *Item) IsProcessed() bool {
	return i.Status == ItemStatusProcessed
}

// ApplyUpdate copies the mutable fields of update onto the item, keeping the ID.
// A PROCESSED item never reverts to NEW; an empty status keeps the current one.
func (i *Item) ApplyUpdate(update Item) error {
	status := update.Status
	if status == "" {
		status = i.Status
	}
	if i.IsProcessed() && status != ItemStatusProcessed {
		return ErrStatusRegression
	}

	next := Item{
		ID:          i.ID,
		Name:        update.Name,
		Description: update.Description,
		Status:      status,
		Email:       update.Email,
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*i = next
	return nil
}

// IsValidEmail reports whether email has the accepted shape: one '@', no
// consecutive dots anywhere and a top-level label of at least two letters.
func IsValidEmail(email string) bool {
	if strings.Contains(email, "..") {
		return false
	}
	return emailPattern.MatchString(email)
}

// IsValidItemStatus checks if the given status is a known ItemStatus.
func IsValidItemStatus(status ItemStatus) bool {
	switch status {
	case ItemStatusNew, ItemStatusProcessed:
		return true
	default:
		return false
	}
}
