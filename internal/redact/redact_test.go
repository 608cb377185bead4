package redact_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/item-api/internal/redact"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "empty",
			input:    "",
			contains: nil,
		},
		{
			name:     "plain message untouched",
			input:    "item not found",
			contains: []string{"item not found"},
		},
		{
			name:     "database url",
			input:    "failed to connect: postgres://app:s3cret@db:5432/items",
			contains: []string{redact.CredentialPlaceholder},
			excludes: []string{"s3cret", "app:"},
		},
		{
			name:     "password assignment",
			input:    "auth failed password=hunter22 for user",
			contains: []string{redact.CredentialPlaceholder},
			excludes: []string{"hunter22"},
		},
		{
			name:     "email address",
			input:    "duplicate item for alice@example.com",
			contains: []string{redact.EmailPlaceholder},
			excludes: []string{"alice@example.com"},
		},
		{
			name:     "sql statement",
			input:    "query failed: SELECT id, email FROM items WHERE id = $1",
			contains: []string{redact.SQLPlaceholder},
			excludes: []string{"FROM items"},
		},
		{
			name:     "file path",
			input:    "open /etc/item-api/config.yaml: permission denied",
			contains: []string{redact.PathPlaceholder, "permission denied"},
			excludes: []string{"/etc/item-api"},
		},
		{
			name:     "host and port",
			input:    "dial tcp db.internal.example.com:5432: refused",
			contains: []string{redact.HostPlaceholder},
			excludes: []string{"example.com:5432"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := redact.String(tc.input)
			for _, want := range tc.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tc.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestError(t *testing.T) {
	assert.Equal(t, "", redact.Error(nil))

	wrapped := fmt.Errorf("save item: %w", errors.New("value bob@example.org rejected"))
	got := redact.Error(wrapped)
	assert.Contains(t, got, "save item")
	assert.NotContains(t, got, "bob@example.org")
}

func TestAttr(t *testing.T) {
	attr := redact.Attr(errors.New("password: topsecret"))
	assert.Equal(t, "error", attr.Key)
	assert.NotContains(t, attr.Value.String(), "topsecret")
}
