package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type testPayload struct {
		ID     uuid.UUID `json:"id"`
		Action string    `json:"action"`
	}

	payload := testPayload{
		ID:     uuid.New(),
		Action: "test_action",
	}

	event, err := NewEvent("test_event", payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "test_event", event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decodedPayload testPayload
	require.NoError(t, event.UnmarshalPayload(&decodedPayload))
	assert.Equal(t, payload, decodedPayload)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("bad", make(chan int))
	assert.Error(t, err)
}

func TestNewBatchCompletedEvent(t *testing.T) {
	event, err := NewBatchCompletedEvent(BatchSummary{BatchID: "b1", Total: 2, Succeeded: 2})
	require.NoError(t, err)
	assert.Equal(t, ItemBatchCompleted, event.Type)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(event.Payload, &raw))
	assert.JSONEq(t, "[]", string(raw["failed_ids"]), "failed_ids is never null")
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	mu sync.Mutex
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	handler := HandlerFunc(func(ctx context.Context, event *Event) error {
		got = event
		return errors.New("handler error")
	})

	event, err := NewEvent("test_type", nil)
	require.NoError(t, err)

	err = handler.HandleEvent(context.Background(), event)
	assert.EqualError(t, err, "handler error")
	assert.Same(t, event, got)
}
