package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

type subscription struct {
	eventType string
	handler   EventHandler
}

// InMemoryEventEmitter dispatches events synchronously to handlers
// registered in process. It is safe for concurrent use.
type InMemoryEventEmitter struct {
	subs   []subscription
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler subscribes handler to every event type.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.Subscribe(AllEvents, handler)
}

// Subscribe registers handler for events of the given type.
func (e *InMemoryEventEmitter) Subscribe(eventType string, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{eventType: eventType, handler: handler})
	e.logger.Debug("registered event handler",
		"event_type", eventType,
		"handler_count", len(e.subs))
}

// EmitEvent delivers event to every matching handler in registration
// order. A failing or panicking handler does not stop delivery to the
// others; all handler errors are joined into the returned error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	matched := make([]EventHandler, 0, len(e.subs))
	for _, s := range e.subs {
		if s.eventType == AllEvents || s.eventType == event.Type {
			matched = append(matched, s.handler)
		}
	}
	e.mu.RUnlock()

	log := e.logger.With("event_id", event.ID, "event_type", event.Type)

	if len(matched) == 0 {
		log.Debug("no handlers registered for event")
		return nil
	}

	var errs []error
	for i, handler := range matched {
		if err := deliver(ctx, handler, event); err != nil {
			log.Error("handler failed to process event",
				"error", err,
				"handler_index", i)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func deliver(ctx context.Context, handler EventHandler, event *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
	}()
	return handler.HandleEvent(ctx, event)
}
