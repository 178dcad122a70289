package eventgraph

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Handler reacts to a single event. Returned errors are logged by the Bus
// and never reach the emitter.
type Handler func(ctx context.Context, e *Event) error

// Bus wraps an EventStore with in-process fan-out notification.
// When Append is called, handlers registered for the event type run
// synchronously in the caller's goroutine.
type Bus struct {
	EventStore
	logger   zerolog.Logger
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates a Bus wrapping the given store.
func NewBus(store EventStore, logger zerolog.Logger) *Bus {
	return &Bus{
		EventStore: store,
		logger:     logger,
		handlers:   make(map[string][]Handler),
	}
}

// On registers h for events of the given type. Handlers run in
// registration order.
func (b *Bus) On(eventType string, h Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
	b.mu.Unlock()
}

// Append delegates to the underlying store, then fans out to handlers.
// Only a store failure is returned.
func (b *Bus) Append(ctx context.Context, eventType, source string, content map[string]any) (*Event, error) {
	e, err := b.EventStore.Append(ctx, eventType, source, content)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[eventType]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := b.dispatch(ctx, h, e); err != nil {
			b.logger.Error().
				Err(err).
				Str("event_id", e.ID).
				Str("event_type", e.Type).
				Msg("event handler failed")
		}
	}

	return e, nil
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, e)
}
