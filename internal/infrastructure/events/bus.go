package events

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"centavo/internal/domain/connection"
)

const defaultBufferSize = 16

// Handler consumes a connection failure event. Handler errors are logged and
// never reach the publisher.
type Handler func(ctx context.Context, event connection.FailedEvent) error

// Bus is an in-process publish/subscribe channel for connection failure
// events. It decouples the check pipeline from notification delivery: a slow
// or broken consumer cannot fail a check run.
type Bus struct {
	ch  chan connection.FailedEvent
	log zerolog.Logger

	mu       sync.RWMutex
	handlers []Handler

	startOnce sync.Once
	done      chan struct{}
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		ch:   make(chan connection.FailedEvent, defaultBufferSize),
		log:  log.With().Str("component", "event_bus").Logger(),
		done: make(chan struct{}),
	}
}

// Subscribe registers a handler for subsequent events. Handlers registered
// after Start still receive events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// PublishConnectionFailed enqueues the event without blocking. When the
// buffer is full the event is dropped with a warning rather than stalling
// the check run.
func (b *Bus) PublishConnectionFailed(ctx context.Context, event connection.FailedEvent) error {
	select {
	case b.ch <- event:
		return nil
	default:
		b.log.Warn().
			Int("failures", len(event.Errors)).
			Msg("Event buffer full, dropping connection failure event")
		return errors.New("event buffer full")
	}
}

// Start runs the dispatch loop until ctx is cancelled. Call in a goroutine.
func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-b.ch:
				b.dispatch(ctx, event)
			}
		}
	})
}

// Done is closed when the dispatch loop has exited.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

func (b *Bus) dispatch(ctx context.Context, event connection.FailedEvent) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.invoke(ctx, h, event)
	}
}

// invoke shields the dispatch loop from handler panics.
func (b *Bus) invoke(ctx context.Context, h Handler, event connection.FailedEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()

	if err := h(ctx, event); err != nil {
		b.log.Error().Err(err).Msg("Event handler failed")
	}
}
