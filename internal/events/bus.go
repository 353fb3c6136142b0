package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrBufferFull is returned by Bus.Publish when no consumer keeps up.
var ErrBufferFull = errors.New("event bus buffer full")

// Bus is a lightweight in-process pub-sub implementation backed by a buffered channel.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish enqueues the event without blocking.
func (b *Bus) Publish(_ context.Context, evt Event) error {
	select {
	case b.ch <- evt:
		return nil
	default:
		return ErrBufferFull
	}
}

// Subscribe returns a read-only channel for consumers.
func (b *Bus) Subscribe() <-chan Event {
	return b.ch
}

// Close is a no-op; the channel stays open so late publishers never panic.
func (b *Bus) Close() error { return nil }

// Consume hands every event to fn until ctx is done.
func (b *Bus) Consume(ctx context.Context, fn func(Event)) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-b.ch:
			fn(evt)
		}
	}
}

// LogHandler writes one line per event.
func LogHandler(log zerolog.Logger) func(Event) {
	return func(evt Event) {
		log.Info().
			Str("kind", string(evt.Kind)).
			Str("restaurant_id", evt.RestaurantID).
			Str("key", evt.Key).
			Str("slug", evt.Slug).
			Msg("catalog change")
	}
}
