// Package events provides the in-process event bus used for decoupled
// communication between modules. This is part of the platform layer and
// contains no business logic; concrete event types live in internal/events.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName uniquely identifies the event type, e.g.
	// "interactions.lead.captured".
	EventName() string
	// OccurredAt is the event's creation time.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by all events. Embed it and set it
// with NewBaseEvent at publish time.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of one type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes events to subscribed handlers.
type Bus interface {
	// Publish delivers the event to all handlers of its type
	// asynchronously. Handler errors are logged, not returned.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event in subscription order and returns
	// the first handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the named event type. The name
	// must match the value the event's EventName returns.
	Subscribe(eventName string, handler Handler)
}
