package events

import (
	"context"
	"time"
)

// Event types published on the bus. The NATS subject is "events.<type>".
const (
	PostCreated        = "POST_CREATED"
	PostUpdated        = "POST_UPDATED"
	PostContentSaved   = "POST_CONTENT_SAVED"
	PostPublished      = "POST_PUBLISHED"
	PostUnpublished    = "POST_UNPUBLISHED"
	PostDeleted        = "POST_DELETED"
	MenuChanged        = "LANDING_MENU_CHANGED"
	MarqueeChanged     = "MARQUEE_CHANGED"
	AdminLoggedIn      = "ADMIN_LOGGED_IN"
	EditorNotification = "EDITOR_NOTIFICATION"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "POST_PUBLISHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher sends events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NopPublisher drops every event. It stands in when the bus is unreachable.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
