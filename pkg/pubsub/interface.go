package pubsub

import (
	"context"
	"encoding/json"
	"time"
)

// Event represents a message published to the event bus.
type Event struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"room_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent creates a new event with the current timestamp.
func NewEvent(eventType, roomID string, data interface{}) (*Event, error) {
	return NewEventAt(eventType, roomID, data, time.Now())
}

// NewEventAt creates a new event stamped with ts.
func NewEventAt(eventType, roomID string, data interface{}, ts time.Time) (*Event, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Event{
		Type:      eventType,
		RoomID:    roomID,
		Data:      raw,
		Timestamp: ts.UTC(),
	}, nil
}

// UnmarshalData unmarshals the event data into the given struct.
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Publisher publishes events to the event bus.
type Publisher interface {
	Publish(ctx context.Context, channel string, event *Event) error
}

// Subscriber receives events from the event bus. Only the in-process
// drivers implement it; remote consumers subscribe on their own.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan *Event, error)
	Unsubscribe(ctx context.Context, channel string) error
}

// Bus is a publisher that owns transport resources.
type Bus interface {
	Publisher
	Close() error
}
