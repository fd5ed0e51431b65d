package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/pubsub"
)

// Broadcaster publishes room events on the room's messages channel.
// Publishing is fire-and-forget: nothing is stored and absent subscribers
// miss the event.
type Broadcaster struct {
	pub    Publisher
	prefix string
	now    func() time.Time
}

// New creates a Broadcaster publishing on "{prefix}:room:{roomID}:messages".
func New(pub Publisher, prefix string) *Broadcaster {
	return &Broadcaster{pub: pub, prefix: prefix, now: time.Now}
}

// Channel returns the channel events for roomID go to.
func (b *Broadcaster) Channel(roomID string) string {
	return pubsub.RoomMessagesChannel(b.prefix, roomID)
}

// PublishMessage publishes a "message" event carrying msg.
func (b *Broadcaster) PublishMessage(ctx context.Context, msg *domain.ChatMessage) error {
	event, err := pubsub.NewEventAt(pubsub.EventMessage, msg.RoomID, msg, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to build message event: %w", err)
	}
	return b.publish(ctx, msg.RoomID, event)
}

// PublishRoomEnded publishes a "room_ended" event.
func (b *Broadcaster) PublishRoomEnded(ctx context.Context, roomID string, archived bool) error {
	now := b.now().UTC()
	event, err := pubsub.NewEventAt(pubsub.EventRoomEnded, roomID, pubsub.RoomEndedPayload{
		RoomID:   roomID,
		Archived: archived,
		EndedAt:  now,
	}, now)
	if err != nil {
		return fmt.Errorf("failed to build room ended event: %w", err)
	}
	return b.publish(ctx, roomID, event)
}

func (b *Broadcaster) publish(ctx context.Context, roomID string, event *pubsub.Event) error {
	channel := b.Channel(roomID)
	if err := b.pub.Publish(ctx, channel, event); err != nil {
		return fmt.Errorf("failed to publish %s on %s: %w", event.Type, channel, err)
	}
	return nil
}
