package pubsub

import (
	"fmt"
	"time"
)

// Channel naming conventions for live chat.
const (
	// Fan-out of new chat messages and room lifecycle events.
	ChannelRoomMessages = "%s:room:%s:messages"

	DefaultChannelPrefix = "chat"
)

// Event types published on the room messages channel.
const (
	EventMessage   = "message"
	EventRoomEnded = "room_ended"
)

// RoomMessagesChannel returns the room's fan-out channel, e.g. "chat:room:42:messages".
func RoomMessagesChannel(prefix, roomID string) string {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return fmt.Sprintf(ChannelRoomMessages, prefix, roomID)
}

// RoomEndedPayload is sent when a chat room is ended.
type RoomEndedPayload struct {
	RoomID   string    `json:"room_id"`
	Archived bool      `json:"archived"`
	EndedAt  time.Time `json:"ended_at"`
}
