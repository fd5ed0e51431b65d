package service

import (
	"context"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/messagelog"
)

// ChatService defines the public operations of live chat.
type ChatService interface {
	CreateChatRoom(ctx context.Context, streamID, roomID string) error
	EndChatRoom(ctx context.Context, roomID string, archive bool) error
	AddMessage(ctx context.Context, roomID, wallet, username, text string, msgType domain.MessageType) (*domain.ChatMessage, error)
	GetMessages(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error)
	GetRoomStats(ctx context.Context, roomID string) (domain.RoomStats, error)
	SetUserOnline(ctx context.Context, roomID, wallet string) error
	SetUserOffline(ctx context.Context, roomID, wallet string) error
	IsRoomActive(ctx context.Context, roomID string) bool

	GetRoom(ctx context.Context, roomID string) (*domain.ChatRoom, error)
	JoinRoom(ctx context.Context, roomID, wallet string, limit int) (*domain.JoinResult, error)
	Ping(ctx context.Context) error
}

// RoomRegistry is the room metadata store.
type RoomRegistry interface {
	Create(ctx context.Context, streamID, roomID string) error
	End(ctx context.Context, roomID string) error
	IsActive(ctx context.Context, roomID string) (bool, error)
	Get(ctx context.Context, roomID string) (*domain.ChatRoom, error)
}

// MessageLog is a room's bounded message history.
type MessageLog interface {
	Append(ctx context.Context, roomID string, in messagelog.NewMessage) (*domain.ChatMessage, error)
	Recent(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error)
}

// RoomEvents publishes room lifecycle events.
type RoomEvents interface {
	PublishRoomEnded(ctx context.Context, roomID string, archived bool) error
}

// StatsReader composes room stats.
type StatsReader interface {
	RoomStats(ctx context.Context, roomID string) (domain.RoomStats, error)
}

// Pinger checks the shared store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
