package domain

import "time"

// ChatRoom is the metadata record of a room attached to one broadcast.
type ChatRoom struct {
	RoomID           string    `json:"roomId"`
	StreamID         string    `json:"streamId"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	ParticipantCount int64     `json:"participantCount"`
}

// RoomStats is a best-effort composite read over a room's keys.
type RoomStats struct {
	ParticipantCount int64 `json:"participantCount"`
	MessageCount     int64 `json:"messageCount"`
	IsActive         bool  `json:"isActive"`
	OnlineCount      int64 `json:"onlineCount"`
}

// JoinResult is what a client needs to render a room on entry.
type JoinResult struct {
	RoomID      string        `json:"roomId"`
	IsActive    bool          `json:"isActive"`
	Messages    []ChatMessage `json:"messages"`
	OnlineCount int64         `json:"onlineCount"`
}

// CreateRoomRequest is the HTTP body for creating a room.
type CreateRoomRequest struct {
	StreamID string `json:"stream_id" binding:"required"`
	RoomID   string `json:"room_id" binding:"required"`
}

// EndRoomRequest is the HTTP body for ending a room.
type EndRoomRequest struct {
	Archive bool `json:"archive"`
}

// PresenceRequest identifies a wallet joining or heartbeating in a room.
type PresenceRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// JoinRoomRequest is the HTTP body for joining a room.
type JoinRoomRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Limit         int    `json:"limit"`
}
