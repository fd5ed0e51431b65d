package domain

import "time"

// MessageType tags how a chat message is rendered.
type MessageType string

const (
	MessageTypeNormal    MessageType = "normal"
	MessageTypeSystem    MessageType = "system"
	MessageTypeModerator MessageType = "moderator"
)

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeNormal, MessageTypeSystem, MessageTypeModerator:
		return true
	}
	return false
}

// Sender identity of service-generated messages.
const (
	SystemWallet   = "system"
	SystemUsername = "System"
)

// ChatMessage is one immutable entry in a room's message log.
type ChatMessage struct {
	ID            string      `json:"id"`
	RoomID        string      `json:"roomId"`
	WalletAddress string      `json:"walletAddress"`
	Username      string      `json:"username"`
	Message       string      `json:"message"`
	Timestamp     time.Time   `json:"timestamp"`
	Type          MessageType `json:"type"`
}

// SendMessageRequest is the HTTP body for posting a message.
type SendMessageRequest struct {
	WalletAddress string      `json:"wallet_address" binding:"required"`
	Username      string      `json:"username"`
	Message       string      `json:"message" binding:"required"`
	Type          MessageType `json:"type"`
}

// GetMessagesRequest is the query for reading recent messages.
type GetMessagesRequest struct {
	Limit int `form:"limit"`
}
