package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/audit"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/messagelog"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/presence"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/ratelimit"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/registry"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRateLimited     = errors.New("sending too fast")
	ErrRoomNotFound    = registry.ErrRoomNotFound
)

const defaultFarewell = "This chat room has ended."

// Dependencies are the components the chat service composes.
type Dependencies struct {
	Rooms    RoomRegistry
	Messages MessageLog
	Presence presence.Tracker
	Events   RoomEvents
	Stats    StatsReader
	Policy   ratelimit.Policy // nil admits every send
	Store    Pinger
}

// Config holds chat service options.
type Config struct {
	FarewellMessage string
}

// chatServiceImpl implements ChatService interface.
type chatServiceImpl struct {
	rooms    RoomRegistry
	messages MessageLog
	presence presence.Tracker
	events   RoomEvents
	stats    StatsReader
	policy   ratelimit.Policy
	store    Pinger
	farewell string
}

// NewChatService creates a new chat service.
func NewChatService(deps Dependencies, cfg Config) ChatService {
	policy := deps.Policy
	if policy == nil {
		policy = ratelimit.AllowAll{}
	}
	farewell := cfg.FarewellMessage
	if strings.TrimSpace(farewell) == "" {
		farewell = defaultFarewell
	}
	return &chatServiceImpl{
		rooms:    deps.Rooms,
		messages: deps.Messages,
		presence: deps.Presence,
		events:   deps.Events,
		stats:    deps.Stats,
		policy:   policy,
		store:    deps.Store,
		farewell: farewell,
	}
}

// CreateChatRoom creates or resets a room as active.
func (s *chatServiceImpl) CreateChatRoom(ctx context.Context, streamID, roomID string) error {
	if err := requireNonEmpty("stream id", streamID); err != nil {
		return err
	}
	if err := validateRoomID(roomID); err != nil {
		return err
	}

	if err := s.rooms.Create(ctx, streamID, roomID); err != nil {
		return err
	}

	audit.LogWithDetail(ctx, audit.ActionCreateRoom, roomID, "", streamID, "chat room created")
	return nil
}

// EndChatRoom marks the room inactive. With archive, a final system message
// is appended after the room is marked inactive.
func (s *chatServiceImpl) EndChatRoom(ctx context.Context, roomID string, archive bool) error {
	if err := validateRoomID(roomID); err != nil {
		return err
	}

	if err := s.rooms.End(ctx, roomID); err != nil {
		return err
	}

	if archive {
		if _, err := s.messages.Append(ctx, roomID, messagelog.NewMessage{
			WalletAddress: domain.SystemWallet,
			Username:      domain.SystemUsername,
			Text:          s.farewell,
			Type:          domain.MessageTypeSystem,
		}); err != nil {
			return fmt.Errorf("room ended but farewell message failed: %w", err)
		}
	}

	if s.events != nil {
		if err := s.events.PublishRoomEnded(ctx, roomID, archive); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("room ended but event publish failed")
		}
	}

	audit.LogWithDetail(ctx, audit.ActionEndRoom, roomID, "", fmt.Sprintf("archive=%t", archive), "chat room ended")
	return nil
}

// AddMessage appends a message and refreshes the sender's presence.
// System messages are not subject to the send policy.
func (s *chatServiceImpl) AddMessage(ctx context.Context, roomID, wallet, username, text string, msgType domain.MessageType) (*domain.ChatMessage, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}
	if err := requireNonEmpty("wallet address", wallet); err != nil {
		return nil, err
	}

	isSystem := msgType == domain.MessageTypeSystem
	if !isSystem && !s.policy.Allow(ctx, wallet, roomID) {
		return nil, ErrRateLimited
	}

	msg, err := s.messages.Append(ctx, roomID, messagelog.NewMessage{
		WalletAddress: wallet,
		Username:      username,
		Text:          text,
		Type:          msgType,
	})
	if err != nil {
		return nil, err
	}

	if !isSystem {
		if err := s.presence.SetOnline(ctx, roomID, wallet); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldRoomID, roomID).Str(log.FieldWalletAddress, wallet).Msg("message sent but presence refresh failed")
		}
	}

	audit.LogWithDetail(ctx, audit.ActionSendMessage, roomID, wallet, msg.ID, "chat message sent")
	return msg, nil
}

// GetMessages returns recent messages oldest first.
func (s *chatServiceImpl) GetMessages(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	if err := validateRoomID(roomID); err != nil {
		return []domain.ChatMessage{}, err
	}
	return s.messages.Recent(ctx, roomID, limit)
}

// GetRoomStats returns best-effort counters for the room.
func (s *chatServiceImpl) GetRoomStats(ctx context.Context, roomID string) (domain.RoomStats, error) {
	if err := validateRoomID(roomID); err != nil {
		return domain.RoomStats{}, err
	}
	return s.stats.RoomStats(ctx, roomID)
}

func (s *chatServiceImpl) SetUserOnline(ctx context.Context, roomID, wallet string) error {
	if err := requirePair(roomID, wallet); err != nil {
		return err
	}
	return s.presence.SetOnline(ctx, roomID, wallet)
}

func (s *chatServiceImpl) SetUserOffline(ctx context.Context, roomID, wallet string) error {
	if err := requirePair(roomID, wallet); err != nil {
		return err
	}
	if err := s.presence.SetOffline(ctx, roomID, wallet); err != nil {
		return err
	}

	audit.Log(ctx, audit.ActionGoOffline, roomID, wallet, "user went offline")
	return nil
}

// IsRoomActive degrades to false when the registry cannot be read.
func (s *chatServiceImpl) IsRoomActive(ctx context.Context, roomID string) bool {
	if validateRoomID(roomID) != nil {
		return false
	}
	active, err := s.rooms.IsActive(ctx, roomID)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to check room active")
		return false
	}
	return active
}

// GetRoom returns the room record with the live participant count.
func (s *chatServiceImpl) GetRoom(ctx context.Context, roomID string) (*domain.ChatRoom, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, err
	}

	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}

	count, err := s.presence.ParticipantCount(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room.ParticipantCount = count
	return room, nil
}

// JoinRoom records the wallet as participant and online, and returns what
// the client needs to render the room.
func (s *chatServiceImpl) JoinRoom(ctx context.Context, roomID, wallet string, limit int) (*domain.JoinResult, error) {
	if err := requirePair(roomID, wallet); err != nil {
		return nil, err
	}

	active, err := s.rooms.IsActive(ctx, roomID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.Recent(ctx, roomID, limit)
	if err != nil {
		return nil, err
	}

	if err := s.presence.AddParticipant(ctx, roomID, wallet); err != nil {
		return nil, err
	}
	if err := s.presence.SetOnline(ctx, roomID, wallet); err != nil {
		return nil, err
	}

	online, err := s.presence.OnlineCount(ctx, roomID)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.ActionJoinRoom, roomID, wallet, "user joined chat room")

	return &domain.JoinResult{
		RoomID:      roomID,
		IsActive:    active,
		Messages:    messages,
		OnlineCount: online,
	}, nil
}

func (s *chatServiceImpl) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}

func requireNonEmpty(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return nil
}

func requirePair(roomID, wallet string) error {
	if err := validateRoomID(roomID); err != nil {
		return err
	}
	return requireNonEmpty("wallet address", wallet)
}

// validateRoomID rejects ids containing the key separator ":". Such an id
// would address another room's sub-keys.
func validateRoomID(roomID string) error {
	if err := requireNonEmpty("room id", roomID); err != nil {
		return err
	}
	if strings.Contains(roomID, ":") {
		return fmt.Errorf("%w: room id must not contain %q", ErrInvalidArgument, ":")
	}
	return nil
}
