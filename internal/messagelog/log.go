package messagelog

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/store"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
)

var (
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrInvalidMessageType = errors.New("invalid message type")
)

const (
	DefaultMaxMessages = 1000
	DefaultLimit       = 50
)

// Config bounds the log.
type Config struct {
	MaxMessages  int
	DefaultLimit int
	TTL          time.Duration
}

// NewMessage is the caller-supplied part of a chat message.
type NewMessage struct {
	WalletAddress string
	Username      string
	Text          string
	Type          domain.MessageType
}

// Log is a room's bounded, newest-first message history.
type Log struct {
	store        store.Store
	keys         store.Keys
	broadcaster  Broadcaster
	participants ParticipantRecorder
	rooms        RoomToucher
	cfg          Config
	now          func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source for message timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// New creates a message log. rooms may be nil when room records need no upkeep.
func New(s store.Store, keys store.Keys, broadcaster Broadcaster, participants ParticipantRecorder, rooms RoomToucher, cfg Config, opts ...Option) *Log {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultMaxMessages
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.MaxMessages {
		cfg.DefaultLimit = min(DefaultLimit, cfg.MaxMessages)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	l := &Log{
		store:        s,
		keys:         keys,
		broadcaster:  broadcaster,
		participants: participants,
		rooms:        rooms,
		cfg:          cfg,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append persists a message, then publishes it. A message counts as sent
// once it is persisted; publish failures are logged and swallowed.
func (l *Log) Append(ctx context.Context, roomID string, in NewMessage) (*domain.ChatMessage, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyMessage
	}
	msgType := in.Type
	if msgType == "" {
		msgType = domain.MessageTypeNormal
	}
	if !msgType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMessageType, msgType)
	}

	now := l.now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	msg := &domain.ChatMessage{
		ID:            id.String(),
		RoomID:        roomID,
		WalletAddress: in.WalletAddress,
		Username:      in.Username,
		Message:       in.Text,
		Timestamp:     now.UTC(),
		Type:          msgType,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	key := l.keys.Messages(roomID)
	if _, err := l.store.LPush(ctx, key, string(data)); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	if err := l.store.LTrim(ctx, key, 0, int64(l.cfg.MaxMessages-1)); err != nil {
		return nil, fmt.Errorf("failed to trim message log: %w", err)
	}
	if _, err := l.store.Expire(ctx, key, l.cfg.TTL); err != nil {
		return nil, fmt.Errorf("failed to refresh message log ttl: %w", err)
	}
	if err := l.participants.AddParticipant(ctx, roomID, in.WalletAddress); err != nil {
		return nil, fmt.Errorf("failed to record participant: %w", err)
	}

	logger := log.Ctx(ctx)
	if l.rooms != nil {
		if err := l.rooms.Touch(ctx, roomID); err != nil {
			logger.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to refresh room ttl")
		}
	}

	if err := l.broadcaster.PublishMessage(ctx, msg); err != nil {
		logger.Warn().Err(err).
			Str(log.FieldRoomID, roomID).
			Str(log.FieldMessageID, msg.ID).
			Msg("message persisted but publish failed")
	}

	return msg, nil
}

// Recent returns up to limit of the newest messages, oldest first.
// Undecodable entries are skipped.
func (l *Log) Recent(ctx context.Context, roomID string, limit int) ([]domain.ChatMessage, error) {
	limit = l.clampLimit(limit)

	raw, err := l.store.LRange(ctx, l.keys.Messages(roomID), 0, int64(limit-1))
	if err != nil {
		return []domain.ChatMessage{}, fmt.Errorf("failed to read messages: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(raw))
	var skipped int
	for i := len(raw) - 1; i >= 0; i-- {
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(raw[i]), &msg); err != nil {
			skipped++
			continue
		}
		messages = append(messages, msg)
	}

	if skipped > 0 {
		logger := log.Ctx(ctx)
		logger.Warn().Str(log.FieldRoomID, roomID).Int("skipped", skipped).Msg("skipped malformed messages")
	}

	return messages, nil
}

// Count returns the number of retained messages.
func (l *Log) Count(ctx context.Context, roomID string) (int64, error) {
	n, err := l.store.LLen(ctx, l.keys.Messages(roomID))
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

func (l *Log) clampLimit(limit int) int {
	if limit <= 0 {
		return l.cfg.DefaultLimit
	}
	if limit > l.cfg.MaxMessages {
		return l.cfg.MaxMessages
	}
	return limit
}
