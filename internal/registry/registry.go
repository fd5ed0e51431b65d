package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/store"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
)

var ErrRoomNotFound = errors.New("chat room not found")

// Registry owns the room metadata record.
type Registry struct {
	store store.Store
	keys  store.Keys
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time source for createdAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// New creates a Registry whose records live for ttl after their last write.
func New(s store.Store, keys store.Keys, ttl time.Duration, opts ...Option) *Registry {
	r := &Registry{
		store: s,
		keys:  keys,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create writes a fresh active record, overwriting any existing one.
func (r *Registry) Create(ctx context.Context, streamID, roomID string) error {
	room := domain.ChatRoom{
		RoomID:    roomID,
		StreamID:  streamID,
		IsActive:  true,
		CreatedAt: r.now().UTC(),
	}
	return r.put(ctx, &room)
}

// End marks the room inactive, keeping its other fields and refreshing the TTL.
// Ending a room that does not exist is a no-op.
func (r *Registry) End(ctx context.Context, roomID string) error {
	room, err := r.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			l := log.Ctx(ctx)
			l.Debug().Str(log.FieldRoomID, roomID).Msg("end requested for unknown room")
			return nil
		}
		return err
	}

	room.IsActive = false
	return r.put(ctx, room)
}

// IsActive reports whether the room exists and has not been ended.
// A malformed record reads as inactive.
func (r *Registry) IsActive(ctx context.Context, roomID string) (bool, error) {
	room, err := r.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return false, nil
		}
		var malformed *malformedError
		if errors.As(err, &malformed) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("malformed room record treated as inactive")
			return false, nil
		}
		return false, err
	}
	return room.IsActive, nil
}

// Get returns the stored record. ParticipantCount is whatever was stored at
// write time; callers wanting the live figure read the participant set.
func (r *Registry) Get(ctx context.Context, roomID string) (*domain.ChatRoom, error) {
	raw, err := r.store.Get(ctx, r.keys.Room(roomID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room %s: %w", roomID, err)
	}

	var room domain.ChatRoom
	if err := json.Unmarshal([]byte(raw), &room); err != nil {
		return nil, &malformedError{roomID: roomID, err: err}
	}
	return &room, nil
}

// Touch re-applies the TTL to an existing record. It never creates one.
func (r *Registry) Touch(ctx context.Context, roomID string) error {
	if _, err := r.store.Expire(ctx, r.keys.Room(roomID), r.ttl); err != nil {
		return fmt.Errorf("failed to refresh room %s ttl: %w", roomID, err)
	}
	return nil
}

func (r *Registry) put(ctx context.Context, room *domain.ChatRoom) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}
	if err := r.store.Set(ctx, r.keys.Room(room.RoomID), string(data), r.ttl); err != nil {
		return fmt.Errorf("failed to save room %s: %w", room.RoomID, err)
	}
	return nil
}

type malformedError struct {
	roomID string
	err    error
}

func (e *malformedError) Error() string {
	return fmt.Sprintf("malformed room record %s: %v", e.roomID, e.err)
}

func (e *malformedError) Unwrap() error {
	return e.err
}
