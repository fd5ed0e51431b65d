package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/store"
)

const (
	ModeSharedTTL = "shared_ttl"
	ModePerMember = "per_member"

	DefaultOnlineTimeout  = 5 * time.Minute
	DefaultParticipantTTL = 24 * time.Hour
)

// Tracker records who ever took part in a room and who is online right now.
type Tracker interface {
	SetOnline(ctx context.Context, roomID, wallet string) error
	SetOffline(ctx context.Context, roomID, wallet string) error
	OnlineCount(ctx context.Context, roomID string) (int64, error)

	AddParticipant(ctx context.Context, roomID, wallet string) error
	ParticipantCount(ctx context.Context, roomID string) (int64, error)
}

// Config selects the online-set model and its timings.
type Config struct {
	Mode           string
	OnlineTimeout  time.Duration
	ParticipantTTL time.Duration
}

// New builds the tracker for cfg.Mode.
func New(s store.Store, keys store.Keys, cfg Config, now func() time.Time) (Tracker, error) {
	if cfg.OnlineTimeout <= 0 {
		cfg.OnlineTimeout = DefaultOnlineTimeout
	}
	if cfg.ParticipantTTL <= 0 {
		cfg.ParticipantTTL = DefaultParticipantTTL
	}
	if now == nil {
		now = time.Now
	}

	p := participants{store: s, keys: keys, ttl: cfg.ParticipantTTL}

	switch cfg.Mode {
	case ModeSharedTTL:
		return &SharedTTLTracker{participants: p, timeout: cfg.OnlineTimeout}, nil
	case ModePerMember, "":
		return newMemberTracker(p, cfg.OnlineTimeout, now), nil
	default:
		return nil, fmt.Errorf("unknown presence mode %q", cfg.Mode)
	}
}

// participants is the all-time participant set, shared by both modes.
type participants struct {
	store store.Store
	keys  store.Keys
	ttl   time.Duration
}

func (p participants) AddParticipant(ctx context.Context, roomID, wallet string) error {
	key := p.keys.Participants(roomID)
	if _, err := p.store.SAdd(ctx, key, wallet); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	if _, err := p.store.Expire(ctx, key, p.ttl); err != nil {
		return fmt.Errorf("failed to refresh participants ttl: %w", err)
	}
	return nil
}

func (p participants) ParticipantCount(ctx context.Context, roomID string) (int64, error) {
	n, err := p.store.SCard(ctx, p.keys.Participants(roomID))
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return n, nil
}
