package stats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/domain"
)

type RoomReader interface {
	IsActive(ctx context.Context, roomID string) (bool, error)
}

type PresenceReader interface {
	ParticipantCount(ctx context.Context, roomID string) (int64, error)
	OnlineCount(ctx context.Context, roomID string) (int64, error)
}

type MessageCounter interface {
	Count(ctx context.Context, roomID string) (int64, error)
}

// Aggregator composes room stats from independent reads.
type Aggregator struct {
	rooms    RoomReader
	presence PresenceReader
	messages MessageCounter
}

func New(rooms RoomReader, presence PresenceReader, messages MessageCounter) *Aggregator {
	return &Aggregator{rooms: rooms, presence: presence, messages: messages}
}

// RoomStats issues the four reads concurrently. The result is not a
// snapshot: writes landing between reads may be reflected in some fields
// and not others. Any failed read fails the whole call with zero stats.
func (a *Aggregator) RoomStats(ctx context.Context, roomID string) (domain.RoomStats, error) {
	var s domain.RoomStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		active, err := a.rooms.IsActive(gctx, roomID)
		s.IsActive = active
		return err
	})
	g.Go(func() error {
		n, err := a.presence.ParticipantCount(gctx, roomID)
		s.ParticipantCount = n
		return err
	})
	g.Go(func() error {
		n, err := a.messages.Count(gctx, roomID)
		s.MessageCount = n
		return err
	})
	g.Go(func() error {
		n, err := a.presence.OnlineCount(gctx, roomID)
		s.OnlineCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.RoomStats{}, err
	}
	return s, nil
}
