package presence

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
)

// MemberTracker keeps the online set as a sorted set scored by each wallet's
// last-seen time in unix milliseconds. A wallet is online while
// now - lastSeen < timeout, independently of everyone else in the room.
type MemberTracker struct {
	participants
	timeout time.Duration
	now     func() time.Time

	managedRooms map[string]struct{} // rooms this instance has marked someone online in
	mu           sync.Mutex
}

var _ Tracker = (*MemberTracker)(nil)

func newMemberTracker(p participants, timeout time.Duration, now func() time.Time) *MemberTracker {
	return &MemberTracker{
		participants: p,
		timeout:      timeout,
		now:          now,
		managedRooms: make(map[string]struct{}),
	}
}

func (t *MemberTracker) SetOnline(ctx context.Context, roomID, wallet string) error {
	key := t.keys.Online(roomID)
	if err := t.store.ZAdd(ctx, key, wallet, float64(t.now().UnixMilli())); err != nil {
		return fmt.Errorf("failed to set user online: %w", err)
	}
	// The key outlives its freshest member by at most one timeout.
	if _, err := t.store.Expire(ctx, key, t.timeout); err != nil {
		return fmt.Errorf("failed to refresh online ttl: %w", err)
	}

	t.mu.Lock()
	t.managedRooms[roomID] = struct{}{}
	t.mu.Unlock()
	return nil
}

func (t *MemberTracker) SetOffline(ctx context.Context, roomID, wallet string) error {
	if _, err := t.store.ZRem(ctx, t.keys.Online(roomID), wallet); err != nil {
		return fmt.Errorf("failed to set user offline: %w", err)
	}
	return nil
}

// OnlineCount drops stale members of the room, then counts the rest.
func (t *MemberTracker) OnlineCount(ctx context.Context, roomID string) (int64, error) {
	key := t.keys.Online(roomID)
	cutoff := t.cutoff()

	if _, err := t.store.ZRemRangeByScore(ctx, key, math.Inf(-1), cutoff); err != nil {
		return 0, fmt.Errorf("failed to drop stale online users: %w", err)
	}
	n, err := t.store.ZCount(ctx, key, cutoff+1, math.Inf(1))
	if err != nil {
		return 0, fmt.Errorf("failed to count online users: %w", err)
	}
	return n, nil
}

// Sweep removes stale members from every managed room and forgets rooms
// whose online set is gone. It returns how many members were removed.
func (t *MemberTracker) Sweep(ctx context.Context) (int64, error) {
	t.mu.Lock()
	rooms := make([]string, 0, len(t.managedRooms))
	for roomID := range t.managedRooms {
		rooms = append(rooms, roomID)
	}
	t.mu.Unlock()

	l := log.Component("presence")
	cutoff := t.cutoff()

	var removed int64
	var firstErr error
	for _, roomID := range rooms {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}

		key := t.keys.Online(roomID)
		n, err := t.store.ZRemRangeByScore(ctx, key, math.Inf(-1), cutoff)
		if err != nil {
			l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to sweep online set")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed += n

		left, err := t.store.ZCount(ctx, key, math.Inf(-1), math.Inf(1))
		if err != nil {
			l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to count online set after sweep")
			continue
		}
		if left == 0 {
			t.mu.Lock()
			delete(t.managedRooms, roomID)
			t.mu.Unlock()
		}
	}

	return removed, firstErr
}

// ManagedRooms returns how many rooms the sweeper currently covers.
func (t *MemberTracker) ManagedRooms() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.managedRooms)
}

func (t *MemberTracker) cutoff() float64 {
	return float64(t.now().Add(-t.timeout).UnixMilli())
}
