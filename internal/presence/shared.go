package presence

import (
	"context"
	"fmt"
	"time"
)

// SharedTTLTracker keeps the online set as a plain set whose single TTL is
// refreshed by every SetOnline. Members never expire individually: the set
// empties only when nobody in the room has refreshed for the whole timeout.
type SharedTTLTracker struct {
	participants
	timeout time.Duration
}

var _ Tracker = (*SharedTTLTracker)(nil)

func (t *SharedTTLTracker) SetOnline(ctx context.Context, roomID, wallet string) error {
	key := t.keys.Online(roomID)
	if _, err := t.store.SAdd(ctx, key, wallet); err != nil {
		return fmt.Errorf("failed to set user online: %w", err)
	}
	if _, err := t.store.Expire(ctx, key, t.timeout); err != nil {
		return fmt.Errorf("failed to refresh online ttl: %w", err)
	}
	return nil
}

func (t *SharedTTLTracker) SetOffline(ctx context.Context, roomID, wallet string) error {
	if _, err := t.store.SRem(ctx, t.keys.Online(roomID), wallet); err != nil {
		return fmt.Errorf("failed to set user offline: %w", err)
	}
	return nil
}

func (t *SharedTTLTracker) OnlineCount(ctx context.Context, roomID string) (int64, error) {
	n, err := t.store.SCard(ctx, t.keys.Online(roomID))
	if err != nil {
		return 0, fmt.Errorf("failed to count online users: %w", err)
	}
	return n, nil
}
