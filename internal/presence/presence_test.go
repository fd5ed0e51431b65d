package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/store"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/testutil"
)

func newTracker(t *testing.T, mode string) (Tracker, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s := store.NewMemoryStore(store.WithClock(clock.Now), store.WithJanitorInterval(0))
	t.Cleanup(func() { _ = s.Close() })

	tr, err := New(s, store.NewKeys("chat"), Config{Mode: mode, OnlineTimeout: 5 * time.Minute}, clock.Now)
	require.NoError(t, err)
	return tr, clock
}

func TestNew_UnknownMode(t *testing.T) {
	t.Parallel()
	_, err := New(store.NewMemoryStore(store.WithJanitorInterval(0)), store.NewKeys(""), Config{Mode: "quantum"}, nil)
	assert.Error(t, err)
}

func TestTracker_BothModes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, mode := range []string{ModeSharedTTL, ModePerMember} {
		mode := mode
		t.Run(mode, func(t *testing.T) {
			t.Parallel()

			t.Run("set semantics", func(t *testing.T) {
				tr, _ := newTracker(t, mode)

				require.NoError(t, tr.SetOnline(ctx, "r", "w1"))
				require.NoError(t, tr.SetOnline(ctx, "r", "w1"))
				assertOnline(t, tr, "r", 1)

				require.NoError(t, tr.SetOnline(ctx, "r", "w2"))
				assertOnline(t, tr, "r", 2)

				require.NoError(t, tr.SetOffline(ctx, "r", "w1"))
				assertOnline(t, tr, "r", 1)

				require.NoError(t, tr.SetOffline(ctx, "r", "ghost"))
				assertOnline(t, tr, "r", 1)
			})

			t.Run("offline keeps participants", func(t *testing.T) {
				tr, _ := newTracker(t, mode)

				require.NoError(t, tr.AddParticipant(ctx, "r", "w1"))
				require.NoError(t, tr.SetOnline(ctx, "r", "w1"))
				require.NoError(t, tr.SetOffline(ctx, "r", "w1"))

				assertOnline(t, tr, "r", 0)
				n, err := tr.ParticipantCount(ctx, "r")
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
			})

			t.Run("timeout empties online set", func(t *testing.T) {
				tr, clock := newTracker(t, mode)

				require.NoError(t, tr.AddParticipant(ctx, "r", "w1"))
				require.NoError(t, tr.SetOnline(ctx, "r", "w1"))
				clock.Advance(5 * time.Minute)

				assertOnline(t, tr, "r", 0)
				n, err := tr.ParticipantCount(ctx, "r")
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
			})

			t.Run("unknown room", func(t *testing.T) {
				tr, _ := newTracker(t, mode)
				assertOnline(t, tr, "nowhere", 0)
			})
		})
	}
}

func TestSharedTTL_OneRefreshKeepsEveryoneOnline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, clock := newTracker(t, ModeSharedTTL)

	require.NoError(t, tr.SetOnline(ctx, "r", "quiet"))
	clock.Advance(4 * time.Minute)
	require.NoError(t, tr.SetOnline(ctx, "r", "chatty"))
	clock.Advance(4 * time.Minute)

	// The whole set shares one TTL, so the quiet member is still counted.
	assertOnline(t, tr, "r", 2)
}

func TestPerMember_StaleMembersExpireIndividually(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, clock := newTracker(t, ModePerMember)

	require.NoError(t, tr.SetOnline(ctx, "r", "quiet"))
	clock.Advance(4 * time.Minute)
	require.NoError(t, tr.SetOnline(ctx, "r", "chatty"))
	clock.Advance(4 * time.Minute)

	assertOnline(t, tr, "r", 1)

	clock.Advance(time.Minute)
	assertOnline(t, tr, "r", 0)
}

func TestMemberTracker_Sweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tr, clock := newTracker(t, ModePerMember)
	mt := tr.(*MemberTracker)

	require.NoError(t, mt.SetOnline(ctx, "r1", "a"))
	require.NoError(t, mt.SetOnline(ctx, "r2", "b"))
	clock.Advance(3 * time.Minute)
	require.NoError(t, mt.SetOnline(ctx, "r2", "c"))
	assert.Equal(t, 2, mt.ManagedRooms())

	clock.Advance(3 * time.Minute)
	removed, err := mt.Sweep(ctx)
	require.NoError(t, err)
	// b is swept from r2; r1's key already expired with its only member.
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, mt.ManagedRooms())
	assertOnline(t, mt, "r2", 1)
}

type countingSweeper struct {
	calls chan struct{}
}

func (c *countingSweeper) Sweep(ctx context.Context) (int64, error) {
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestSweeper_Lifecycle(t *testing.T) {
	t.Parallel()

	target := &countingSweeper{calls: make(chan struct{}, 1)}
	s := NewSweeper(target, 5*time.Millisecond)
	s.Start(context.Background())

	select {
	case <-target.calls:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}

	s.Stop()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func assertOnline(t *testing.T, tr Tracker, roomID string, want int64) {
	t.Helper()
	n, err := tr.OnlineCount(context.Background(), roomID)
	require.NoError(t, err)
	assert.Equal(t, want, n)
}
