package presence

import (
	"context"
	"time"

	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
)

// Sweepable is a tracker that needs periodic cleanup of stale members.
type Sweepable interface {
	Sweep(ctx context.Context) (int64, error)
}

// Sweeper periodically removes stale members from online sets.
type Sweeper struct {
	target   Sweepable
	interval time.Duration
	quit     chan struct{}
	doneCh   chan struct{}
}

// NewSweeper creates a Sweeper. A non-positive interval means one minute.
func NewSweeper(target Sweepable, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		target:   target,
		interval: interval,
		quit:     make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the sweeper in a background goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop signals the sweeper to stop and returns immediately.
// Call Done() to wait for it to exit.
func (s *Sweeper) Stop() {
	close(s.quit)
}

// Done returns a channel that is closed when the sweeper has fully stopped.
func (s *Sweeper) Done() <-chan struct{} {
	return s.doneCh
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	l := log.Component("presence")

	removed, err := s.target.Sweep(ctx)
	if err != nil {
		l.Error().Err(err).Msg("presence sweep incomplete")
	}
	if removed > 0 {
		l.Debug().Int64("removed", removed).Msg("presence sweep removed stale members")
	}
}
