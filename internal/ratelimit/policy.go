package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy decides whether a wallet may send a message to a room right now.
type Policy interface {
	Allow(ctx context.Context, wallet, roomID string) bool
}

// AllowAll admits every send.
type AllowAll struct{}

func (AllowAll) Allow(context.Context, string, string) bool { return true }

type bucketKey struct {
	wallet string
	roomID string
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket admits up to burst messages at once and perSecond on average,
// independently for each (wallet, room). Buckets idle for idleTTL are dropped.
type TokenBucket struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	buckets     map[bucketKey]*bucket
	lastCleanup time.Time
	mu          sync.Mutex
}

var (
	_ Policy = AllowAll{}
	_ Policy = (*TokenBucket)(nil)
)

// NewTokenBucket creates a per-(wallet, room) token bucket policy.
func NewTokenBucket(perSecond float64, burst int, idleTTL time.Duration) *TokenBucket {
	return newTokenBucket(perSecond, burst, idleTTL, time.Now)
}

func newTokenBucket(perSecond float64, burst int, idleTTL time.Duration, now func() time.Time) *TokenBucket {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &TokenBucket{
		limit:       rate.Limit(perSecond),
		burst:       burst,
		idleTTL:     idleTTL,
		now:         now,
		buckets:     make(map[bucketKey]*bucket),
		lastCleanup: now(),
	}
}

func (p *TokenBucket) Allow(ctx context.Context, wallet, roomID string) bool {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if now.Sub(p.lastCleanup) >= p.idleTTL {
		p.cleanup(now)
	}

	key := bucketKey{wallet: wallet, roomID: roomID}
	b, ok := p.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Size returns the number of tracked buckets.
func (p *TokenBucket) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets)
}

func (p *TokenBucket) cleanup(now time.Time) {
	for key, b := range p.buckets {
		if now.Sub(b.lastSeen) >= p.idleTTL {
			delete(p.buckets, key)
		}
	}
	p.lastCleanup = now
}
