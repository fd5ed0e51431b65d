package store

import (
	"context"
	"sync"
	"time"
)

type kind int

const (
	kindString kind = iota
	kindList
	kindSet
	kindZSet
)

type entry struct {
	kind      kind
	str       string
	list      []string // index 0 is the head (most recent LPUSH)
	set       map[string]struct{}
	zset      map[string]float64
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is an in-memory implementation of Store with Redis semantics
// for the primitives it supports, including lazy TTL expiry.
// Suitable for single-instance deployments and tests.
type MemoryStore struct {
	entries map[string]*entry
	mu      sync.Mutex
	now     func() time.Time

	janitorInterval time.Duration
	quit            chan struct{}
	doneCh          chan struct{}
	closeOnce       sync.Once
}

var _ Store = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// WithJanitorInterval sets how often expired keys are purged in the background.
// Zero disables the janitor; expired keys are then only dropped on access.
func WithJanitorInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.janitorInterval = d
	}
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries:         make(map[string]*entry),
		now:             time.Now,
		janitorInterval: time.Minute,
		quit:            make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.janitorInterval > 0 {
		go s.janitor()
	} else {
		close(s.doneCh)
	}
	return s
}

// lookup returns the live entry for key, dropping it if expired. Caller holds mu.
func (s *MemoryStore) lookup(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return e
}

// lookupKind is lookup plus a type check.
func (s *MemoryStore) lookupKind(key string, k kind) (*entry, error) {
	e := s.lookup(key)
	if e == nil {
		return nil, nil
	}
	if e.kind != k {
		return nil, ErrWrongType
	}
	return e, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindString)
	if err != nil {
		return "", err
	}
	if e == nil {
		return "", ErrNotFound
	}
	return e.str, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{kind: kindString, str: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil {
		return false, nil
	}
	if ttl <= 0 {
		delete(s.entries, key)
		return true, nil
	}
	e.expiresAt = s.now().Add(ttl)
	return true, nil
}

func (s *MemoryStore) LPush(ctx context.Context, key, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindList)
	if err != nil {
		return 0, err
	}
	if e == nil {
		e = &entry{kind: kindList}
		s.entries[key] = e
	}
	e.list = append([]string{value}, e.list...)
	return int64(len(e.list)), nil
}

func (s *MemoryStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindList)
	if err != nil || e == nil {
		return err
	}

	from, to, ok := normalizeRange(start, stop, int64(len(e.list)))
	if !ok {
		delete(s.entries, key)
		return nil
	}
	kept := make([]string, to-from+1)
	copy(kept, e.list[from:to+1])
	e.list = kept
	return nil
}

func (s *MemoryStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindList)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return []string{}, nil
	}

	from, to, ok := normalizeRange(start, stop, int64(len(e.list)))
	if !ok {
		return []string{}, nil
	}
	out := make([]string, to-from+1)
	copy(out, e.list[from:to+1])
	return out, nil
}

func (s *MemoryStore) LLen(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindList)
	if err != nil || e == nil {
		return 0, err
	}
	return int64(len(e.list)), nil
}

func (s *MemoryStore) SAdd(ctx context.Context, key, member string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindSet)
	if err != nil {
		return 0, err
	}
	if e == nil {
		e = &entry{kind: kindSet, set: make(map[string]struct{})}
		s.entries[key] = e
	}
	if _, ok := e.set[member]; ok {
		return 0, nil
	}
	e.set[member] = struct{}{}
	return 1, nil
}

func (s *MemoryStore) SRem(ctx context.Context, key, member string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindSet)
	if err != nil || e == nil {
		return 0, err
	}
	if _, ok := e.set[member]; !ok {
		return 0, nil
	}
	delete(e.set, member)
	if len(e.set) == 0 {
		delete(s.entries, key)
	}
	return 1, nil
}

func (s *MemoryStore) SCard(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindSet)
	if err != nil || e == nil {
		return 0, err
	}
	return int64(len(e.set)), nil
}

func (s *MemoryStore) ZAdd(ctx context.Context, key, member string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindZSet)
	if err != nil {
		return err
	}
	if e == nil {
		e = &entry{kind: kindZSet, zset: make(map[string]float64)}
		s.entries[key] = e
	}
	e.zset[member] = score
	return nil
}

func (s *MemoryStore) ZRem(ctx context.Context, key, member string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindZSet)
	if err != nil || e == nil {
		return 0, err
	}
	if _, ok := e.zset[member]; !ok {
		return 0, nil
	}
	delete(e.zset, member)
	if len(e.zset) == 0 {
		delete(s.entries, key)
	}
	return 1, nil
}

func (s *MemoryStore) ZCount(ctx context.Context, key string, min, max float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindZSet)
	if err != nil || e == nil {
		return 0, err
	}
	var n int64
	for _, score := range e.zset {
		if score >= min && score <= max {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ZRemRangeByScore(ctx context.Context, key string, min, max float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupKind(key, kindZSet)
	if err != nil || e == nil {
		return 0, err
	}
	var n int64
	for member, score := range e.zset {
		if score >= min && score <= max {
			delete(e.zset, member)
			n++
		}
	}
	if len(e.zset) == 0 {
		delete(s.entries, key)
	}
	return n, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.doneCh
	return nil
}

func (s *MemoryStore) janitor() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.purgeExpired()
		}
	}
}

func (s *MemoryStore) purgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		s.lookup(key)
	}
}

// normalizeRange applies Redis LRANGE/LTRIM index rules to a list of length n.
// ok is false when the range selects nothing.
func normalizeRange(start, stop, n int64) (from, to int64, ok bool) {
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop += n
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop, true
}
