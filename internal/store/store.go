package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when the key is missing or expired.
	ErrNotFound = errors.New("key not found")
	// ErrWrongType is returned when a key holds a different kind of value.
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")
)

// Store is the set of shared-store primitives the chat components are built on.
// Every call is a single atomic primitive; there are no cross-key transactions.
type Store interface {
	// Strings
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Key lifetime. Expire reports whether the key existed.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Lists
	LPush(ctx context.Context, key, value string) (int64, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)

	// Sets
	SAdd(ctx context.Context, key, member string) (int64, error)
	SRem(ctx context.Context, key, member string) (int64, error)
	SCard(ctx context.Context, key string) (int64, error)

	// Sorted sets, scores inclusive on both ends.
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRem(ctx context.Context, key, member string) (int64, error)
	ZCount(ctx context.Context, key string, min, max float64) (int64, error)
	ZRemRangeByScore(ctx context.Context, key string, min, max float64) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
