// Package cache wraps the key-value backends used for the query-level and
// view-level caches. Values are opaque bytes; callers that store structured
// data go through GetJSON and SetJSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrCacheMiss        = errors.New("cache: miss")
	ErrStatsUnsupported = errors.New("cache: backend does not report hit/miss stats")
)

// Store is the contract shared by the redis and memcache backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Stats are the server-side keyspace counters.
type Stats struct {
	KeyspaceHits   int64
	KeyspaceMisses int64
}

type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}

// GetJSON loads key and decodes it into dst. It returns ErrCacheMiss when the
// key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, s Store, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
