package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheStore is the alternative backend. Memcached has no keyspace
// counters, so Stats always reports ErrStatsUnsupported.
type MemcacheStore struct {
	mc *memcache.Client
}

func NewMemcacheStore(servers ...string) *MemcacheStore {
	return &MemcacheStore{mc: memcache.New(servers...)}
}

func (s *MemcacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, err := s.mc.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("memcache get %s: %w", key, err)
	}
	return item.Value, nil
}

func (s *MemcacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.mc.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: expirationSeconds(ttl),
	})
	if err != nil {
		return fmt.Errorf("memcache set %s: %w", key, err)
	}
	return nil
}

func (s *MemcacheStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.mc.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return fmt.Errorf("memcache delete %s: %w", key, err)
		}
	}
	return nil
}

func (s *MemcacheStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mc.Ping()
}

func (s *MemcacheStore) Close() error {
	return nil
}

func (s *MemcacheStore) Stats(context.Context) (Stats, error) {
	return Stats{}, ErrStatsUnsupported
}

// expirationSeconds converts ttl to memcached's whole-second expiry. Zero
// means no expiry, so a positive sub-second ttl is rounded up.
func expirationSeconds(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	secs := int32(ttl / time.Second)
	if secs == 0 {
		return 1
	}
	return secs
}
