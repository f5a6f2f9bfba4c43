// Package dedup remembers which delivery receipts were already applied so a
// provider retrying a callback does not apply it twice.
package dedup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a seen receipt id is remembered
	DefaultTTL = 24 * time.Hour

	keyPrefix = "crm:receipt:"
)

// Filter reports whether an id is seen for the first time. Forget drops a
// mark so a receipt whose write failed can be applied on the provider's retry.
type Filter interface {
	IsNew(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}

// RedisFilter tracks ids in Redis with SETNX and a TTL
type RedisFilter struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisFilter creates a filter backed by Redis
func NewRedisFilter(rdb redis.Cmdable, ttl time.Duration) *RedisFilter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisFilter{rdb: rdb, ttl: ttl}
}

// IsNew returns true if id has not been seen before and marks it seen atomically
func (f *RedisFilter) IsNew(ctx context.Context, id string) (bool, error) {
	set, err := f.rdb.SetNX(ctx, keyPrefix+id, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}
	return set, nil
}

// Forget removes the mark for id
func (f *RedisFilter) Forget(ctx context.Context, id string) error {
	if err := f.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("dedup DEL: %w", err)
	}
	return nil
}

// MemoryFilter tracks ids in process memory; used when Redis is not configured
type MemoryFilter struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryFilter creates an in-process filter
func NewMemoryFilter(ttl time.Duration) *MemoryFilter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryFilter{ttl: ttl, seen: make(map[string]time.Time), now: time.Now}
}

// IsNew returns true if id has not been seen within the TTL
func (f *MemoryFilter) IsNew(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	for k, exp := range f.seen {
		if now.After(exp) {
			delete(f.seen, k)
		}
	}

	if _, ok := f.seen[id]; ok {
		return false, nil
	}
	f.seen[id] = now.Add(f.ttl)
	return true, nil
}

// Forget removes the mark for id
func (f *MemoryFilter) Forget(_ context.Context, id string) error {
	f.mu.Lock()
	delete(f.seen, id)
	f.mu.Unlock()
	return nil
}
