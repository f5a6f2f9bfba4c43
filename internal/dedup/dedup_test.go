package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFilter(t *testing.T) {
	f := NewMemoryFilter(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := f.IsNew(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, first)

	again, _ := f.IsNew(ctx, "r1")
	assert.False(t, again)

	other, _ := f.IsNew(ctx, "r2")
	assert.True(t, other)

	now = now.Add(2 * time.Minute)
	expired, _ := f.IsNew(ctx, "r1")
	assert.True(t, expired)
}

func TestRedisFilterWrapsConnectionErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	f := NewRedisFilter(rdb, 0)
	assert.Equal(t, DefaultTTL, f.ttl)

	_, err := f.IsNew(context.Background(), "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedup SETNX")

	err = f.Forget(context.Background(), "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedup DEL")
}

func TestMemoryFilterForget(t *testing.T) {
	f := NewMemoryFilter(time.Minute)
	ctx := context.Background()

	first, _ := f.IsNew(ctx, "r1")
	assert.True(t, first)
	require.NoError(t, f.Forget(ctx, "r1"))

	retry, _ := f.IsNew(ctx, "r1")
	assert.True(t, retry)
	require.NoError(t, f.Forget(ctx, "never-seen"))
}
