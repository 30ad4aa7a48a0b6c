package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLockerWithoutClient(t *testing.T) {
	ctx := context.Background()
	locker := NewRedisLocker(nil)

	ok, err := locker.Acquire(ctx, "featured:20240305", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, locker.Release(ctx, "featured:20240305"))
}

func TestRedisLockerReleaseKeepsForeignLock(t *testing.T) {
	redisURL := os.Getenv("FITFAM_TEST_REDIS_URL")
	if testing.Short() || redisURL == "" {
		t.Skip("Skipping redis test: FITFAM_TEST_REDIS_URL is not set")
	}

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, redisURL)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	key := "test:" + t.Name()
	first := NewRedisLocker(rdb)
	second := NewRedisLocker(rdb)

	ok, err := first.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lock is held")

	// first's TTL runs out and second takes over
	require.NoError(t, rdb.Del(ctx, lockKey(key)).Err())
	ok, err = second.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, first.Release(ctx, key))
	exists, err := rdb.Exists(ctx, lockKey(key)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "a stale holder must not release the new lock")

	require.NoError(t, second.Release(ctx, key))
	exists, err = rdb.Exists(ctx, lockKey(key)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}
