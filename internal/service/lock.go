package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker guards work that must not run twice at once across server instances
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// releaseScript deletes the lock only while it still holds our token, so a
// holder whose TTL ran out cannot drop a lock taken over by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX. A nil client always grants the lock.
type RedisLocker struct {
	rdb *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb, tokens: make(map[string]string)}
}

// NewRedisClient connects to redisURL, or returns nil when it is empty
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}
	token := uuid.NewString()
	wasSet, err := l.rdb.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock in redis: %w", err)
	}
	if wasSet {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return wasSet, nil
}

func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, l.rdb, []string{lockKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock in redis: %w", err)
	}
	return nil
}

func lockKey(key string) string {
	return "fitfam:lock:" + key
}
