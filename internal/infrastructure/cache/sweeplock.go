package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// releaseLockScript deletes the key only while it still holds our token,
// so a holder whose TTL lapsed cannot drop a successor's lock.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSweepLock is a single-key mutex with a TTL.
type RedisSweepLock struct {
	client *redis.Client
	key    string
	logger logger.Interface
}

// NewRedisSweepLock creates a lock on the given key.
func NewRedisSweepLock(client *redis.Client, key string, log logger.Interface) *RedisSweepLock {
	return &RedisSweepLock{
		client: client,
		key:    key,
		logger: log,
	}
}

// TryAcquire takes the lock with SET NX. The returned release func is a
// no-op when the lock was not acquired.
func (l *RedisSweepLock) TryAcquire(ctx context.Context, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return func() {}, false, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !acquired {
		return func() {}, false, nil
	}

	release := func() {
		// The caller's context may already be cancelled by the time it releases.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := releaseLockScript.Run(releaseCtx, l.client, []string{l.key}, token).Err(); err != nil {
			l.logger.Warnw("failed to release lock", "key", l.key, "error", err)
		}
	}
	return release, true, nil
}
