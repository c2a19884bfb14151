package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockKey = "reminders:run_lock"
	lockTTL = 10 * time.Minute
)

// RunLock serializes reminder runs across triggers (timer, HTTP, manual)
// using a single SETNX key. The TTL is a liveness bound in case a holder
// dies without releasing; it is not a per-day dedup — once released, the
// next invocation proceeds normally.
type RunLock struct {
	client *redis.Client
}

func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{client: client}
}

// Acquire reports whether this invocation now holds the lock.
func (l *RunLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey, "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock for the next invocation.
func (l *RunLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, lockKey).Err(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}
