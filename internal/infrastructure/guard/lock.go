package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout is returned when the write lock could not be obtained
// within the bounded wait.
var ErrLockTimeout = fmt.Errorf("write lock: timed out waiting")

// Locker serializes store writes. The store itself has no transactions, so
// every mutation runs read-validate-write under this lock.
type Locker interface {
	// Acquire blocks up to the bounded wait and returns a release func.
	Acquire(ctx context.Context) (func(), error)
}

const (
	lockTTL       = 15 * time.Second
	lockRetryStep = 250 * time.Millisecond
	lockRetries   = 40 // ~10s bounded wait, matching the original script lock
)

// RedisLocker serializes writes across server replicas via redislock.
type RedisLocker struct {
	locker *redislock.Client
	key    string
}

func NewRedisLocker(rdb *redis.Client, key string) *RedisLocker {
	return &RedisLocker{locker: redislock.New(rdb), key: key}
}

func (l *RedisLocker) Acquire(ctx context.Context) (func(), error) {
	lock, err := l.locker.Obtain(ctx, l.key, lockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryStep), lockRetries),
	})
	if err == redislock.ErrNotObtained {
		return nil, ErrLockTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("obtain write lock: %w", err)
	}
	return func() { _ = lock.Release(context.Background()) }, nil
}

// LocalLocker is the single-process fallback when redis is not configured.
type LocalLocker struct {
	mu sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{}
}

func (l *LocalLocker) Acquire(ctx context.Context) (func(), error) {
	l.mu.Lock()
	return l.mu.Unlock, nil
}
