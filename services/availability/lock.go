package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/im7mortal/kmutex"
	"github.com/juju/clock"
	"go.uber.org/zap"
)

// Locker hands out short leases on a key. The returned func releases the lease.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

func lockKey(serviceID, dateKey string) string {
	return "calendar:lock:" + serviceID + ":" + dateKey
}

// LocalLocker serializes writers inside one process.
type LocalLocker struct {
	km *kmutex.Kmutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{km: kmutex.New()}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.km.Lock(key)
	return func() { l.km.Unlock(key) }, nil
}

// releaseScript deletes the lease only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockTimeout is returned when a Redis lease could not be acquired within the wait budget.
var ErrLockTimeout = errors.New("timed out waiting for calendar lease")

// RedisLocker holds leases across processes with SET NX PX.
// A lease expires after TTL even if its holder dies.
type RedisLocker struct {
	Client       *redis.Client
	TTL          time.Duration
	PollInterval time.Duration
	// MaxWait bounds how long Lock polls before giving up; zero means TTL.
	MaxWait time.Duration
	Clock   clock.Clock
	Logger  *zap.Logger
}

func (l *RedisLocker) clock() clock.Clock {
	if l.Clock == nil {
		return clock.WallClock
	}
	return l.Clock
}

func (l *RedisLocker) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	poll := l.PollInterval
	if poll <= 0 {
		poll = 25 * time.Millisecond
	}
	wait := l.MaxWait
	if wait <= 0 {
		wait = l.TTL
	}
	clk := l.clock()
	deadline := clk.Now().Add(wait)

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lease %s: %w", key, err)
		}
		if ok {
			break
		}
		if clk.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-clk.After(poll):
		}
	}

	return func() { l.release(key, token) }, nil
}

// release drops the lease if it still holds token. A failed release leaves the lease to expire after TTL.
func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.Client, []string{key}, token).Err(); err != nil {
		l.logger().Warn("Failed to release calendar lease",
			zap.String("key", key), zap.Duration("ttl", l.TTL), zap.Error(err))
	}
}
