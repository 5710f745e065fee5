package vacations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unlockScript deletes the lease only if the caller still owns it.
const unlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLocker serializes submit/cancel operations per employee with a
// SETNX lease. Read-then-append over the shared log is not atomic; without
// the lease, two concurrent cancels could both see one open request and
// both append a cancellation.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLocker creates a per-employee locker. The TTL bounds how long a
// crashed holder can block an employee.
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, ttl: ttl, logger: logger}
}

// Acquire takes the lease for a normalized email. Returns ErrBusy when
// another holder has it. The returned release function is safe to call even
// after the lease expired.
func (l *RedisLocker) Acquire(ctx context.Context, email string) (release func(), err error) {
	key := "vacation:lock:" + email
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() {
		// Release outlives the request context.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.client.Eval(ctx, unlockScript, []string{key}, token).Err(); err != nil {
			l.logger.Warn("lock release failed", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
