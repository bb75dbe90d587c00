package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ratelimit"

// RedisLimiter counts requests per key in fixed one-minute windows. The
// budget per window is requestsPerMinute plus burst.
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, requestsPerMinute, burst int) *RedisLimiter {
	limit := int64(requestsPerMinute + burst)
	if limit <= 0 {
		limit = 1
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: time.Minute,
		prefix: defaultKeyPrefix,
		now:    time.Now,
	}
}

var _ Limiter = (*RedisLimiter)(nil)

func (l *RedisLimiter) windowKey(key string, now time.Time) string {
	slot := now.UnixNano() / int64(l.window)
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	k := l.windowKey(key, now)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return Decision{}, ErrRegistry.NewWithCause(CodeBackend, err).WithDetail("key", key)
	}

	if incr.Val() <= l.limit {
		return Decision{Allowed: true}, nil
	}
	windowEnd := time.Unix(0, (now.UnixNano()/int64(l.window)+1)*int64(l.window))
	return Decision{RetryAfter: windowEnd.Sub(now)}, nil
}
