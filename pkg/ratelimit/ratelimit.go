// Package ratelimit throttles requests per client key. Two backends exist: an
// in-process token bucket per key and a fixed window counter in redis shared
// by every replica.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RATE_LIMIT")

var (
	CodeRateLimited = ErrRegistry.Register("EXCEEDED", errx.TypeRateLimited, 0, "Too many requests")
	CodeBackend     = ErrRegistry.Register("BACKEND_FAILURE", errx.TypeUnavailable, 0, "Rate limit backend unavailable")
)

func ErrRateLimited(key string, retryAfter time.Duration) *errx.Error {
	return ErrRegistry.New(CodeRateLimited).
		WithDetail("key", key).
		WithDetail("retry_after_seconds", retrySeconds(retryAfter))
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// perMinute converts a per-minute budget into a token refill rate.
func perMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

// ============================================================================
// Local limiter
// ============================================================================

const (
	DefaultIdleTTL         = 3 * time.Minute
	DefaultCleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one token bucket per key in memory.
type LocalLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

type LocalOption func(*LocalLimiter)

// WithIdleTTL sets how long an unused key is remembered.
func WithIdleTTL(d time.Duration) LocalOption {
	return func(l *LocalLimiter) {
		if d > 0 {
			l.ttl = d
		}
	}
}

func WithClock(now func() time.Time) LocalOption {
	return func(l *LocalLimiter) { l.now = now }
}

// NewLocalLimiter allows requestsPerMinute sustained requests per key with
// bursts of up to burst.
func NewLocalLimiter(requestsPerMinute, burst int, opts ...LocalOption) *LocalLimiter {
	if burst <= 0 {
		burst = 1
	}
	l := &LocalLimiter{
		limit:    perMinute(requestsPerMinute),
		burst:    burst,
		ttl:      DefaultIdleTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

var _ Limiter = (*LocalLimiter)(nil)

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return Decision{RetryAfter: time.Minute}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{RetryAfter: delay}, nil
	}
	return Decision{Allowed: true}, nil
}

// Cleanup forgets keys idle for longer than the TTL and returns how many
// were removed.
func (l *LocalLimiter) Cleanup() int {
	cutoff := l.now().Add(-l.ttl)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Run calls Cleanup every interval until ctx is done.
func (l *LocalLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

func retrySeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
