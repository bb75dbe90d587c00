package ratelimit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

// KeyFunc extracts the throttling key from a request.
type KeyFunc func(c *fiber.Ctx) string

// ClientIP keys requests by the remote address fiber resolved.
func ClientIP(c *fiber.Ctx) string {
	return c.IP()
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. Backend errors let the request through.
func Middleware(l Limiter, key KeyFunc) fiber.Handler {
	if key == nil {
		key = ClientIP
	}
	return func(c *fiber.Ctx) error {
		k := key(c)
		d, err := l.Allow(c.UserContext(), k)
		if err != nil {
			logx.WithError(err).WithField("key", k).Warn("rate limiter unavailable, allowing request")
			return c.Next()
		}
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retrySeconds(d.RetryAfter)))
			return ErrRateLimited(k, d.RetryAfter)
		}
		return c.Next()
	}
}
