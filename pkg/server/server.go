// Package server builds the fiber application shared by every route group:
// middleware stack, error rendering, health and info endpoints.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

const HeaderRequestID = "X-Request-ID"

type Options struct {
	AppName     string
	Version     string
	CORSOrigins string
	BodyLimit   int
	// Debug adds the underlying cause to error responses.
	Debug bool
	// AccessLog enables the per-request log line.
	AccessLog bool
}

// New returns a fiber app with recover, request id, CORS and access log
// middleware installed and errors rendered by ErrorHandler.
func New(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(opts.Debug),
		BodyLimit:             opts.BodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: opts.Debug,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    HeaderRequestID,
		Generator: uuid.NewString,
	}))

	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Client-Fingerprint",
		AllowMethods:  "GET, POST, DELETE, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID, Retry-After",
	}))

	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${respHeader:X-Request-ID}\n",
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "Local",
		}))
	}

	return app
}

// RequestID returns the id assigned to the current request.
func RequestID(c *fiber.Ctx) string {
	if id := c.GetRespHeader(HeaderRequestID); id != "" {
		return id
	}
	return c.Get(HeaderRequestID)
}

// ErrorHandler renders *errx.Error and *fiber.Error as JSON. Anything else is
// a 500 without internals.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		reqID := RequestID(c)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":      fe.Message,
				"code":       "HTTP_ERROR",
				"status":     fe.Code,
				"request_id": reqID,
			})
		}

		var e *errx.Error
		if errors.As(err, &e) {
			entry := logx.WithFields(logx.Fields{
				"path":       c.Path(),
				"method":     c.Method(),
				"code":       e.Code,
				"request_id": reqID,
			})
			if e.HTTPStatus >= fiber.StatusInternalServerError {
				entry.WithError(err).Error("request failed")
			} else {
				entry.Debugf("request rejected: %v", err)
			}

			resp := fiber.Map{
				"error":      e.Message,
				"code":       e.Code,
				"type":       string(e.Type),
				"status":     e.HTTPStatus,
				"request_id": reqID,
			}
			if len(e.Details) > 0 {
				resp["details"] = e.Details
			}
			if debug && e.Err != nil {
				resp["underlying_error"] = e.Err.Error()
			}
			return c.Status(e.HTTPStatus).JSON(resp)
		}

		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": reqID,
		}).WithError(err).Error("unhandled request error")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Internal Server Error",
			"code":       "INTERNAL_ERROR",
			"type":       string(errx.TypeInternal),
			"status":     fiber.StatusInternalServerError,
			"request_id": reqID,
		})
	}
}

// NotFound answers unmatched routes. Register it last.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "ROUTE_NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": RequestID(c),
	})
}

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Health reports healthy, or degraded with 503 when any check fails.
func Health(service, version string, checks ...HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := fiber.Map{
			"status":  "healthy",
			"service": service,
			"version": version,
		}
		status := fiber.StatusOK

		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				resp[hc.Name] = "unhealthy"
				resp[hc.Name+"_error"] = err.Error()
				resp["status"] = "degraded"
				status = fiber.StatusServiceUnavailable
				continue
			}
			resp[hc.Name] = "healthy"
		}
		return c.Status(status).JSON(resp)
	}
}

// Info describes the service at the root path.
func Info(name, version string, endpoints map[string]string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   name,
			"version":   version,
			"status":    "running",
			"endpoints": endpoints,
		})
	}
}
