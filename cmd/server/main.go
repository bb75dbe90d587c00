package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Abraxas-365/aiwriter/pkg/config"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
	"github.com/Abraxas-365/aiwriter/pkg/ratelimit"
	"github.com/Abraxas-365/aiwriter/pkg/server"
)

const filesRoute = "/files"

func main() {
	// 1. Logger and configuration
	logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))

	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Debug {
		logx.SetLevel(logx.LevelDebug)
	}

	logx.Infof("🚀 Starting %s %s...", cfg.AppName, cfg.AppVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Dependency container
	container, err := NewContainer(ctx, cfg)
	if err != nil {
		logx.Fatalf("Failed to initialize: %v", err)
	}
	defer container.Cleanup()

	container.RecoverInterrupted(ctx)

	// 3. HTTP application
	app := server.New(server.Options{
		AppName:     cfg.AppName,
		Version:     cfg.AppVersion,
		CORSOrigins: cfg.Server.CORSOrigins,
		BodyLimit:   cfg.Server.BodyLimitBytes,
		Debug:       cfg.Debug,
		AccessLog:   true,
	})

	app.Get("/health", server.Health("ai-writer-backend", cfg.AppVersion, container.HealthChecks()...))
	app.Get("/", server.Info(cfg.AppName, cfg.AppVersion, map[string]string{
		"generate": "POST /api/generate",
		"status":   "GET /api/status/:id",
		"list":     "GET /api/articles",
		"detail":   "GET /api/articles/:id",
		"download": "GET /api/articles/:id/download/:format",
		"delete":   "DELETE /api/articles/:id",
		"health":   "GET /health",
	}))

	if cfg.Storage.Mode == config.StorageLocal {
		app.Static(filesRoute, cfg.Storage.UploadDir, fiber.Static{ByteRange: true})
	}

	container.Articles.Handlers.RegisterRoutes(app)
	app.Use(server.NotFound)

	printRouteSummary()

	// 4. Run until a signal arrives or a component fails
	if err := run(ctx, app, container); err != nil {
		logx.Errorf("Server stopped with error: %v", err)
		return
	}
	logx.Info("✅ Server exited successfully")
}

func run(ctx context.Context, app *fiber.App, c *Container) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Pool.Start(gctx)
	})

	if c.LocalLimiter != nil {
		g.Go(func() error {
			c.LocalLimiter.Run(gctx, ratelimit.DefaultCleanupInterval)
			return nil
		})
	}

	g.Go(func() error {
		port := c.Config.Server.Port
		logx.Info(strings.Repeat("=", 60))
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", port)
		logx.Info(strings.Repeat("=", 60))
		return app.Listen(":" + port)
	})

	g.Go(func() error {
		<-gctx.Done()
		logx.Info("🛑 Shutting down gracefully...")
		if err := app.ShutdownWithTimeout(c.Config.Server.ShutdownTimeout); err != nil {
			logx.Errorf("Server forced to shutdown: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printRouteSummary() {
	logx.Info("📋 Route Summary:")
	logx.Info("   ├─ Articles: /api/generate, /api/status/:id, /api/articles/*")
	logx.Info("   ├─ Files: " + filesRoute + "/*")
	logx.Info("   └─ Health: /health")
}
