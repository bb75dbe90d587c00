// cmd/server/container.go
//
// Composition root. Owns infrastructure (database, redis, file storage, AI
// providers) and composes the article module. The only place that knows
// about every package.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Abraxas-365/aiwriter/pkg/adminauth"
	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/Abraxas-365/aiwriter/pkg/ai/providers/aianthropic"
	"github.com/Abraxas-365/aiwriter/pkg/ai/providers/aiazure"
	"github.com/Abraxas-365/aiwriter/pkg/ai/providers/aibedrock"
	"github.com/Abraxas-365/aiwriter/pkg/ai/providers/aigemini"
	"github.com/Abraxas-365/aiwriter/pkg/ai/providers/aiopenai"
	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/article/articleapi"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlecontainer"
	"github.com/Abraxas-365/aiwriter/pkg/article/articleinfra"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlenotify"
	"github.com/Abraxas-365/aiwriter/pkg/config"
	"github.com/Abraxas-365/aiwriter/pkg/fsx"
	"github.com/Abraxas-365/aiwriter/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/aiwriter/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/aiwriter/pkg/jobx"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
	"github.com/Abraxas-365/aiwriter/pkg/notifx"
	"github.com/Abraxas-365/aiwriter/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/aiwriter/pkg/notifx/notifxses"
	"github.com/Abraxas-365/aiwriter/pkg/ratelimit"
	"github.com/Abraxas-365/aiwriter/pkg/server"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Dialect    articleinfra.Dialect
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Pool       *jobx.Pool

	// Cross-cutting
	LocalLimiter *ratelimit.LocalLimiter
	AdminAuth    *adminauth.TokenService

	// Modules
	Articles *articlecontainer.Container

	aws *aws.Config
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}
	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initModules(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	logx.Info("✅ Application container initialized")
	return c, nil
}

// ---------------------------------------------------------------------------
// Infrastructure: database, redis, file storage, worker pool
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure(ctx context.Context) error {
	logx.Info("🏗️ Initializing infrastructure...")
	cfg := c.Config

	// 1. Database
	if cfg.Database.Driver != config.DriverMemory {
		db, dialect, err := articleinfra.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		c.DB, c.Dialect = db, dialect
		logx.Infof("  ✅ Database connected (%s)", dialect)
	}

	// 2. Redis, optional
	if cfg.Redis.Enabled() {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		logx.Info("  ✅ Redis connected")
	}

	// 3. File storage
	if err := c.initFileStorage(ctx); err != nil {
		return err
	}

	// 4. Worker pool
	c.Pool = jobx.NewPool(
		jobx.WithConcurrency(cfg.Pipeline.Workers),
		jobx.WithQueueSize(cfg.Pipeline.QueueSize),
		jobx.WithShutdownTimeout(cfg.Pipeline.ShutdownTimeout),
	)

	logx.Info("✅ Infrastructure initialized")
	return nil
}

func (c *Container) awsConfig(ctx context.Context, region string) (aws.Config, error) {
	if c.aws != nil && c.aws.Region == region {
		return *c.aws, nil
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load AWS config: %w", err)
	}
	c.aws = &awsCfg
	return awsCfg, nil
}

func (c *Container) initFileStorage(ctx context.Context) error {
	st := c.Config.Storage

	switch st.Mode {
	case config.StorageS3:
		awsCfg, err := c.awsConfig(ctx, st.Region)
		if err != nil {
			return err
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), st.Bucket, st.Prefix, st.PresignTTL)
		logx.Infof("  ✅ S3 file system configured (bucket: %s, region: %s)", st.Bucket, st.Region)

	default:
		localFS, err := fsxlocal.NewLocalFileSystem(st.UploadDir, c.Config.Server.PublicBaseURL+filesRoute)
		if err != nil {
			return fmt.Errorf("local file system: %w", err)
		}
		c.FileSystem = localFS
		logx.Infof("  ✅ Local file system configured (path: %s)", localFS.BasePath())
	}
	return nil
}

// ---------------------------------------------------------------------------
// AI providers
// ---------------------------------------------------------------------------

func (c *Container) newWriterLLM(ctx context.Context) (llm.LLM, error) {
	ai := c.Config.AI

	switch ai.WriterProvider {
	case config.ProviderOpenAI:
		return aiopenai.NewOpenAIProvider(ai.OpenAIAPIKey), nil
	case config.ProviderAnthropic:
		return aianthropic.NewAnthropicProvider(ai.AnthropicAPIKey), nil
	case config.ProviderGemini:
		return aigemini.NewGeminiProvider(ctx, ai.GeminiAPIKey)
	case config.ProviderBedrock:
		awsCfg, err := c.awsConfig(ctx, ai.AWSRegion)
		if err != nil {
			return nil, err
		}
		return aibedrock.NewBedrockProvider(awsCfg, aibedrock.WithDefaultModel(ai.WriterModel)), nil
	case config.ProviderAzure:
		return aiazure.NewAzureOpenAIProvider(ai.AzureEndpoint, ai.AzureAPIKey, ai.WriterModel,
			aiazure.WithAPIVersion(ai.AzureAPIVersion)), nil
	default:
		return nil, fmt.Errorf("unknown writer provider %q", ai.WriterProvider)
	}
}

func (c *Container) newImageGenerator(ctx context.Context) (llm.ImageGenerator, error) {
	ai := c.Config.AI

	switch ai.ImageProvider {
	case config.ProviderOpenAI:
		return aiopenai.NewOpenAIProvider(ai.OpenAIAPIKey), nil
	case config.ProviderGemini:
		return aigemini.NewGeminiProvider(ctx, ai.GeminiAPIKey)
	case config.ProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown image provider %q", ai.ImageProvider)
	}
}

// ---------------------------------------------------------------------------
// Notifications
// ---------------------------------------------------------------------------

func (c *Container) newNotifier(ctx context.Context) (article.Notifier, error) {
	n := c.Config.Notify

	var sender notifx.Sender
	switch n.Provider {
	case "ses":
		awsCfg, err := c.awsConfig(ctx, n.AWSRegion)
		if err != nil {
			return nil, err
		}
		sender = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg))
	case "none":
		return nil, nil
	default:
		sender = notifxconsole.NewConsoleProvider()
	}

	from := n.FromAddress
	if n.FromName != "" {
		from = fmt.Sprintf("%s <%s>", n.FromName, n.FromAddress)
	}
	return articlenotify.New(notifx.NewClient(sender, from), n.Recipients, c.Config.Server.PublicBaseURL)
}

// ---------------------------------------------------------------------------
// Rate limiting and admin auth
// ---------------------------------------------------------------------------

func (c *Container) newLimiter() ratelimit.Limiter {
	rl := c.Config.RateLimit
	if rl.Backend == "redis" {
		if c.Redis != nil {
			logx.Infof("  ✅ Redis rate limiter (%d/min, burst %d)", rl.RequestsPerMinute, rl.Burst)
			return ratelimit.NewRedisLimiter(c.Redis, rl.RequestsPerMinute, rl.Burst)
		}
		logx.Warn("  ⚠️  Redis rate limiter requested without redis, using local limiter")
	}
	c.LocalLimiter = ratelimit.NewLocalLimiter(rl.RequestsPerMinute, rl.Burst)
	logx.Infof("  ✅ Local rate limiter (%d/min, burst %d)", rl.RequestsPerMinute, rl.Burst)
	return c.LocalLimiter
}

// ---------------------------------------------------------------------------
// Module composition
// ---------------------------------------------------------------------------

func (c *Container) initModules(ctx context.Context) error {
	logx.Info("📦 Initializing modules...")
	cfg := c.Config

	writerLLM, err := c.newWriterLLM(ctx)
	if err != nil {
		return fmt.Errorf("writer provider: %w", err)
	}
	images, err := c.newImageGenerator(ctx)
	if err != nil {
		return fmt.Errorf("image provider: %w", err)
	}
	notifier, err := c.newNotifier(ctx)
	if err != nil {
		return fmt.Errorf("notifier: %w", err)
	}

	c.AdminAuth = adminauth.NewTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer)
	if !c.AdminAuth.Enabled() {
		logx.Warn("  ⚠️  ADMIN_JWT_SECRET not set, admin routes are disabled")
	}

	handlerOpts := []articleapi.Option{
		articleapi.WithAdmin(c.AdminAuth.RequireScope(adminauth.ScopeArticlesAdmin)),
	}
	if cfg.RateLimit.Enabled {
		handlerOpts = append(handlerOpts,
			articleapi.WithGenerateMiddleware(ratelimit.Middleware(c.newLimiter(), ratelimit.ClientIP)))
	}

	c.Articles, err = articlecontainer.New(ctx, articlecontainer.Deps{
		Cfg:            cfg,
		DB:             c.DB,
		Dialect:        c.Dialect,
		Files:          c.FileSystem,
		Jobs:           c.Pool,
		LLM:            writerLLM,
		Images:         images,
		Notifier:       notifier,
		HandlerOptions: handlerOpts,
	})
	return err
}

// HealthChecks probes the infrastructure in use.
func (c *Container) HealthChecks() []server.HealthCheck {
	var checks []server.HealthCheck
	if c.DB != nil {
		checks = append(checks, server.HealthCheck{Name: "db", Check: c.DB.PingContext})
	}
	if c.Redis != nil {
		checks = append(checks, server.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return c.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// RecoverInterrupted fails articles a previous process left mid-pipeline.
func (c *Container) RecoverInterrupted(ctx context.Context) {
	if !c.Config.Pipeline.FailStaleOnStart {
		return
	}
	if _, err := c.Articles.Service.RecoverInterrupted(ctx); err != nil {
		logx.WithError(err).Error("cannot recover interrupted articles")
	}
}

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
