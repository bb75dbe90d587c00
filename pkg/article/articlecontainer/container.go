package articlecontainer

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/article/articleapi"
	"github.com/Abraxas-365/aiwriter/pkg/article/articleinfra"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlesrv"
	"github.com/Abraxas-365/aiwriter/pkg/config"
	"github.com/Abraxas-365/aiwriter/pkg/fsx"
	"github.com/Abraxas-365/aiwriter/pkg/illustrator"
	"github.com/Abraxas-365/aiwriter/pkg/integrator"
	"github.com/Abraxas-365/aiwriter/pkg/jobx"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
	"github.com/Abraxas-365/aiwriter/pkg/writer"
)

// ---------------------------------------------------------------------------
// Deps: everything the article module needs from the outside.
// ---------------------------------------------------------------------------

type Deps struct {
	Cfg *config.Config

	// DB nil selects the in-memory store.
	DB      *sqlx.DB
	Dialect articleinfra.Dialect

	Files fsx.FileSystem
	Jobs  jobx.Submitter

	// LLM drafts articles. Images nil yields placeholder illustrations.
	LLM    llm.LLM
	Images llm.ImageGenerator

	// Optional.
	Notifier article.Notifier

	// Handler options, e.g. rate limiting and admin auth.
	HandlerOptions []articleapi.Option
}

// ---------------------------------------------------------------------------
// Container: the public surface of the article module.
// ---------------------------------------------------------------------------

type Container struct {
	Repository article.Repository
	Pipeline   *articlesrv.Pipeline
	Service    *articlesrv.ArticleService
	Handlers   *articleapi.ArticleHandlers
}

// New builds the module graph: repository, capabilities, pipeline, service,
// handlers.
func New(ctx context.Context, deps Deps) (*Container, error) {
	logx.Info("📦 Initializing article module...")
	cfg := deps.Cfg

	repo, err := newRepository(ctx, deps)
	if err != nil {
		return nil, err
	}

	pipeline := articlesrv.NewPipeline(articlesrv.PipelineConfig{
		Repository:   repo,
		Researcher:   newResearcher(deps),
		Writer:       newWriter(deps),
		Illustrator:  newIllustrator(deps),
		Fallback:     illustrator.PlaceholderIllustrator{Count: cfg.AI.ImageCount},
		Integrator:   integrator.New(deps.Files, cfg.Pipeline.PDFFontPath),
		Notifier:     deps.Notifier,
		StageTimeout: cfg.Pipeline.StageTimeout,
	})

	service := articlesrv.NewArticleService(repo, pipeline, deps.Jobs,
		articlesrv.WithFiles(deps.Files))

	c := &Container{
		Repository: repo,
		Pipeline:   pipeline,
		Service:    service,
		Handlers:   articleapi.NewArticleHandlers(service, deps.HandlerOptions...),
	}
	logx.Info("  ✅ Article module ready")
	return c, nil
}

func newRepository(ctx context.Context, deps Deps) (article.Repository, error) {
	if deps.DB == nil {
		logx.Warn("  ⚠️  Using in-memory article store, data is lost on restart")
		return articleinfra.NewMemoryStore(), nil
	}
	store := articleinfra.NewSQLStore(deps.DB, deps.Dialect)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	logx.Infof("  ✅ Article store ready (%s)", deps.Dialect)
	return store, nil
}

func newResearcher(deps Deps) article.Researcher {
	if deps.Cfg.Pipeline.ResearchMode == config.ResearchLLM {
		return writer.NewLLMResearcher(deps.LLM, deps.Cfg.AI.WriterModel, deps.Cfg.AI.RequestTimeout)
	}
	return writer.StaticResearcher{}
}

func newWriter(deps Deps) article.ContentGenerator {
	ai := deps.Cfg.AI
	return writer.NewWriter(deps.LLM,
		writer.WithModel(ai.WriterModel),
		writer.WithMaxTokens(ai.MaxTokens),
		writer.WithTemperature(ai.Temperature),
		writer.WithTimeout(ai.RequestTimeout),
	)
}

func newIllustrator(deps Deps) article.Illustrator {
	ai := deps.Cfg.AI
	if deps.Images == nil {
		logx.Info("  ℹ️  No image provider, using placeholder illustrations")
		return illustrator.PlaceholderIllustrator{Count: ai.ImageCount}
	}
	return illustrator.NewProviderIllustrator(deps.Images, deps.Files,
		illustrator.WithCount(ai.ImageCount),
		illustrator.WithModel(ai.ImageModel),
		illustrator.WithSize(ai.ImageSize),
		illustrator.WithTimeout(ai.RequestTimeout),
	)
}
