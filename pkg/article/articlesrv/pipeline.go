package articlesrv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/asyncx"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

// Pipeline drives one article from pending to a terminal state. Each stage
// transition is persisted before the stage's work begins, so pollers always
// see the stage currently in progress.
type Pipeline struct {
	repo         article.Repository
	researcher   article.Researcher
	writer       article.ContentGenerator
	illustrator  article.Illustrator
	fallback     article.Illustrator
	integrator   article.Integrator
	notifier     article.Notifier
	stageTimeout time.Duration
	now          func() time.Time
}

type PipelineConfig struct {
	Repository  article.Repository
	Researcher  article.Researcher
	Writer      article.ContentGenerator
	Illustrator article.Illustrator
	// Fallback supplies images when Illustrator fails or overruns the stage
	// timeout. Without it the article is integrated with no images.
	Fallback     article.Illustrator
	Integrator   article.Integrator
	Notifier     article.Notifier
	StageTimeout time.Duration
	Now          func() time.Time
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		repo:         cfg.Repository,
		researcher:   cfg.Researcher,
		writer:       cfg.Writer,
		illustrator:  cfg.Illustrator,
		fallback:     cfg.Fallback,
		integrator:   cfg.Integrator,
		notifier:     cfg.Notifier,
		stageTimeout: cfg.StageTimeout,
		now:          now,
	}
}

// Run executes every stage for id. It never returns an error: failures are
// recorded on the article.
func (p *Pipeline) Run(ctx context.Context, id string) {
	log := logx.WithField("article_id", id)
	started := p.now()

	defer func() {
		if r := recover(); r != nil {
			p.fail(ctx, id, fmt.Errorf("pipeline panic: %v", r))
		}
		p.notify(ctx, id)
	}()

	a, err := p.repo.Get(ctx, id)
	if err != nil {
		log.WithError(err).Error("pipeline: cannot load article")
		return
	}

	if err := p.run(ctx, a, started); err != nil {
		log.WithError(err).Error("❌ article generation failed")
		p.fail(ctx, id, err)
		return
	}
	log.WithField("elapsed", p.now().Sub(started).String()).Info("✅ article generation completed")
}

func (p *Pipeline) run(ctx context.Context, a *article.Article, started time.Time) error {
	id := a.ID

	// researching
	if err := p.repo.UpdateStatus(ctx, id, article.Advance(article.StatusResearching)); err != nil {
		return err
	}
	research, err := stage(ctx, p.stageTimeout, article.StatusResearching, func(ctx context.Context) (article.Document, error) {
		return p.researcher.Research(ctx, a.Topic, a.Tier)
	})
	if err != nil {
		return err
	}

	// writing
	writing := article.Advance(article.StatusWriting)
	writing.ResearchData = research
	if err := p.repo.UpdateStatus(ctx, id, writing); err != nil {
		return err
	}
	draft, err := stage(ctx, p.stageTimeout, article.StatusWriting, func(ctx context.Context) (article.Draft, error) {
		return p.writer.Generate(ctx, article.GenerateRequest{
			Topic:    a.Topic,
			Tier:     a.Tier,
			Research: research,
		})
	})
	if err != nil {
		return err
	}

	// generating_images
	if err := p.repo.UpdateStatus(ctx, id, article.Advance(article.StatusGeneratingImages)); err != nil {
		return err
	}
	illustrate := article.IllustrateRequest{
		ArticleID: id,
		Topic:     a.Topic,
		Tier:      a.Tier,
		Draft:     draft,
	}
	images, err := stage(ctx, p.stageTimeout, article.StatusGeneratingImages, func(ctx context.Context) ([]article.Illustration, error) {
		return p.illustrator.Illustrate(ctx, illustrate)
	})
	if err != nil {
		logx.WithError(err).WithField("article_id", id).Warn("⚠️  illustration failed, using placeholders")
		images = p.placeholders(ctx, illustrate)
	}

	// integrating
	if err := p.repo.UpdateStatus(ctx, id, article.Advance(article.StatusIntegrating)); err != nil {
		return err
	}
	content, err := stage(ctx, p.stageTimeout, article.StatusIntegrating, func(ctx context.Context) (article.Content, error) {
		return p.integrator.Integrate(ctx, article.IntegrateRequest{
			ArticleID: id,
			Topic:     a.Topic,
			Tier:      a.Tier,
			Formats:   a.Formats,
			Draft:     draft,
			Images:    images,
		})
	})
	if err != nil {
		return err
	}

	// completed
	done := article.Complete(content, p.now())
	done.Metadata = runMetadata(draft, images, p.now().Sub(started))
	return p.repo.UpdateStatus(ctx, id, done)
}

// stage runs fn under the stage timeout and tags its error with the stage.
// A panicking provider fails the stage instead of the process.
func stage[T any](ctx context.Context, timeout time.Duration, st article.Status, fn func(context.Context) (T, error)) (T, error) {
	v, err := asyncx.WithTimeout(ctx, timeout, func(ctx context.Context) (v T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn(ctx)
	})
	if err == nil {
		return v, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return v, article.ErrStageTimeout(st, err)
	}
	return v, article.ErrProviderFailure(st, err)
}

// placeholders never fails the article: images are optional.
func (p *Pipeline) placeholders(ctx context.Context, req article.IllustrateRequest) []article.Illustration {
	if p.fallback == nil {
		return nil
	}
	images, err := p.fallback.Illustrate(ctx, req)
	if err != nil {
		logx.WithError(err).WithField("article_id", req.ArticleID).Warn("placeholder illustration failed")
		return nil
	}
	return images
}

func runMetadata(draft article.Draft, images []article.Illustration, elapsed time.Duration) article.Document {
	placeholders := 0
	for _, img := range images {
		if img.Placeholder {
			placeholders++
		}
	}
	return article.Document{
		"model":              draft.Model,
		"word_count":         draft.WordCount,
		"tokens_used":        draft.TokensUsed,
		"image_count":        len(images),
		"placeholder_images": placeholders,
		"duration_ms":        elapsed.Milliseconds(),
	}
}

// fail records err on the article. Progress keeps its last stage value.
func (p *Pipeline) fail(ctx context.Context, id string, cause error) {
	if err := p.repo.UpdateStatus(ctx, id, article.Fail(cause.Error())); err != nil {
		logx.WithError(err).WithField("article_id", id).Error("pipeline: cannot record failure")
	}
}

func (p *Pipeline) notify(ctx context.Context, id string) {
	if p.notifier == nil {
		return
	}
	a, err := p.repo.Get(ctx, id)
	if err != nil || !a.Status.IsTerminal() {
		return
	}
	if err := p.notifier.ArticleFinished(ctx, a); err != nil {
		logx.WithError(err).WithField("article_id", id).Warn("article notification failed")
	}
}
