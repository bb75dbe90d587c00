package articlesrv_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/article/articleinfra"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlemocks"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlesrv"
	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/Abraxas-365/aiwriter/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/aiwriter/pkg/illustrator"
	"github.com/Abraxas-365/aiwriter/pkg/integrator"
	"github.com/Abraxas-365/aiwriter/pkg/jobx"
)

// inlineSubmitter runs tasks synchronously on Submit.
type inlineSubmitter struct{}

func (inlineSubmitter) Submit(task jobx.Task) error {
	task.Run(context.Background())
	return nil
}

type rejectingSubmitter struct{}

func (rejectingSubmitter) Submit(jobx.Task) error { return errors.New("queue is full") }

// discardSubmitter accepts tasks and never runs them.
type discardSubmitter struct{}

func (discardSubmitter) Submit(jobx.Task) error { return nil }

type mocks struct {
	researcher  *articlemocks.MockResearcher
	writer      *articlemocks.MockContentGenerator
	illustrator *articlemocks.MockIllustrator
	integrator  *articlemocks.MockIntegrator
	notifier    *articlemocks.MockNotifier
}

func newMocks(t *testing.T) mocks {
	ctrl := gomock.NewController(t)
	return mocks{
		researcher:  articlemocks.NewMockResearcher(ctrl),
		writer:      articlemocks.NewMockContentGenerator(ctrl),
		illustrator: articlemocks.NewMockIllustrator(ctrl),
		integrator:  articlemocks.NewMockIntegrator(ctrl),
		notifier:    articlemocks.NewMockNotifier(ctrl),
	}
}

func (m mocks) pipeline(repo article.Repository, timeout time.Duration) *articlesrv.Pipeline {
	return articlesrv.NewPipeline(articlesrv.PipelineConfig{
		Repository:   repo,
		Researcher:   m.researcher,
		Writer:       m.writer,
		Illustrator:  m.illustrator,
		Fallback:     illustrator.PlaceholderIllustrator{Count: 2},
		Integrator:   m.integrator,
		Notifier:     m.notifier,
		StageTimeout: timeout,
	})
}

var (
	research = article.Document{"summary": "logs"}
	draft    = article.Draft{Title: "Kafka", Markdown: "Body", WordCount: 1, Model: "m"}
	images   = []article.Illustration{{URL: "https://img/1.png"}, {URL: "https://img/2.png", Placeholder: true}}
	content  = article.Content{Title: "Kafka", Markdown: "# Kafka\n\nBody", Images: []string{"https://img/1.png", "https://img/2.png"}}
)

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%03d", n.Add(1)) }
}

func TestCreateArticleRunsPipelineToCompletion(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	m := newMocks(t)

	gomock.InOrder(
		m.researcher.EXPECT().Research(gomock.Any(), "Kafka", article.TierB).Return(research, nil),
		m.writer.EXPECT().Generate(gomock.Any(), article.GenerateRequest{Topic: "Kafka", Tier: article.TierB, Research: research}).Return(draft, nil),
		m.illustrator.EXPECT().Illustrate(gomock.Any(), gomock.Any()).Return(images, nil),
		m.integrator.EXPECT().Integrate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req article.IntegrateRequest) (article.Content, error) {
				assert.Equal(t, article.Formats{article.FormatMarkdown, article.FormatPDF}, req.Formats)
				assert.Equal(t, images, req.Images)
				return content, nil
			}),
		m.notifier.EXPECT().ArticleFinished(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a *article.Article) error {
				assert.Equal(t, article.StatusCompleted, a.Status)
				return nil
			}),
	)

	svc := articlesrv.NewArticleService(repo, m.pipeline(repo, time.Second), inlineSubmitter{},
		articlesrv.WithIDGenerator(func() string { return "art-1" }))

	resp, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "  Kafka ", ClientIP: "1.2.3.4"})
	require.NoError(t, err)
	assert.Equal(t, "art-1", resp.ArticleID)
	assert.NotEmpty(t, resp.Message)

	status, err := svc.GetStatus(ctx, "art-1")
	require.NoError(t, err)
	assert.Equal(t, article.StatusCompleted, status.Status)
	assert.Equal(t, 100, status.Progress)
	require.NotNil(t, status.CompletedAt)

	a, err := svc.GetArticle(ctx, "art-1")
	require.NoError(t, err)
	require.NoError(t, a.CheckConsistency())
	assert.Equal(t, "1.2.3.4", a.ClientIP)
	assert.Equal(t, content.Markdown, a.Content.Markdown)
	assert.Equal(t, "logs", a.ResearchData["summary"])
	assert.Equal(t, "m", a.Metadata["model"])
	assert.EqualValues(t, 1, a.Metadata["placeholder_images"])
}

func TestCreateArticleValidation(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	svc := articlesrv.NewArticleService(repo, nil, discardSubmitter{})

	tests := []struct {
		name string
		req  article.CreateArticleRequest
		code *errx.ErrorCode
	}{
		{"empty topic", article.CreateArticleRequest{Topic: "  "}, article.CodeInvalidTopic},
		{"long topic", article.CreateArticleRequest{Topic: strings.Repeat("x", 256)}, article.CodeInvalidTopic},
		{"bad tier", article.CreateArticleRequest{Topic: "t", Tier: "Z"}, article.CodeInvalidTier},
		{"bad format", article.CreateArticleRequest{Topic: "t", Formats: []string{"docx"}}, article.CodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateArticle(ctx, tt.req)
			assert.True(t, errx.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, errx.TypeValidation, errx.TypeOf(err))
		})
	}

	list, err := svc.ListArticles(ctx, article.NewListArticlesRequest())
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestCreateArticleQueueFull(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	svc := articlesrv.NewArticleService(repo, nil, rejectingSubmitter{},
		articlesrv.WithIDGenerator(func() string { return "art-q" }))

	_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
	assert.True(t, errx.HasCode(err, article.CodeQueueFull))

	a, err := repo.Get(ctx, "art-q")
	require.NoError(t, err)
	assert.Equal(t, article.StatusFailed, a.Status)
	assert.NoError(t, a.CheckConsistency())
}

func TestPipelineFailureFreezesProgress(t *testing.T) {
	boom := errors.New("provider exploded")

	tests := []struct {
		name     string
		setup    func(m mocks)
		progress int
	}{
		{
			name: "research",
			setup: func(m mocks) {
				m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)
			},
			progress: 10,
		},
		{
			name: "writing",
			setup: func(m mocks) {
				m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).Return(research, nil)
				m.writer.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(article.Draft{}, boom)
			},
			progress: 40,
		},
		{
			name: "integration",
			setup: func(m mocks) {
				m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).Return(research, nil)
				m.writer.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(draft, nil)
				m.illustrator.EXPECT().Illustrate(gomock.Any(), gomock.Any()).Return(images, nil)
				m.integrator.EXPECT().Integrate(gomock.Any(), gomock.Any()).Return(article.Content{}, boom)
			},
			progress: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := articleinfra.NewMemoryStore()
			m := newMocks(t)
			tt.setup(m)
			m.notifier.EXPECT().ArticleFinished(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

			svc := articlesrv.NewArticleService(repo, m.pipeline(repo, 0), inlineSubmitter{},
				articlesrv.WithIDGenerator(func() string { return "art-f" }))
			_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
			require.NoError(t, err)

			a, err := repo.Get(ctx, "art-f")
			require.NoError(t, err)
			assert.Equal(t, article.StatusFailed, a.Status)
			assert.Equal(t, tt.progress, a.Progress)
			require.NotNil(t, a.Error)
			assert.Contains(t, *a.Error, "provider exploded")
			assert.Nil(t, a.Content)
			assert.NoError(t, a.CheckConsistency())

			_, err = svc.Download(ctx, "art-f", "markdown")
			assert.True(t, errx.HasCode(err, article.CodeNotReady))
		})
	}
}

// hangingGenerator blocks every image call until its context ends.
type hangingGenerator struct{ calls atomic.Int32 }

func (g *hangingGenerator) GenerateImage(ctx context.Context, _ string, _ ...llm.ImageOption) (llm.Image, error) {
	g.calls.Add(1)
	<-ctx.Done()
	return llm.Image{}, ctx.Err()
}

func TestPipelineIllustrationFailureUsesPlaceholders(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		setup        func(t *testing.T, m mocks) article.Illustrator
		placeholders int
	}{
		{
			name:    "provider error",
			timeout: time.Second,
			setup: func(_ *testing.T, m mocks) article.Illustrator {
				m.illustrator.EXPECT().Illustrate(gomock.Any(), gomock.Any()).Return(nil, errors.New("provider exploded"))
				return m.illustrator
			},
			placeholders: 2,
		},
		{
			name:    "provider panic",
			timeout: time.Second,
			setup: func(_ *testing.T, m mocks) article.Illustrator {
				m.illustrator.EXPECT().Illustrate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(context.Context, article.IllustrateRequest) ([]article.Illustration, error) {
						panic("nil image")
					})
				return m.illustrator
			},
			placeholders: 2,
		},
		{
			name:    "hung illustrator overruns the stage",
			timeout: 50 * time.Millisecond,
			setup: func(_ *testing.T, m mocks) article.Illustrator {
				m.illustrator.EXPECT().Illustrate(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, _ article.IllustrateRequest) ([]article.Illustration, error) {
						<-ctx.Done()
						return nil, ctx.Err()
					})
				return m.illustrator
			},
			placeholders: 2,
		},
		{
			name:    "hung image provider with per-image timeout equal to the stage timeout",
			timeout: 100 * time.Millisecond,
			setup: func(t *testing.T, _ mocks) article.Illustrator {
				store, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost:8080/files")
				require.NoError(t, err)
				return illustrator.NewProviderIllustrator(&hangingGenerator{}, store,
					illustrator.WithCount(3),
					illustrator.WithTimeout(100*time.Millisecond),
				)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := articleinfra.NewMemoryStore()
			m := newMocks(t)

			m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).Return(research, nil)
			m.writer.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(draft, nil)
			m.integrator.EXPECT().Integrate(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req article.IntegrateRequest) (article.Content, error) {
					assert.NotEmpty(t, req.Images)
					if tt.placeholders > 0 {
						assert.Len(t, req.Images, tt.placeholders)
					}
					for _, img := range req.Images {
						assert.True(t, img.Placeholder)
					}
					return content, nil
				})
			m.notifier.EXPECT().ArticleFinished(gomock.Any(), gomock.Any()).Return(nil)

			pipeline := articlesrv.NewPipeline(articlesrv.PipelineConfig{
				Repository:   repo,
				Researcher:   m.researcher,
				Writer:       m.writer,
				Illustrator:  tt.setup(t, m),
				Fallback:     illustrator.PlaceholderIllustrator{Count: 2},
				Integrator:   m.integrator,
				Notifier:     m.notifier,
				StageTimeout: tt.timeout,
			})
			svc := articlesrv.NewArticleService(repo, pipeline, inlineSubmitter{},
				articlesrv.WithIDGenerator(func() string { return "art-i" }))
			_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
			require.NoError(t, err)

			a, err := repo.Get(ctx, "art-i")
			require.NoError(t, err)
			assert.Equal(t, article.StatusCompleted, a.Status)
			assert.Equal(t, 100, a.Progress)
			assert.Nil(t, a.Error)
			assert.NoError(t, a.CheckConsistency())
		})
	}
}

func TestPipelineWithoutFallbackIntegratesNoImages(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	m := newMocks(t)

	m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).Return(research, nil)
	m.writer.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(draft, nil)
	m.illustrator.EXPECT().Illustrate(gomock.Any(), gomock.Any()).Return(nil, errors.New("provider exploded"))
	m.integrator.EXPECT().Integrate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req article.IntegrateRequest) (article.Content, error) {
			assert.Empty(t, req.Images)
			return content, nil
		})

	pipeline := articlesrv.NewPipeline(articlesrv.PipelineConfig{
		Repository:  repo,
		Researcher:  m.researcher,
		Writer:      m.writer,
		Illustrator: m.illustrator,
		Integrator:  m.integrator,
	})
	svc := articlesrv.NewArticleService(repo, pipeline, inlineSubmitter{},
		articlesrv.WithIDGenerator(func() string { return "art-n" }))
	_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
	require.NoError(t, err)

	a, err := repo.Get(ctx, "art-n")
	require.NoError(t, err)
	assert.Equal(t, article.StatusCompleted, a.Status)
}

func TestPipelineStageTimeout(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	m := newMocks(t)

	m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).Return(research, nil)
	m.writer.EXPECT().Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ article.GenerateRequest) (article.Draft, error) {
			<-ctx.Done()
			return article.Draft{}, ctx.Err()
		})
	m.notifier.EXPECT().ArticleFinished(gomock.Any(), gomock.Any()).Return(nil)

	svc := articlesrv.NewArticleService(repo, m.pipeline(repo, 30*time.Millisecond), inlineSubmitter{},
		articlesrv.WithIDGenerator(func() string { return "art-t" }))
	_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
	require.NoError(t, err)

	a, err := repo.Get(ctx, "art-t")
	require.NoError(t, err)
	assert.Equal(t, article.StatusFailed, a.Status)
	assert.Equal(t, 40, a.Progress)
	assert.Contains(t, *a.Error, article.CodeStageTimeout.Code)
}

func TestPipelineRecoversPanics(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	m := newMocks(t)

	m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, article.Tier) (article.Document, error) {
			panic("nil map")
		})
	m.notifier.EXPECT().ArticleFinished(gomock.Any(), gomock.Any()).Return(nil)

	svc := articlesrv.NewArticleService(repo, m.pipeline(repo, 0), inlineSubmitter{},
		articlesrv.WithIDGenerator(func() string { return "art-p" }))
	_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
	require.NoError(t, err)

	a, err := repo.Get(ctx, "art-p")
	require.NoError(t, err)
	assert.Equal(t, article.StatusFailed, a.Status)
	assert.Contains(t, *a.Error, "nil map")
}

func TestPipelineWithPlaceholderImagesAndRealIntegrator(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	m := newMocks(t)

	dir := t.TempDir()
	store, err := fsxlocal.NewLocalFileSystem(dir, "http://localhost:8080/files")
	require.NoError(t, err)

	m.researcher.EXPECT().Research(gomock.Any(), gomock.Any(), gomock.Any()).Return(research, nil)
	m.writer.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(article.Draft{Title: "Kafka", Markdown: "## Why\n\nBecause."}, nil)

	pipeline := articlesrv.NewPipeline(articlesrv.PipelineConfig{
		Repository:  repo,
		Researcher:  m.researcher,
		Writer:      m.writer,
		Illustrator: illustrator.PlaceholderIllustrator{},
		Integrator:  integrator.New(store, ""),
	})
	svc := articlesrv.NewArticleService(repo, pipeline, inlineSubmitter{},
		articlesrv.WithIDGenerator(func() string { return "art-r" }),
		articlesrv.WithFiles(store))

	_, err = svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "Kafka", Formats: []string{"markdown", "pdf", "html", "social"}})
	require.NoError(t, err)

	md, err := svc.Download(ctx, "art-r", "markdown")
	require.NoError(t, err)
	assert.Contains(t, md.Content, illustrator.StylePlaceholder(0))

	pdf, err := svc.Download(ctx, "art-r", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/articles/art-r/kafka.pdf", pdf.URL)

	html, err := svc.Download(ctx, "art-r", "html")
	require.NoError(t, err)
	assert.Contains(t, html.Content, "<h2>Why</h2>")

	social, err := svc.Download(ctx, "art-r", "xiaohongshu")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(social.Content, "✨ "))

	require.NoError(t, svc.DeleteArticle(ctx, "art-r"))
	_, err = os.Stat(filepath.Join(dir, "articles", "art-r"))
	assert.True(t, os.IsNotExist(err))
	_, err = svc.GetArticle(ctx, "art-r")
	assert.True(t, errx.HasCode(err, article.CodeNotFound))
}

func TestDownloadErrors(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	svc := articlesrv.NewArticleService(repo, nil, discardSubmitter{},
		articlesrv.WithIDGenerator(func() string { return "art-d" }))

	_, err := svc.Download(ctx, "missing", "markdown")
	assert.True(t, errx.HasCode(err, article.CodeNotFound))

	_, err = svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
	require.NoError(t, err)

	_, err = svc.Download(ctx, "art-d", "docx")
	assert.True(t, errx.HasCode(err, article.CodeNotReady))

	for _, st := range []article.Status{article.StatusResearching, article.StatusWriting, article.StatusGeneratingImages, article.StatusIntegrating} {
		require.NoError(t, repo.UpdateStatus(ctx, "art-d", article.Advance(st)))
	}
	require.NoError(t, repo.UpdateStatus(ctx, "art-d", article.Complete(content, time.Now())))

	_, err = svc.Download(ctx, "art-d", "docx")
	assert.True(t, errx.HasCode(err, article.CodeUnsupportedFormat))
	_, err = svc.Download(ctx, "art-d", "html")
	assert.True(t, errx.HasCode(err, article.CodeUnsupportedFormat))

	md, err := svc.Download(ctx, "art-d", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "t.md", md.Filename)
}

func TestListArticles(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := articlesrv.NewArticleService(repo, nil, discardSubmitter{},
		articlesrv.WithIDGenerator(sequentialIDs()),
		articlesrv.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}))

	for i := range 25 {
		_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: fmt.Sprintf("topic %d", i+1)})
		require.NoError(t, err)
	}

	resp, err := svc.ListArticles(ctx, article.ListArticlesRequest{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 3, resp.Pages)
	assert.True(t, resp.HasNext)
	require.Len(t, resp.Articles, 10)
	// Newest first: the 11th to 20th most recent.
	assert.Equal(t, "topic 15", resp.Articles[0].Topic)
	assert.Equal(t, "topic 6", resp.Articles[9].Topic)

	resp, err = svc.ListArticles(ctx, article.ListArticlesRequest{Page: 1, Limit: 20, Status: "completed"})
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Articles)
	assert.Empty(t, resp.Articles)
	assert.False(t, resp.HasNext)

	_, err = svc.ListArticles(ctx, article.ListArticlesRequest{Page: 0, Limit: 10})
	assert.True(t, errx.HasCode(err, article.CodeInvalidPagination))
	_, err = svc.ListArticles(ctx, article.ListArticlesRequest{Page: 1, Limit: 101})
	assert.True(t, errx.HasCode(err, article.CodeInvalidPagination))
	_, err = svc.ListArticles(ctx, article.ListArticlesRequest{Page: 1, Limit: 10, Status: "done"})
	assert.True(t, errx.HasCode(err, article.CodeInvalidStatus))
}

func TestDeleteMissingArticle(t *testing.T) {
	svc := articlesrv.NewArticleService(articleinfra.NewMemoryStore(), nil, discardSubmitter{})
	err := svc.DeleteArticle(context.Background(), "nope")
	assert.True(t, errx.HasCode(err, article.CodeNotFound))
}

func TestRecoverInterrupted(t *testing.T) {
	ctx := context.Background()
	repo := articleinfra.NewMemoryStore()
	svc := articlesrv.NewArticleService(repo, nil, discardSubmitter{},
		articlesrv.WithIDGenerator(sequentialIDs()))

	for range 3 {
		_, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "t"})
		require.NoError(t, err)
	}
	n, err := svc.RecoverInterrupted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	a, err := repo.Get(ctx, "id-001")
	require.NoError(t, err)
	assert.Equal(t, article.StatusFailed, a.Status)
}

// slow wraps each stage with a short sleep so pollers observe every state.
type slowStages struct{ delay time.Duration }

func (s slowStages) Research(ctx context.Context, topic string, _ article.Tier) (article.Document, error) {
	time.Sleep(s.delay)
	return article.Document{"topic": topic}, nil
}

func (s slowStages) Generate(ctx context.Context, req article.GenerateRequest) (article.Draft, error) {
	time.Sleep(s.delay)
	return article.Draft{Title: req.Topic, Markdown: "Body"}, nil
}

func (s slowStages) Illustrate(ctx context.Context, _ article.IllustrateRequest) ([]article.Illustration, error) {
	time.Sleep(s.delay)
	return []article.Illustration{{URL: illustrator.StylePlaceholder(0), Placeholder: true}}, nil
}

func (s slowStages) Integrate(ctx context.Context, req article.IntegrateRequest) (article.Content, error) {
	time.Sleep(s.delay)
	return article.Content{Title: req.Draft.Title, Markdown: req.Draft.Markdown, Images: article.ImageURLs(req.Images)}, nil
}

func TestConcurrentPollingObservesMonotonicProgress(t *testing.T) {
	repo := articleinfra.NewMemoryStore()
	stages := slowStages{delay: 5 * time.Millisecond}
	pipeline := articlesrv.NewPipeline(articlesrv.PipelineConfig{
		Repository:  repo,
		Researcher:  stages,
		Writer:      stages,
		Illustrator: stages,
		Integrator:  stages,
	})

	pool := jobx.NewPool(jobx.WithConcurrency(4), jobx.WithQueueSize(16))
	poolCtx, stop := context.WithCancel(context.Background())
	poolDone := make(chan struct{})
	go func() {
		defer close(poolDone)
		_ = pool.Start(poolCtx)
	}()
	defer func() {
		stop()
		<-poolDone
	}()

	svc := articlesrv.NewArticleService(repo, pipeline, pool, articlesrv.WithIDGenerator(sequentialIDs()))

	ctx := context.Background()
	var ids []string
	for range 4 {
		resp, err := svc.CreateArticle(ctx, article.CreateArticleRequest{Topic: "concurrent"})
		require.NoError(t, err)
		ids = append(ids, resp.ArticleID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				last := -1
				deadline := time.Now().Add(5 * time.Second)
				for time.Now().Before(deadline) {
					a, err := svc.GetArticle(ctx, id)
					if !assert.NoError(t, err) {
						return
					}
					if !assert.NoError(t, a.CheckConsistency()) {
						return
					}
					if !assert.GreaterOrEqual(t, a.Progress, last) {
						return
					}
					last = a.Progress
					if a.Status.IsTerminal() {
						assert.Equal(t, article.StatusCompleted, a.Status)
						return
					}
					time.Sleep(time.Millisecond)
				}
				t.Errorf("article %s did not finish", id)
			}()
		}
	}
	wg.Wait()
}
