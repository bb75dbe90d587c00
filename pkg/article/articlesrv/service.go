package articlesrv

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/Abraxas-365/aiwriter/pkg/fsx"
	"github.com/Abraxas-365/aiwriter/pkg/jobx"
	"github.com/Abraxas-365/aiwriter/pkg/kernel"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

const (
	pipelineTaskName = "article.pipeline"
	acceptedMessage  = "Article generation started"
	queueFullReason  = "generation queue is full"
)

// ArticleService is the query surface and the entry point for new jobs.
type ArticleService struct {
	repo     article.Repository
	pipeline *Pipeline
	jobs     jobx.Submitter
	files    fsx.FileDeleter
	newID    func() string
	now      func() time.Time
}

type ServiceOption func(*ArticleService)

// WithFiles removes stored artifacts when an article is deleted.
func WithFiles(files fsx.FileDeleter) ServiceOption {
	return func(s *ArticleService) { s.files = files }
}

func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *ArticleService) { s.newID = fn }
}

func WithClock(fn func() time.Time) ServiceOption {
	return func(s *ArticleService) { s.now = fn }
}

func NewArticleService(
	repo article.Repository,
	pipeline *Pipeline,
	jobs jobx.Submitter,
	opts ...ServiceOption,
) *ArticleService {
	s := &ArticleService{
		repo:     repo,
		pipeline: pipeline,
		jobs:     jobs,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateArticle validates the request, records a pending job and schedules
// the pipeline. It returns as soon as the job is recorded.
func (s *ArticleService) CreateArticle(ctx context.Context, req article.CreateArticleRequest) (*article.CreateArticleResponse, error) {
	a, err := article.NewArticle(article.NewArticleParams{
		ID:          s.newID(),
		Topic:       req.Topic,
		Tier:        req.Tier,
		Formats:     req.Formats,
		ClientIP:    req.ClientIP,
		Fingerprint: req.Fingerprint,
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	id := a.ID
	err = s.jobs.Submit(jobx.Task{
		Name: pipelineTaskName,
		Key:  id,
		Run: func(ctx context.Context) {
			s.pipeline.Run(ctx, id)
		},
	})
	if err != nil {
		// A job nobody will run must not stay pending.
		if uerr := s.repo.UpdateStatus(ctx, id, article.Fail(queueFullReason)); uerr != nil {
			logx.WithError(uerr).WithField("article_id", id).Error("cannot fail unscheduled article")
		}
		return nil, article.ErrQueueFull().WithCause(err).WithDetail("article_id", id)
	}

	logx.WithFields(logx.Fields{
		"article_id": id,
		"tier":       a.Tier,
		"formats":    a.Formats,
	}).Info("📝 article generation queued")

	return &article.CreateArticleResponse{
		ArticleID: id,
		Message:   acceptedMessage,
	}, nil
}

func (s *ArticleService) GetStatus(ctx context.Context, id string) (*article.StatusView, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := a.StatusView()
	return &view, nil
}

func (s *ArticleService) GetArticle(ctx context.Context, id string) (*article.Article, error) {
	return s.repo.Get(ctx, id)
}

func (s *ArticleService) ListArticles(ctx context.Context, req article.ListArticlesRequest) (*article.ListArticlesResponse, error) {
	opts := kernel.PaginationOptions{Page: req.Page, Limit: req.Limit}
	if !opts.Valid() {
		return nil, article.ErrInvalidPagination().
			WithDetail("page", req.Page).
			WithDetail("limit", req.Limit)
	}

	filter := article.ListFilter{PaginationOptions: opts}
	if req.Status != "" {
		st, err := article.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]article.Summary, 0, len(items))
	for _, a := range items {
		summaries = append(summaries, a.Summary())
	}
	return article.NewListArticlesResponse(kernel.NewPaginated(summaries, opts, total)), nil
}

// Download returns one rendering of a completed article.
func (s *ArticleService) Download(ctx context.Context, id, format string) (*article.Artifact, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	artifact, err := a.Artifact(format)
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

// DeleteArticle removes the record and, best effort, its stored files. A
// pipeline still running for it will fail on its next transition. Unknown
// ids are ARTICLE_NOT_FOUND, so a repeated DELETE answers 404; the
// repository's Delete stays idempotent underneath.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.files != nil {
		if err := s.files.DeleteDir(ctx, path.Join("articles", id)); err != nil {
			logx.WithError(err).WithField("article_id", id).Warn("cannot remove article files")
		}
	}
	logx.WithField("article_id", id).Info("🗑️  article deleted")
	return nil
}

// RecoverInterrupted fails jobs left unfinished by a previous process.
func (s *ArticleService) RecoverInterrupted(ctx context.Context) (int, error) {
	n, err := s.repo.FailStale(ctx, "interrupted by service restart")
	if err != nil {
		return 0, errx.Wrap(err, "failed to recover interrupted articles", errx.TypeInternal)
	}
	if n > 0 {
		logx.Warnf("marked %d interrupted articles as failed", n)
	}
	return n, nil
}
