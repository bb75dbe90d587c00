package article

//go:generate mockgen -source=port.go -destination=articlemocks/mocks.go -package=articlemocks

import (
	"context"
	"time"

	"github.com/Abraxas-365/aiwriter/pkg/kernel"
	"github.com/Abraxas-365/aiwriter/pkg/ptrx"
)

// ============================================================================
// Persistence
// ============================================================================

// StatusUpdate is a partial update applied atomically. Nil fields are left
// untouched.
type StatusUpdate struct {
	Status       *Status
	Progress     *int
	CompletedAt  *time.Time
	Error        *string
	Content      *Content
	ResearchData Document
	Metadata     Document
}

// Advance moves to next and sets its stage progress.
func Advance(next Status) StatusUpdate {
	u := StatusUpdate{Status: &next}
	if p, ok := next.Progress(); ok {
		u.Progress = &p
	}
	return u
}

// Fail marks the job failed with reason. Progress is left as it was.
func Fail(reason string) StatusUpdate {
	return StatusUpdate{Status: ptrx.Ptr(StatusFailed), Error: &reason}
}

// Complete finishes the job, writing content and timestamp with the status.
func Complete(content Content, at time.Time) StatusUpdate {
	u := Advance(StatusCompleted)
	u.CompletedAt = ptrx.Time(at)
	u.Content = &content
	return u
}

// Apply validates u against the current record and applies it in place.
// Stores call it inside their critical section.
func (u StatusUpdate) Apply(a *Article) error {
	if a.Status.IsTerminal() {
		to := a.Status
		if u.Status != nil {
			to = *u.Status
		}
		return ErrInvalidTransition(a.ID, a.Status, to)
	}
	if u.Status != nil && *u.Status != a.Status {
		if !a.Status.CanTransitionTo(*u.Status) {
			return ErrInvalidTransition(a.ID, a.Status, *u.Status)
		}
		a.Status = *u.Status
	}
	if u.Progress != nil {
		a.Progress = *u.Progress
	}
	if u.CompletedAt != nil {
		a.CompletedAt = ptrx.Ptr(*u.CompletedAt)
	}
	if u.Error != nil {
		a.Error = ptrx.String(*u.Error)
	}
	if u.Content != nil {
		c := *u.Content
		a.Content = &c
	}
	if u.ResearchData != nil {
		a.ResearchData = u.ResearchData
	}
	if u.Metadata != nil {
		a.Metadata = u.Metadata
	}
	return nil
}

// ListFilter selects a page of articles, newest first.
type ListFilter struct {
	kernel.PaginationOptions
	Status *Status
}

// Repository is the durable job record store. Every method is safe for
// concurrent use and each write is atomic with respect to readers.
type Repository interface {
	// Create stores a new record; a duplicate id is ARTICLE_DUPLICATE_ID.
	Create(ctx context.Context, a *Article) error
	Get(ctx context.Context, id string) (*Article, error)
	UpdateStatus(ctx context.Context, id string, update StatusUpdate) error
	// SaveContent replaces the rendered content of a completed article.
	SaveContent(ctx context.Context, id string, content Content) error
	List(ctx context.Context, filter ListFilter) ([]*Article, int, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	// FailStale marks every non-terminal record failed with reason and
	// returns how many were changed.
	FailStale(ctx context.Context, reason string) (int, error)
}

// ============================================================================
// Capabilities
// ============================================================================

// Researcher gathers background material for a topic.
type Researcher interface {
	Research(ctx context.Context, topic string, tier Tier) (Document, error)
}

// GenerateRequest is the input to a ContentGenerator.
type GenerateRequest struct {
	Topic    string
	Tier     Tier
	Research Document
}

// Draft is generated long-form markdown.
type Draft struct {
	Title      string
	Markdown   string
	WordCount  int
	Model      string
	TokensUsed int
}

// ContentGenerator writes the article body.
type ContentGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (Draft, error)
}

// IllustrateRequest is the input to an Illustrator.
type IllustrateRequest struct {
	ArticleID string
	Topic     string
	Tier      Tier
	Draft     Draft
}

// Illustration is one image reference. Placeholder is set when the image
// is a stand-in for a failed generation.
type Illustration struct {
	URL         string `json:"url"`
	Prompt      string `json:"prompt,omitempty"`
	Placeholder bool   `json:"placeholder"`
}

// Illustrator produces image references for a draft. It degrades to
// placeholders instead of failing the job.
type Illustrator interface {
	Illustrate(ctx context.Context, req IllustrateRequest) ([]Illustration, error)
}

// IntegrateRequest is the input to an Integrator.
type IntegrateRequest struct {
	ArticleID string
	Topic     string
	Tier      Tier
	Formats   Formats
	Draft     Draft
	Images    []Illustration
}

// Integrator renders the draft and images into the requested formats.
type Integrator interface {
	Integrate(ctx context.Context, req IntegrateRequest) (Content, error)
}

// Notifier is told when a job reaches a terminal state.
type Notifier interface {
	ArticleFinished(ctx context.Context, a *Article) error
}

// ImageURLs flattens illustrations to their URLs.
func ImageURLs(images []Illustration) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, img.URL)
	}
	return out
}
