// Package illustrator produces cover and inline images for a draft. Image
// generation failures never fail a job: each failed image is replaced by a
// placeholder reference.
package illustrator

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/asyncx"
	"github.com/Abraxas-365/aiwriter/pkg/fsx"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

const (
	DefaultCount = 3
	DefaultSize  = "1536x1024"

	placeholderBase = "https://via.placeholder.com/1280x720/0a0a0f"
	contextChars    = 500
)

var placeholderColors = []string{"00f5ff", "b000ff", "ff00aa"}

// StylePlaceholder is the stand-in used when no image backend is configured.
func StylePlaceholder(i int) string {
	color := placeholderColors[i%len(placeholderColors)]
	return fmt.Sprintf("%s/%s?text=KAFKA+Style+%d", placeholderBase, color, i+1)
}

// FailedPlaceholder replaces image i when its generation failed.
func FailedPlaceholder(i int) string {
	return fmt.Sprintf("%s/%s?text=Image+%d", placeholderBase, placeholderColors[0], i+1)
}

// ============================================================================
// Placeholder illustrator
// ============================================================================

// PlaceholderIllustrator returns style placeholders only.
type PlaceholderIllustrator struct {
	Count int
}

var _ article.Illustrator = PlaceholderIllustrator{}

func (p PlaceholderIllustrator) Illustrate(_ context.Context, _ article.IllustrateRequest) ([]article.Illustration, error) {
	n := p.Count
	if n <= 0 {
		n = DefaultCount
	}
	out := make([]article.Illustration, n)
	for i := range out {
		out[i] = article.Illustration{URL: StylePlaceholder(i), Placeholder: true}
	}
	return out, nil
}

// ============================================================================
// Provider illustrator
// ============================================================================

// Store is where generated image bytes are written.
type Store interface {
	fsx.FileWriter
	fsx.URLResolver
}

type Options struct {
	Count   int
	Size    string
	Model   string
	Timeout time.Duration
}

type Option func(*Options)

func WithCount(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Count = n
		}
	}
}

func WithSize(size string) Option {
	return func(o *Options) {
		if size != "" {
			o.Size = size
		}
	}
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

// WithTimeout bounds each image call. Calls are also kept inside the
// deadline of the context passed to Illustrate.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// ProviderIllustrator generates images concurrently with an
// llm.ImageGenerator and stores inline image data under
// articles/<id>/images/.
type ProviderIllustrator struct {
	gen   llm.ImageGenerator
	store Store
	opts  Options
}

func NewProviderIllustrator(gen llm.ImageGenerator, store Store, options ...Option) *ProviderIllustrator {
	opts := Options{Count: DefaultCount, Size: DefaultSize}
	for _, o := range options {
		o(&opts)
	}
	return &ProviderIllustrator{gen: gen, store: store, opts: opts}
}

var _ article.Illustrator = (*ProviderIllustrator)(nil)

func (p *ProviderIllustrator) Illustrate(ctx context.Context, req article.IllustrateRequest) ([]article.Illustration, error) {
	prompts := Prompts(req.Topic, req.Draft.Markdown, p.opts.Count)

	timeout := p.callTimeout(ctx)
	calls := make([]func(context.Context) (string, error), len(prompts))
	for i, prompt := range prompts {
		calls[i] = func(ctx context.Context) (string, error) {
			return asyncx.WithTimeout(ctx, timeout, func(ctx context.Context) (string, error) {
				return p.generate(ctx, req.ArticleID, i, prompt)
			})
		}
	}

	results := asyncx.AllSettled(ctx, calls...)

	out := make([]article.Illustration, len(results))
	failed := 0
	for i, r := range results {
		if r.OK() && r.Value != "" {
			out[i] = article.Illustration{URL: r.Value, Prompt: prompts[i]}
			continue
		}
		failed++
		logx.WithError(r.Err).WithFields(logx.Fields{
			"article_id": req.ArticleID,
			"image":      i + 1,
		}).Warn("image generation failed, using placeholder")
		out[i] = article.Illustration{URL: FailedPlaceholder(i), Prompt: prompts[i], Placeholder: true}
	}

	logx.WithFields(logx.Fields{
		"article_id":   req.ArticleID,
		"images":       len(out),
		"placeholders": failed,
	}).Info("🎨 illustrations ready")
	return out, nil
}

// callTimeout is the per-image budget: the configured timeout, shortened to
// finish before the caller's deadline with a tenth of the remaining time to
// spare for building placeholders.
func (p *ProviderIllustrator) callTimeout(ctx context.Context) time.Duration {
	d := p.opts.Timeout
	deadline, ok := ctx.Deadline()
	if !ok {
		return d
	}
	remaining := time.Until(deadline)
	remaining -= remaining / 10
	if remaining <= 0 {
		return time.Nanosecond
	}
	if d <= 0 || remaining < d {
		return remaining
	}
	return d
}

func (p *ProviderIllustrator) generate(ctx context.Context, articleID string, i int, prompt string) (string, error) {
	img, err := p.gen.GenerateImage(ctx, prompt,
		llm.WithImageModel(p.opts.Model),
		llm.WithImageSize(p.opts.Size),
	)
	if err != nil {
		return "", err
	}
	if len(img.Data) == 0 {
		return img.URL, nil
	}

	name := path.Join("articles", articleID, "images", fmt.Sprintf("image-%d%s", i+1, fsx.ExtensionFor(img.MIMEType)))
	if err := p.store.WriteFile(ctx, name, img.Data, img.MIMEType); err != nil {
		return "", err
	}
	return p.store.URL(ctx, name)
}

var shotStyles = []string{
	"wide cover illustration",
	"conceptual diagram-like illustration",
	"closing atmospheric illustration",
}

// Prompts builds n image prompts from the topic and the opening of the draft.
func Prompts(topic, markdown string, n int) []string {
	excerpt := excerpt(markdown, contextChars)
	out := make([]string, n)
	for i := range out {
		style := shotStyles[i%len(shotStyles)]
		out[i] = fmt.Sprintf(
			"Dark neon tech aesthetic, deep navy background with cyan, violet and magenta light. %s for an article about %q. Context: %s. No text in the image.",
			style, topic, excerpt,
		)
	}
	return out
}

func excerpt(markdown string, limit int) string {
	replacer := strings.NewReplacer("#", "", "*", "", "`", "", "\n", " ")
	s := strings.Join(strings.Fields(replacer.Replace(markdown)), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
