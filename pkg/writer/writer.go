// Package writer generates long-form article drafts and research notes
// with a chat model.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

const (
	DefaultMaxTokens   = 8192
	DefaultTemperature = 0.7
	DefaultTimeout     = 5 * time.Minute
)

const systemPrompt = `You are a senior technology columnist. You write in plain language,
explain hard ideas simply, speak in the first person with real insight,
and stay rational rather than sensational.`

const articlePrompt = `Using the research notes below, write an in-depth article about "%s".

Length: about %d words.

Principles:
1. Plain language: explain complex concepts accessibly.
2. Warmth: first person, with your own view.
3. Insight: dig into the mechanics and the trends.
4. Restraint: no hype, stay objective.

Research notes:
%s

Output:
- Markdown only
- Clear heading structure (# ## ###)
- One clear idea per paragraph
- Lists and quotes where they help
- An opening, a body and a conclusion`

type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

type Option func(*Options)

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxTokens = n
		}
	}
}

func WithTemperature(t float32) Option {
	return func(o *Options) { o.Temperature = t }
}

// WithTimeout bounds a single generation call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// Writer is an article.ContentGenerator backed by an llm.LLM.
type Writer struct {
	client llm.LLM
	opts   Options
}

func NewWriter(client llm.LLM, options ...Option) *Writer {
	opts := Options{
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
	for _, o := range options {
		o(&opts)
	}
	return &Writer{client: client, opts: opts}
}

var _ article.ContentGenerator = (*Writer)(nil)

func (w *Writer) Generate(ctx context.Context, req article.GenerateRequest) (article.Draft, error) {
	if w.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.Timeout)
		defer cancel()
	}

	target := req.Tier.TargetWords()
	logx.WithFields(logx.Fields{
		"topic":        req.Topic,
		"tier":         req.Tier,
		"target_words": target,
	}).Info("✍️  generating article")

	messages := []llm.Message{
		llm.NewSystemMessage(systemPrompt),
		llm.NewUserMessage(BuildPrompt(req.Topic, target, req.Research)),
	}

	resp, err := w.client.Chat(ctx, messages,
		llm.WithModel(w.opts.Model),
		llm.WithMaxTokens(w.opts.MaxTokens),
		llm.WithTemperature(w.opts.Temperature),
	)
	if err != nil {
		return article.Draft{}, ErrGenerationFailed(err).WithDetail("topic", req.Topic)
	}

	body := strings.TrimSpace(resp.Message.Content)
	if body == "" {
		return article.Draft{}, ErrEmptyDraft(req.Topic)
	}

	title, body := SplitTitle(body, req.Topic)
	return article.Draft{
		Title:      title,
		Markdown:   body,
		WordCount:  CountWords(body),
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// SplitTitle takes a leading "# " heading as the title and removes it from
// the body. Without one the fallback is the title and body is unchanged.
func SplitTitle(markdown, fallback string) (string, string) {
	first, rest, _ := strings.Cut(markdown, "\n")
	line := strings.TrimSpace(first)
	if !strings.HasPrefix(line, "# ") {
		return fallback, markdown
	}
	title := strings.TrimSpace(strings.TrimPrefix(line, "# "))
	if title == "" {
		return fallback, markdown
	}
	return title, strings.TrimSpace(rest)
}

// BuildPrompt renders the user prompt for a topic and word target.
func BuildPrompt(topic string, targetWords int, research article.Document) string {
	notes := "(none)"
	if len(research) > 0 {
		if b, err := json.MarshalIndent(research, "", "  "); err == nil {
			notes = string(b)
		}
	}
	return fmt.Sprintf(articlePrompt, topic, targetWords, notes)
}

// CountWords counts whitespace-separated words, with every CJK character
// counted as one word.
func CountWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		switch {
		case isCJK(r):
			n++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			inWord = false
		default:
			if !inWord {
				n++
				inWord = true
			}
		}
	}
	return n
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
