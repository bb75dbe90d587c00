package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Abraxas-365/aiwriter/pkg/ai/llm"
	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

// StaticResearcher returns a fixed research skeleton without calling out.
type StaticResearcher struct{}

var _ article.Researcher = StaticResearcher{}

func (StaticResearcher) Research(_ context.Context, topic string, tier article.Tier) (article.Document, error) {
	return article.Document{
		"topic": topic,
		"tier":  string(tier),
		"web_results": []any{
			map[string]any{
				"title":   "About " + topic,
				"url":     "https://example.com/search?q=" + url.QueryEscape(topic),
				"snippet": "Background and recent developments on " + topic + ".",
			},
		},
		"community_results": []any{},
		"academic_results":  []any{},
	}, nil
}

const researchPrompt = `Collect research notes for an article about "%s" of about %d words.

Reply with a single JSON object with these keys:
- "summary": two or three sentences framing the topic
- "key_points": list of the facts and arguments the article should cover
- "angles": list of interesting perspectives or open questions
- "sources": list of {"title", "url"} a reader could check`

// LLMResearcher asks a chat model for structured research notes.
type LLMResearcher struct {
	client  llm.LLM
	model   string
	timeout time.Duration
}

func NewLLMResearcher(client llm.LLM, model string, timeout time.Duration) *LLMResearcher {
	return &LLMResearcher{client: client, model: model, timeout: timeout}
}

var _ article.Researcher = (*LLMResearcher)(nil)

func (r *LLMResearcher) Research(ctx context.Context, topic string, tier article.Tier) (article.Document, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logx.WithField("topic", topic).Info("🔎 researching topic")

	resp, err := r.client.Chat(ctx,
		[]llm.Message{llm.NewUserMessage(fmt.Sprintf(researchPrompt, topic, tier.TargetWords()))},
		llm.WithModel(r.model),
		llm.WithJSONMode(),
		llm.WithTemperature(0.3),
	)
	if err != nil {
		return nil, ErrResearchFailed(err).WithDetail("topic", topic)
	}

	doc := article.Document{}
	raw := strings.TrimSpace(resp.Message.Content)
	if err := json.Unmarshal([]byte(stripFence(raw)), &doc); err != nil {
		logx.WithError(err).WithField("topic", topic).Warn("research reply is not JSON, keeping raw notes")
		doc = article.Document{"notes": raw}
	}
	doc["topic"] = topic
	doc["tier"] = string(tier)
	return doc, nil
}

// stripFence removes a surrounding ```json fence if present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
