// Package articlenotify emails a summary when an article reaches a terminal
// state.
package articlenotify

import (
	"context"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/notifx"
)

const (
	templateCompleted = "article.completed"
	templateFailed    = "article.failed"
)

var templates = map[string]notifx.Template{
	templateCompleted: {
		Subject: `✅ Article ready: {{.Article.Topic}}`,
		Text: `"{{.Title}}" finished with {{.WordCount}} words.
Tier: {{.Article.Tier}}
Formats: {{.Formats}}
Status: {{.StatusURL}}
`,
		HTML: `<h2>{{.Title}}</h2>
<p>Finished with {{.WordCount}} words (tier {{.Article.Tier}}).</p>
<p>Formats: {{.Formats}}</p>
<p><a href="{{.StatusURL}}">View status</a></p>
`,
	},
	templateFailed: {
		Subject: `❌ Article failed: {{.Article.Topic}}`,
		Text: `Generation of "{{.Article.Topic}}" failed at {{.Article.Progress}}%.
Reason: {{.Reason}}
Status: {{.StatusURL}}
`,
	},
}

type view struct {
	Article   *article.Article
	Title     string
	WordCount int
	Formats   string
	Reason    string
	StatusURL string
}

// EmailNotifier implements article.Notifier on top of notifx.
type EmailNotifier struct {
	client     *notifx.Client
	recipients []string
	baseURL    string
}

// New registers the article templates on client. Without recipients the
// notifier is a no-op.
func New(client *notifx.Client, recipients []string, baseURL string) (*EmailNotifier, error) {
	for name, tmpl := range templates {
		if err := client.RegisterTemplate(name, tmpl); err != nil {
			return nil, err
		}
	}
	return &EmailNotifier{
		client:     client,
		recipients: recipients,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

var _ article.Notifier = (*EmailNotifier)(nil)

func (n *EmailNotifier) ArticleFinished(ctx context.Context, a *article.Article) error {
	if len(n.recipients) == 0 || !a.Status.IsTerminal() {
		return nil
	}

	v := view{
		Article:   a,
		Title:     a.Topic,
		Formats:   strings.Join(a.Formats.Strings(), ", "),
		StatusURL: n.baseURL + "/api/status/" + a.ID,
	}
	name := templateCompleted
	if a.Status == article.StatusFailed {
		name = templateFailed
		if a.Error != nil {
			v.Reason = *a.Error
		}
	} else if a.Content != nil {
		if a.Content.Title != "" {
			v.Title = a.Content.Title
		}
		v.WordCount = a.Content.WordCount
	}

	return n.client.SendTemplate(ctx, name, v, n.recipients,
		notifx.WithTags(map[string]string{
			"article_id": a.ID,
			"status":     string(a.Status),
		}))
}
