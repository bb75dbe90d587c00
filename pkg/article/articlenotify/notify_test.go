package articlenotify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlenotify"
	"github.com/Abraxas-365/aiwriter/pkg/notifx"
	"github.com/Abraxas-365/aiwriter/pkg/ptrx"
)

type captureSender struct {
	sent []notifx.Message
	tags []map[string]string
}

func (s *captureSender) Send(_ context.Context, msg notifx.Message, opts ...notifx.Option) error {
	s.sent = append(s.sent, msg)
	s.tags = append(s.tags, notifx.ApplyOptions(opts).Tags)
	return nil
}

func newArticle(t *testing.T) *article.Article {
	t.Helper()
	a, err := article.NewArticle(article.NewArticleParams{ID: "a1", Topic: "Kafka", Formats: []string{"markdown", "html"}})
	require.NoError(t, err)
	return a
}

func TestCompletedNotification(t *testing.T) {
	sender := &captureSender{}
	n, err := articlenotify.New(notifx.NewClient(sender, "noreply@example.com"), []string{"ops@example.com"}, "http://localhost:8080/")
	require.NoError(t, err)

	a := newArticle(t)
	a.Status = article.StatusCompleted
	a.Progress = 100
	a.CompletedAt = ptrx.Time(time.Now())
	a.Content = &article.Content{Title: "Kafka Streams", WordCount: 4100}

	require.NoError(t, n.ArticleFinished(context.Background(), a))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "✅ Article ready: Kafka", msg.Subject)
	assert.Contains(t, msg.TextBody, `"Kafka Streams" finished with 4100 words.`)
	assert.Contains(t, msg.TextBody, "Formats: markdown, html")
	assert.Contains(t, msg.TextBody, "http://localhost:8080/api/status/a1")
	assert.NotEmpty(t, msg.HTMLBody)
	assert.Equal(t, "completed", sender.tags[0]["status"])
}

func TestFailedNotification(t *testing.T) {
	sender := &captureSender{}
	n, err := articlenotify.New(notifx.NewClient(sender, "noreply@example.com"), []string{"ops@example.com"}, "")
	require.NoError(t, err)

	a := newArticle(t)
	a.Status = article.StatusFailed
	a.Progress = 40
	a.Error = ptrx.String("writer timed out")

	require.NoError(t, n.ArticleFinished(context.Background(), a))
	msg := sender.sent[0]
	assert.Equal(t, "❌ Article failed: Kafka", msg.Subject)
	assert.Contains(t, msg.TextBody, "failed at 40%")
	assert.Contains(t, msg.TextBody, "Reason: writer timed out")
	assert.Empty(t, msg.HTMLBody)
}

func TestNoRecipientsOrNonTerminal(t *testing.T) {
	sender := &captureSender{}
	n, err := articlenotify.New(notifx.NewClient(sender, "x@example.com"), nil, "")
	require.NoError(t, err)

	a := newArticle(t)
	a.Status = article.StatusFailed
	require.NoError(t, n.ArticleFinished(context.Background(), a))

	n, err = articlenotify.New(notifx.NewClient(sender, "x@example.com"), []string{"ops@example.com"}, "")
	require.NoError(t, err)
	require.NoError(t, n.ArticleFinished(context.Background(), newArticle(t)))

	assert.Empty(t, sender.sent)
}
