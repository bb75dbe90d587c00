package article_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in    string
		want  article.Tier
		words int
	}{
		{"", article.TierB, 4000},
		{"a", article.TierA, 2500},
		{"B", article.TierB, 4000},
		{" c ", article.TierC, 6500},
		{"D", article.TierD, 10000},
	}
	for _, tt := range tests {
		got, err := article.ParseTier(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.words, got.TargetWords())
	}

	_, err := article.ParseTier("E")
	assert.True(t, errx.HasCode(err, article.CodeInvalidTier))
}

func TestParseFormats(t *testing.T) {
	got, err := article.ParseFormats(nil)
	require.NoError(t, err)
	assert.Equal(t, article.Formats{article.FormatMarkdown, article.FormatPDF}, got)

	got, err = article.ParseFormats([]string{"HTML", "xiaohongshu", "html"})
	require.NoError(t, err)
	assert.Equal(t, article.Formats{article.FormatHTML, article.FormatSocial}, got)
	assert.True(t, got.Produces(article.FormatMarkdown))
	assert.False(t, got.Produces(article.FormatPDF))

	_, err = article.ParseFormats([]string{"docx"})
	assert.True(t, errx.HasCode(err, article.CodeInvalidFormat))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, article.StatusPending.CanTransitionTo(article.StatusResearching))
	assert.True(t, article.StatusResearching.CanTransitionTo(article.StatusWriting))
	assert.True(t, article.StatusIntegrating.CanTransitionTo(article.StatusCompleted))
	assert.True(t, article.StatusWriting.CanTransitionTo(article.StatusFailed))

	assert.False(t, article.StatusPending.CanTransitionTo(article.StatusWriting))
	assert.False(t, article.StatusWriting.CanTransitionTo(article.StatusResearching))
	assert.False(t, article.StatusCompleted.CanTransitionTo(article.StatusFailed))
	assert.False(t, article.StatusFailed.CanTransitionTo(article.StatusResearching))

	p, ok := article.StatusGeneratingImages.Progress()
	assert.True(t, ok)
	assert.Equal(t, 70, p)
	_, ok = article.StatusFailed.Progress()
	assert.False(t, ok)
}

func TestNewArticleValidation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a, err := article.NewArticle(article.NewArticleParams{ID: "x1", Topic: "  Kafka internals  ", Now: now})
	require.NoError(t, err)
	assert.Equal(t, "Kafka internals", a.Topic)
	assert.Equal(t, article.TierB, a.Tier)
	assert.Equal(t, article.StatusPending, a.Status)
	assert.Equal(t, 0, a.Progress)
	assert.NoError(t, a.CheckConsistency())

	_, err = article.NewArticle(article.NewArticleParams{ID: "x2", Topic: "   "})
	assert.True(t, errx.HasCode(err, article.CodeInvalidTopic))

	_, err = article.NewArticle(article.NewArticleParams{ID: "x3", Topic: strings.Repeat("a", 256)})
	assert.True(t, errx.HasCode(err, article.CodeInvalidTopic))

	_, err = article.NewArticle(article.NewArticleParams{ID: "x4", Topic: strings.Repeat("字", 255)})
	assert.NoError(t, err)
}

func TestStatusUpdateApply(t *testing.T) {
	a, err := article.NewArticle(article.NewArticleParams{ID: "a1", Topic: "t"})
	require.NoError(t, err)

	require.NoError(t, article.Advance(article.StatusResearching).Apply(a))
	assert.Equal(t, 10, a.Progress)
	require.NoError(t, article.Advance(article.StatusWriting).Apply(a))
	assert.NoError(t, a.CheckConsistency())

	err = article.Advance(article.StatusCompleted).Apply(a)
	assert.True(t, errx.HasCode(err, article.CodeInvalidTransition))

	require.NoError(t, article.Fail("boom").Apply(a))
	assert.Equal(t, article.StatusFailed, a.Status)
	assert.Equal(t, 40, a.Progress)
	assert.NoError(t, a.CheckConsistency())

	err = article.Fail("again").Apply(a)
	assert.True(t, errx.HasCode(err, article.CodeInvalidTransition))
	assert.Equal(t, "boom", *a.Error)
}

func TestCheckConsistencyRejectsContentBeforeCompletion(t *testing.T) {
	a, err := article.NewArticle(article.NewArticleParams{ID: "a1", Topic: "t"})
	require.NoError(t, err)
	a.Content = &article.Content{Title: "t"}
	assert.Error(t, a.CheckConsistency())
}

func TestCloneIsDeep(t *testing.T) {
	a, err := article.NewArticle(article.NewArticleParams{ID: "a1", Topic: "t"})
	require.NoError(t, err)
	a.Metadata = article.Document{"model": "m"}
	a.Content = &article.Content{Images: []string{"x"}}

	cp := a.Clone()
	cp.Metadata["model"] = "other"
	cp.Content.Images[0] = "y"
	cp.Formats[0] = article.FormatHTML

	assert.Equal(t, "m", a.Metadata["model"])
	assert.Equal(t, "x", a.Content.Images[0])
	assert.Equal(t, article.FormatMarkdown, a.Formats[0])
}

func TestDocumentScan(t *testing.T) {
	var d article.Document
	require.NoError(t, d.Scan([]byte(`{"topic":"go"}`)))
	assert.Equal(t, "go", d["topic"])

	var f article.Formats
	require.NoError(t, f.Scan(`["markdown","html"]`))
	assert.Equal(t, article.Formats{article.FormatMarkdown, article.FormatHTML}, f)
}

func completedArticle(t *testing.T, formats []string) *article.Article {
	t.Helper()
	a, err := article.NewArticle(article.NewArticleParams{ID: "a1", Topic: "Go/Rust", Formats: formats})
	require.NoError(t, err)
	now := time.Now()
	a.Status = article.StatusCompleted
	a.Progress = 100
	a.CompletedAt = &now
	a.Content = &article.Content{Title: "Go", Markdown: "# Go", HTML: "<h1>Go</h1>", PDFURL: "http://x/a.pdf", Social: "✨ Go"}
	return a
}

func TestArtifact(t *testing.T) {
	a := completedArticle(t, []string{"markdown", "pdf"})

	md, err := a.Artifact("markdown")
	require.NoError(t, err)
	assert.Equal(t, "Go_Rust.md", md.Filename)
	assert.Equal(t, "text/markdown", md.ContentType)
	assert.Equal(t, "# Go", md.Content)

	pdf, err := a.Artifact("PDF")
	require.NoError(t, err)
	assert.Equal(t, "http://x/a.pdf", pdf.URL)
	assert.Empty(t, pdf.Content)

	_, err = a.Artifact("html")
	assert.True(t, errx.HasCode(err, article.CodeUnsupportedFormat))

	_, err = a.Artifact("docx")
	assert.True(t, errx.HasCode(err, article.CodeUnsupportedFormat))

	social := completedArticle(t, []string{"xiaohongshu"})
	art, err := social.Artifact("xiaohongshu")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", art.ContentType)
	assert.Equal(t, "Go_Rust_social.txt", art.Filename)
}

func TestArtifactNotReadyBeforeFormatCheck(t *testing.T) {
	a, err := article.NewArticle(article.NewArticleParams{ID: "a1", Topic: "t"})
	require.NoError(t, err)
	_, err = a.Artifact("docx")
	assert.True(t, errx.HasCode(err, article.CodeNotReady))
}
