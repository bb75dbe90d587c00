// Package integrator assembles a draft and its illustrations into the
// deliverable formats: markdown, HTML, PDF and a plain-text social post.
package integrator

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/Abraxas-365/aiwriter/pkg/fsx"
	"github.com/Abraxas-365/aiwriter/pkg/logx"
)

const (
	coverAlt       = "cover"
	socialPrefix   = "✨ "
	socialImages   = "图片："
	socialHashtags = "#AI写作 #科技分享"
)

var ErrRegistry = errx.NewRegistry("INTEGRATOR")

var (
	CodeRenderFailed = ErrRegistry.Register("RENDER_FAILED", errx.TypeInternal, 0, "Failed to render article")
	CodeStoreFailed  = ErrRegistry.Register("STORE_FAILED", errx.TypeInternal, 0, "Failed to store rendered article")
)

// Store receives rendered binary artifacts.
type Store interface {
	fsx.FileWriter
	fsx.URLResolver
}

// Integrator implements article.Integrator.
type Integrator struct {
	store Store
	md    goldmark.Markdown
	pdf   *PDFRenderer
}

// New returns an Integrator writing PDFs to store. fontPath is an optional
// TTF font for PDF output; without it only Latin-1 text renders.
func New(store Store, fontPath string) *Integrator {
	return &Integrator{
		store: store,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		pdf:   NewPDFRenderer(fontPath),
	}
}

var _ article.Integrator = (*Integrator)(nil)

func (in *Integrator) Integrate(ctx context.Context, req article.IntegrateRequest) (article.Content, error) {
	title := req.Draft.Title
	if title == "" {
		title = req.Topic
	}

	markdown := ComposeMarkdown(title, req.Draft.Markdown, article.ImageURLs(req.Images))
	content := article.Content{
		Title:     title,
		Markdown:  markdown,
		Images:    article.ImageURLs(req.Images),
		WordCount: req.Draft.WordCount,
	}

	if req.Formats.Produces(article.FormatHTML) {
		doc, err := in.RenderHTML(title, markdown)
		if err != nil {
			return article.Content{}, err
		}
		content.HTML = doc
	}

	if req.Formats.Produces(article.FormatSocial) {
		content.Social = SocialPost(markdown, content.Images)
	}

	if req.Formats.Produces(article.FormatPDF) {
		url, err := in.storePDF(ctx, req.ArticleID, title, markdown)
		if err != nil {
			return article.Content{}, err
		}
		content.PDFURL = url
	}

	logx.WithFields(logx.Fields{
		"article_id": req.ArticleID,
		"formats":    req.Formats,
	}).Info("📦 article integrated")
	return content, nil
}

func (in *Integrator) storePDF(ctx context.Context, articleID, title, markdown string) (string, error) {
	data, err := in.pdf.Render(title, markdown)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeRenderFailed, err).WithDetail("format", article.FormatPDF)
	}
	name := path.Join("articles", articleID, Slug(title)+".pdf")
	if err := in.store.WriteFile(ctx, name, data, "application/pdf"); err != nil {
		return "", ErrRegistry.NewWithCause(CodeStoreFailed, err).WithDetail("path", name)
	}
	url, err := in.store.URL(ctx, name)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeStoreFailed, err).WithDetail("path", name)
	}
	return url, nil
}

// ComposeMarkdown puts the title and cover image on top and spreads the
// remaining images before later second-level sections, or at the end when
// there are not enough sections.
func ComposeMarkdown(title, body string, images []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(images) > 0 {
		fmt.Fprintf(&b, "![%s](%s)\n\n", coverAlt, images[0])
	}

	rest := images
	if len(rest) > 0 {
		rest = rest[1:]
	}

	lines := strings.Split(strings.TrimSpace(body), "\n")
	sections := 0
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}
		if !inFence && strings.HasPrefix(trimmed, "## ") {
			sections++
			if sections > 1 && len(rest) > 0 {
				fmt.Fprintf(&b, "![illustration](%s)\n\n", rest[0])
				rest = rest[1:]
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, img := range rest {
		fmt.Fprintf(&b, "\n![illustration](%s)\n", img)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

const htmlDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { max-width: 760px; margin: 2rem auto; padding: 0 1rem; font-family: -apple-system, "Segoe UI", "PingFang SC", sans-serif; line-height: 1.7; color: #1d1d1f; }
img { max-width: 100%%; border-radius: 8px; }
pre { background: #0a0a0f; color: #e6e6e6; padding: 1rem; overflow-x: auto; }
blockquote { border-left: 4px solid #00f5ff; margin: 0; padding-left: 1rem; color: #555; }
</style>
</head>
<body>
<article>
%s</article>
</body>
</html>
`

// RenderHTML converts markdown to a standalone HTML document.
func (in *Integrator) RenderHTML(title, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := in.md.Convert([]byte(markdown), &buf); err != nil {
		return "", ErrRegistry.NewWithCause(CodeRenderFailed, err).WithDetail("format", article.FormatHTML)
	}
	return fmt.Sprintf(htmlDocument, html.EscapeString(title), buf.String()), nil
}

// SocialPost flattens markdown for short-form social platforms.
func SocialPost(markdown string, images []string) string {
	replacer := strings.NewReplacer("```", "", "#", "", "*", "")
	var b strings.Builder
	b.WriteString(socialPrefix)
	b.WriteString(strings.TrimSpace(replacer.Replace(markdown)))
	if len(images) > 0 {
		b.WriteString("\n\n" + socialImages + "\n")
		b.WriteString(strings.Join(images, "\n"))
	}
	b.WriteString("\n\n" + socialHashtags)
	return b.String()
}

// Slug turns a title into a file name stem.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if b.Len() >= 80 {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "article"
	}
	return s
}
