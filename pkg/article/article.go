// Package article holds the generation job record and the ports the
// pipeline drives to turn a topic into a finished multi-format article.
package article

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Abraxas-365/aiwriter/pkg/ptrx"
)

const MaxTopicLength = 255

// ============================================================================
// Status
// ============================================================================

type Status string

const (
	StatusPending          Status = "pending"
	StatusResearching      Status = "researching"
	StatusWriting          Status = "writing"
	StatusGeneratingImages Status = "generating_images"
	StatusIntegrating      Status = "integrating"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
)

// stageOrder is the forward path through the pipeline.
var stageOrder = []Status{
	StatusPending,
	StatusResearching,
	StatusWriting,
	StatusGeneratingImages,
	StatusIntegrating,
	StatusCompleted,
}

var stageProgress = map[Status]int{
	StatusPending:          0,
	StatusResearching:      10,
	StatusWriting:          40,
	StatusGeneratingImages: 70,
	StatusIntegrating:      90,
	StatusCompleted:        100,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidStatus().WithDetail("status", s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	if s == StatusFailed {
		return true
	}
	_, ok := stageProgress[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress is the percentage reported on entering s. Failed has no
// progress of its own; the last stage value is kept.
func (s Status) Progress() (int, bool) {
	p, ok := stageProgress[s]
	return p, ok
}

func (s Status) index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransitionTo allows one step forward, or failed from any
// non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() || !next.IsValid() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	i := s.index()
	return i >= 0 && i+1 < len(stageOrder) && stageOrder[i+1] == next
}

// ============================================================================
// Tier
// ============================================================================

type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"

	DefaultTier = TierB
)

var tierWords = map[Tier]int{
	TierA: 2500,
	TierB: 4000,
	TierC: 6500,
	TierD: 10000,
}

// ParseTier accepts A-D case-insensitively. Empty input yields DefaultTier.
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTier, nil
	}
	t := Tier(strings.ToUpper(s))
	if _, ok := tierWords[t]; !ok {
		return "", ErrInvalidTier().WithDetail("tier", s)
	}
	return t, nil
}

// TargetWords is the approximate length the writer aims for.
func (t Tier) TargetWords() int {
	return tierWords[t]
}

// ============================================================================
// Format
// ============================================================================

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatSocial   Format = "social"
)

var formatAliases = map[string]Format{
	"markdown":    FormatMarkdown,
	"md":          FormatMarkdown,
	"pdf":         FormatPDF,
	"html":        FormatHTML,
	"social":      FormatSocial,
	"xiaohongshu": FormatSocial,
}

// DefaultFormats is used when a request names none.
func DefaultFormats() Formats {
	return Formats{FormatMarkdown, FormatPDF}
}

func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrUnsupportedFormat(s)
	}
	return f, nil
}

// Formats is an ordered, de-duplicated set of output formats.
type Formats []Format

// ParseFormats validates every entry. A nil or empty list yields the defaults.
func ParseFormats(values []string) (Formats, error) {
	if len(values) == 0 {
		return DefaultFormats(), nil
	}
	out := make(Formats, 0, len(values))
	for _, v := range values {
		f, ok := formatAliases[strings.ToLower(strings.TrimSpace(v))]
		if !ok {
			return nil, ErrInvalidFormat().WithDetail("format", v)
		}
		if !out.Contains(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (fs Formats) Contains(f Format) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

func (fs Formats) Strings() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

// Produces reports whether a job with these formats yields f. Markdown is
// always produced.
func (fs Formats) Produces(f Format) bool {
	return f == FormatMarkdown || fs.Contains(f)
}

func (fs Formats) Value() (driver.Value, error) {
	return jsonValue(fs)
}

func (fs *Formats) Scan(src any) error {
	return jsonScan(src, fs)
}

// ============================================================================
// Content and blobs
// ============================================================================

// Content is the finished article in every rendered format.
type Content struct {
	Title     string   `json:"title"`
	Markdown  string   `json:"markdown"`
	Images    []string `json:"images"`
	HTML      string   `json:"html,omitempty"`
	PDFURL    string   `json:"pdf_url,omitempty"`
	Social    string   `json:"social,omitempty"`
	WordCount int      `json:"word_count"`
}

func (c Content) Value() (driver.Value, error) {
	return jsonValue(c)
}

func (c *Content) Scan(src any) error {
	return jsonScan(src, c)
}

// Document is a schema-less JSON object, used for research notes and
// run metadata.
type Document map[string]any

func (d Document) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return jsonValue(d)
}

func (d *Document) Scan(src any) error {
	return jsonScan(src, d)
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("article: cannot scan %T into %T", src, dst)
	}
}

// ============================================================================
// Article
// ============================================================================

// Article is one generation job and, once completed, its output.
type Article struct {
	ID           string     `json:"id"`
	Topic        string     `json:"topic"`
	Tier         Tier       `json:"tier"`
	Formats      Formats    `json:"formats"`
	Status       Status     `json:"status"`
	Progress     int        `json:"progress"`
	Content      *Content   `json:"content,omitempty"`
	ResearchData Document   `json:"research_data,omitempty"`
	Metadata     Document   `json:"metadata,omitempty"`
	Error        *string    `json:"error,omitempty"`
	ClientIP     string     `json:"-"`
	Fingerprint  string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// NewArticleParams is the validated input to NewArticle.
type NewArticleParams struct {
	ID          string
	Topic       string
	Tier        string
	Formats     []string
	ClientIP    string
	Fingerprint string
	Now         time.Time
}

// NewArticle validates the request and returns a pending job.
func NewArticle(p NewArticleParams) (*Article, error) {
	topic, err := NormalizeTopic(p.Topic)
	if err != nil {
		return nil, err
	}
	tier, err := ParseTier(p.Tier)
	if err != nil {
		return nil, err
	}
	formats, err := ParseFormats(p.Formats)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, ErrInvalidID()
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Article{
		ID:          p.ID,
		Topic:       topic,
		Tier:        tier,
		Formats:     formats,
		Status:      StatusPending,
		Progress:    0,
		ClientIP:    p.ClientIP,
		Fingerprint: p.Fingerprint,
		CreatedAt:   now.UTC(),
	}, nil
}

// NormalizeTopic trims the topic and enforces 1..MaxTopicLength characters.
func NormalizeTopic(topic string) (string, error) {
	t := strings.TrimSpace(topic)
	if t == "" {
		return "", ErrInvalidTopic().WithDetail("reason", "topic is required")
	}
	if utf8.RuneCountInString(t) > MaxTopicLength {
		return "", ErrInvalidTopic().
			WithDetail("reason", "topic is too long").
			WithDetail("max_length", MaxTopicLength)
	}
	return t, nil
}

func (a *Article) IsCompleted() bool { return a.Status == StatusCompleted }

// Clone returns a deep copy safe to hand across goroutines.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Formats = append(Formats(nil), a.Formats...)
	if a.Content != nil {
		c := *a.Content
		c.Images = append([]string(nil), a.Content.Images...)
		cp.Content = &c
	}
	cp.ResearchData = cloneDocument(a.ResearchData)
	cp.Metadata = cloneDocument(a.Metadata)
	if a.Error != nil {
		cp.Error = ptrx.String(*a.Error)
	}
	if a.CompletedAt != nil {
		cp.CompletedAt = ptrx.Ptr(*a.CompletedAt)
	}
	return &cp
}

func cloneDocument(d Document) Document {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		out := make(Document, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	}
	var out Document
	_ = json.Unmarshal(b, &out)
	return out
}

// CheckConsistency verifies the record invariants an observer relies on.
func (a *Article) CheckConsistency() error {
	if !a.Status.IsValid() {
		return fmt.Errorf("unknown status %q", a.Status)
	}
	if a.Progress < 0 || a.Progress > 100 {
		return fmt.Errorf("progress %d out of range", a.Progress)
	}
	if want, ok := a.Status.Progress(); ok && a.Progress != want {
		return fmt.Errorf("status %s reports progress %d, want %d", a.Status, a.Progress, want)
	}
	if (a.Content != nil) != (a.Status == StatusCompleted) {
		return fmt.Errorf("status %s with content present=%t", a.Status, a.Content != nil)
	}
	if (a.Error != nil) != (a.Status == StatusFailed) {
		return fmt.Errorf("status %s with error present=%t", a.Status, a.Error != nil)
	}
	if (a.CompletedAt != nil) != (a.Status == StatusCompleted) {
		return fmt.Errorf("status %s with completed_at present=%t", a.Status, a.CompletedAt != nil)
	}
	if a.CompletedAt != nil && a.CompletedAt.Before(a.CreatedAt) {
		return fmt.Errorf("completed_at before created_at")
	}
	return nil
}

// ============================================================================
// Views
// ============================================================================

// StatusView is the polling projection of an article.
type StatusView struct {
	ID          string     `json:"id"`
	Topic       string     `json:"topic"`
	Tier        Tier       `json:"tier"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (a *Article) StatusView() StatusView {
	return StatusView{
		ID:          a.ID,
		Topic:       a.Topic,
		Tier:        a.Tier,
		Status:      a.Status,
		Progress:    a.Progress,
		Error:       a.Error,
		CreatedAt:   a.CreatedAt,
		CompletedAt: a.CompletedAt,
	}
}

// Summary is the listing projection of an article.
type Summary struct {
	ID          string     `json:"id"`
	Topic       string     `json:"topic"`
	Tier        Tier       `json:"tier"`
	Formats     Formats    `json:"formats"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	Title       string     `json:"title,omitempty"`
	WordCount   int        `json:"word_count,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (a *Article) Summary() Summary {
	s := Summary{
		ID:          a.ID,
		Topic:       a.Topic,
		Tier:        a.Tier,
		Formats:     a.Formats,
		Status:      a.Status,
		Progress:    a.Progress,
		Error:       a.Error,
		CreatedAt:   a.CreatedAt,
		CompletedAt: a.CompletedAt,
	}
	if a.Content != nil {
		s.Title = a.Content.Title
		s.WordCount = a.Content.WordCount
	}
	return s
}

// ============================================================================
// Downloads
// ============================================================================

// Artifact returns the rendering of a completed article in format. The
// checks run in order: completion, then format.
func (a *Article) Artifact(format string) (Artifact, error) {
	if !a.IsCompleted() || a.Content == nil {
		return Artifact{}, ErrNotReady(a.ID, a.Status)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return Artifact{}, err
	}
	if !a.Formats.Produces(f) {
		return Artifact{}, ErrUnsupportedFormat(format).WithDetail("reason", "format was not requested")
	}

	c := a.Content
	switch f {
	case FormatMarkdown:
		return Artifact{Filename: a.Filename(".md"), ContentType: "text/markdown", Content: c.Markdown}, nil
	case FormatHTML:
		return Artifact{Filename: a.Filename(".html"), ContentType: "text/html", Content: c.HTML}, nil
	case FormatSocial:
		return Artifact{Filename: a.Filename("_social.txt"), ContentType: "text/plain", Content: c.Social}, nil
	case FormatPDF:
		if c.PDFURL == "" {
			return Artifact{}, ErrUnsupportedFormat(format).WithDetail("reason", "pdf was not rendered")
		}
		return Artifact{Filename: a.Filename(".pdf"), ContentType: "application/pdf", URL: c.PDFURL}, nil
	}
	return Artifact{}, ErrUnsupportedFormat(format)
}

// Filename is the topic made safe for a Content-Disposition header, with
// suffix appended.
func (a *Article) Filename(suffix string) string {
	var b strings.Builder
	for _, r := range a.Topic {
		switch {
		case r < 0x20 || r == 0x7f:
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = a.ID
	}
	return name + suffix
}
