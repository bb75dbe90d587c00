package article

import "github.com/Abraxas-365/aiwriter/pkg/kernel"

// CreateArticleRequest is the body of a generation request.
type CreateArticleRequest struct {
	Topic   string   `json:"topic"`
	Tier    string   `json:"tier"`
	Formats []string `json:"formats"`

	// Set by the transport, never read from the body.
	ClientIP    string `json:"-"`
	Fingerprint string `json:"-"`
}

type CreateArticleResponse struct {
	ArticleID string `json:"article_id"`
	Message   string `json:"message"`
}

// ListArticlesRequest selects a page of articles. Use NewListArticlesRequest
// for defaults.
type ListArticlesRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status"`
}

func NewListArticlesRequest() ListArticlesRequest {
	return ListArticlesRequest{Page: 1, Limit: kernel.DefaultPageSize}
}

type ListArticlesResponse struct {
	Articles []Summary `json:"articles"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
	Pages    int       `json:"pages"`
	HasNext  bool      `json:"has_next"`
}

// NewListArticlesResponse flattens a page of summaries into the list body.
func NewListArticlesResponse(p kernel.Paginated[Summary]) *ListArticlesResponse {
	return &ListArticlesResponse{
		Articles: p.Items,
		Page:     p.Page.Number,
		Limit:    p.Page.Limit,
		Total:    p.Page.Total,
		Pages:    p.Page.Pages,
		HasNext:  p.HasNext(),
	}
}

// Artifact is one downloadable rendering. Exactly one of Content and URL
// is set.
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
}
