package articleapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/aiwriter/pkg/adminauth"
	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/article/articleapi"
	"github.com/Abraxas-365/aiwriter/pkg/article/articleinfra"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlesrv"
	"github.com/Abraxas-365/aiwriter/pkg/jobx"
	"github.com/Abraxas-365/aiwriter/pkg/ratelimit"
	"github.com/Abraxas-365/aiwriter/pkg/server"
)

// queueOnly records submitted tasks without running them.
type queueOnly struct{ tasks []jobx.Task }

func (q *queueOnly) Submit(t jobx.Task) error {
	q.tasks = append(q.tasks, t)
	return nil
}

type fixture struct {
	app   *fiber.App
	repo  *articleinfra.MemoryStore
	auth  *adminauth.TokenService
	queue *queueOnly
}

func newFixture(t *testing.T, opts ...articleapi.Option) fixture {
	t.Helper()
	repo := articleinfra.NewMemoryStore()
	queue := &queueOnly{}
	n := 0
	svc := articlesrv.NewArticleService(repo, nil, queue,
		articlesrv.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("art-%02d", n)
		}))

	auth := adminauth.NewTokenService("test-secret", "")
	opts = append([]articleapi.Option{articleapi.WithAdmin(auth.RequireScope(adminauth.ScopeArticlesAdmin))}, opts...)

	app := server.New(server.Options{AppName: "test"})
	articleapi.NewArticleHandlers(svc, opts...).RegisterRoutes(app)
	app.Use(server.NotFound)

	return fixture{app: app, repo: repo, auth: auth, queue: queue}
}

func (f fixture) do(t *testing.T, method, target, body string, headers ...string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (f fixture) complete(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	for _, st := range []article.Status{article.StatusResearching, article.StatusWriting, article.StatusGeneratingImages, article.StatusIntegrating} {
		require.NoError(t, f.repo.UpdateStatus(ctx, id, article.Advance(st)))
	}
	require.NoError(t, f.repo.UpdateStatus(ctx, id, article.Complete(article.Content{
		Title:    "Kafka",
		Markdown: "# Kafka\n\nBody",
		PDFURL:   "http://localhost:8080/files/articles/" + id + "/kafka.pdf",
	}, time.Now())))
}

func TestGenerateAndPoll(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, fiber.MethodPost, "/api/generate", `{"topic":"Kafka","tier":"C","formats":["markdown","pdf"]}`,
		articleapi.HeaderClientFingerprint, "fp-123")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "art-01", body["article_id"])
	assert.NotEmpty(t, body["message"])
	assert.Len(t, f.queue.tasks, 1)

	a, err := f.repo.Get(context.Background(), "art-01")
	require.NoError(t, err)
	assert.Equal(t, "fp-123", a.Fingerprint)
	assert.NotEmpty(t, a.ClientIP)

	resp, body = f.do(t, fiber.MethodGet, "/api/status/art-01", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "art-01", body["id"])
	assert.Equal(t, "pending", body["status"])
	assert.EqualValues(t, 0, body["progress"])
	assert.Equal(t, "C", body["tier"])
	assert.NotContains(t, body, "client_ip")
}

func TestGenerateValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", `{"topic":`, "API_INVALID_BODY"},
		{"empty topic", `{"topic":"  "}`, "ARTICLE_INVALID_TOPIC"},
		{"bad tier", `{"topic":"t","tier":"Z"}`, "ARTICLE_INVALID_TIER"},
		{"bad format", `{"topic":"t","formats":["docx"]}`, "ARTICLE_INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, fiber.MethodPost, "/api/generate", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, "VALIDATION", body["type"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
	assert.Empty(t, f.queue.tasks)
}

func TestStatusNotFound(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, fiber.MethodGet, "/api/status/nope", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ARTICLE_NOT_FOUND", body["code"])
}

func TestListArticles(t *testing.T) {
	f := newFixture(t)
	for i := range 3 {
		resp, _ := f.do(t, fiber.MethodPost, "/api/generate", fmt.Sprintf(`{"topic":"t%d"}`, i))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, body := f.do(t, fiber.MethodGet, "/api/articles", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 20, body["limit"])
	assert.EqualValues(t, 3, body["total"])
	assert.Len(t, body["articles"], 3)

	assert.EqualValues(t, 1, body["pages"])
	assert.Equal(t, false, body["has_next"])

	resp, body = f.do(t, fiber.MethodGet, "/api/articles?page=2&limit=2", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["articles"], 1)
	assert.EqualValues(t, 2, body["pages"])

	resp, body = f.do(t, fiber.MethodGet, "/api/articles?status=completed", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body["articles"])

	for _, q := range []string{"page=abc", "page=0", "limit=500", "limit=-1"} {
		resp, body = f.do(t, fiber.MethodGet, "/api/articles?"+q, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "ARTICLE_INVALID_PAGINATION", body["code"], q)
	}

	resp, body = f.do(t, fiber.MethodGet, "/api/articles?status=done", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ARTICLE_INVALID_STATUS", body["code"])
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	_, created := f.do(t, fiber.MethodPost, "/api/generate", `{"topic":"Kafka"}`)
	id := created["article_id"].(string)

	resp, body := f.do(t, fiber.MethodGet, "/api/articles/"+id+"/download/markdown", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ARTICLE_NOT_READY", body["code"])

	f.complete(t, id)

	resp, body = f.do(t, fiber.MethodGet, "/api/articles/"+id+"/download/markdown", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kafka.md", body["filename"])
	assert.Equal(t, "text/markdown", body["content_type"])
	assert.Equal(t, "# Kafka\n\nBody", body["content"])

	resp, body = f.do(t, fiber.MethodGet, "/api/articles/"+id+"/download/pdf", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body["url"], "/files/articles/"+id+"/kafka.pdf")
	assert.NotContains(t, body, "content")

	resp, body = f.do(t, fiber.MethodGet, "/api/articles/"+id+"/download/docx", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ARTICLE_UNSUPPORTED_FORMAT", body["code"])

	resp, _ = f.do(t, fiber.MethodGet, "/api/articles/missing/download/markdown", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = f.do(t, fiber.MethodGet, "/api/articles/"+id, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", body["status"])
	assert.NotNil(t, body["content"])
}

func TestDeleteRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	_, created := f.do(t, fiber.MethodPost, "/api/generate", `{"topic":"Kafka"}`)
	id := created["article_id"].(string)

	resp, _ := f.do(t, fiber.MethodDelete, "/api/articles/"+id, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := f.auth.Issue("ops", time.Minute, adminauth.ScopeArticlesAdmin)
	require.NoError(t, err)
	bearer := "Bearer " + token

	resp, _ = f.do(t, fiber.MethodDelete, "/api/articles/"+id, "", fiber.HeaderAuthorization, bearer)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, body := f.do(t, fiber.MethodDelete, "/api/articles/"+id, "", fiber.HeaderAuthorization, bearer)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ARTICLE_NOT_FOUND", body["code"])
}

func TestDeleteWithoutAdminConfigured(t *testing.T) {
	repo := articleinfra.NewMemoryStore()
	svc := articlesrv.NewArticleService(repo, nil, &queueOnly{})
	app := server.New(server.Options{})
	articleapi.NewArticleHandlers(svc).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/api/articles/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestGenerateIsRateLimited(t *testing.T) {
	f := newFixture(t, articleapi.WithGenerateMiddleware(
		ratelimit.Middleware(ratelimit.NewLocalLimiter(1, 1), nil)))

	resp, _ := f.do(t, fiber.MethodPost, "/api/generate", `{"topic":"one"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := f.do(t, fiber.MethodPost, "/api/generate", `{"topic":"two"}`)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
	assert.Len(t, f.queue.tasks, 1)

	resp, _ = f.do(t, fiber.MethodGet, "/api/articles", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "reads are not limited")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, fiber.MethodGet, "/api/nothing", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}
