// Package articleapi exposes the article service over HTTP.
package articleapi

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/aiwriter/pkg/article"
	"github.com/Abraxas-365/aiwriter/pkg/article/articlesrv"
	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

const HeaderClientFingerprint = "X-Client-Fingerprint"

var ErrRegistry = errx.NewRegistry("API")

var CodeInvalidBody = ErrRegistry.Register("INVALID_BODY", errx.TypeValidation, 0, "Malformed request body")

// ArticleHandlers holds the article routes.
type ArticleHandlers struct {
	service  *articlesrv.ArticleService
	generate []fiber.Handler
	admin    fiber.Handler
}

type Option func(*ArticleHandlers)

// WithGenerateMiddleware runs handlers before POST /api/generate, e.g. a
// rate limiter.
func WithGenerateMiddleware(handlers ...fiber.Handler) Option {
	return func(h *ArticleHandlers) { h.generate = append(h.generate, handlers...) }
}

// WithAdmin guards administrative routes. Without it they answer 403.
func WithAdmin(handler fiber.Handler) Option {
	return func(h *ArticleHandlers) { h.admin = handler }
}

func NewArticleHandlers(service *articlesrv.ArticleService, opts ...Option) *ArticleHandlers {
	h := &ArticleHandlers{service: service}
	for _, o := range opts {
		o(h)
	}
	if h.admin == nil {
		h.admin = func(*fiber.Ctx) error { return fiber.ErrForbidden }
	}
	return h
}

func (h *ArticleHandlers) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api")

	api.Post("/generate", append(h.generate, h.CreateArticle)...)
	api.Get("/status/:id", h.GetStatus)

	articles := api.Group("/articles")
	articles.Get("/", h.ListArticles)
	articles.Get("/:id", h.GetArticle)
	articles.Get("/:id/download/:format", h.Download)
	articles.Delete("/:id", h.admin, h.DeleteArticle)
}

// CreateArticle handles POST /api/generate.
func (h *ArticleHandlers) CreateArticle(c *fiber.Ctx) error {
	var req article.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrRegistry.NewWithCause(CodeInvalidBody, err)
	}
	req.ClientIP = c.IP()
	req.Fingerprint = strings.Clone(c.Get(HeaderClientFingerprint))

	resp, err := h.service.CreateArticle(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetStatus handles GET /api/status/:id.
func (h *ArticleHandlers) GetStatus(c *fiber.Ctx) error {
	view, err := h.service.GetStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// ListArticles handles GET /api/articles?page=&limit=&status=.
func (h *ArticleHandlers) ListArticles(c *fiber.Ctx) error {
	req := article.NewListArticlesRequest()

	page, err := intQuery(c, "page", req.Page)
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit", req.Limit)
	if err != nil {
		return err
	}
	req.Page, req.Limit = page, limit
	req.Status = c.Query("status")

	resp, err := h.service.ListArticles(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetArticle handles GET /api/articles/:id.
func (h *ArticleHandlers) GetArticle(c *fiber.Ctx) error {
	a, err := h.service.GetArticle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(a)
}

// Download handles GET /api/articles/:id/download/:format.
func (h *ArticleHandlers) Download(c *fiber.Ctx) error {
	artifact, err := h.service.Download(c.UserContext(), c.Params("id"), c.Params("format"))
	if err != nil {
		return err
	}
	return c.JSON(artifact)
}

// DeleteArticle handles DELETE /api/articles/:id.
func (h *ArticleHandlers) DeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, article.ErrInvalidPagination().WithDetail(key, raw)
	}
	return n, nil
}
