// Package adminauth protects administrative routes with HS256 bearer tokens
// carrying scopes.
package adminauth

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

const (
	ScopeArticlesAdmin = "articles:admin"

	DefaultIssuer   = "aiwriter"
	DefaultTokenTTL = time.Hour

	audience  = "aiwriter-admin"
	localsKey = "admin_claims"
)

var ErrRegistry = errx.NewRegistry("ADMIN")

var (
	CodeDisabled        = ErrRegistry.Register("DISABLED", errx.TypeForbidden, 0, "Administrative API is disabled")
	CodeMissingToken    = ErrRegistry.Register("MISSING_TOKEN", errx.TypeAuthorization, 0, "Missing bearer token")
	CodeInvalidToken    = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, 0, "Invalid or expired token")
	CodeMissingScope    = ErrRegistry.Register("MISSING_SCOPE", errx.TypeForbidden, 0, "Token lacks the required scope")
	CodeTokenGeneration = ErrRegistry.Register("TOKEN_GENERATION", errx.TypeInternal, 0, "Failed to generate token")
)

// Claims are the JWT claims of an admin token.
type Claims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// TokenService signs and verifies admin tokens. A service built with an empty
// secret is disabled and rejects every token.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string) *TokenService {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
}

func (s *TokenService) Enabled() bool {
	return len(s.secret) > 0
}

// Issue signs a token for subject with the given scopes.
func (s *TokenService) Issue(subject string, ttl time.Duration, scopes ...string) (string, error) {
	if !s.Enabled() {
		return "", ErrRegistry.New(CodeDisabled)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeTokenGeneration, err)
	}
	return signed, nil
}

// Validate parses and verifies a signed token.
func (s *TokenService) Validate(token string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrRegistry.New(CodeDisabled)
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrRegistry.New(CodeInvalidToken)
	}
	return claims, nil
}

// RequireScope authenticates the bearer token and checks it carries scope.
func (s *TokenService) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.Enabled() {
			return ErrRegistry.New(CodeDisabled)
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return ErrRegistry.New(CodeMissingToken)
		}

		claims, err := s.Validate(strings.TrimSpace(token))
		if err != nil {
			return err
		}
		if !claims.HasScope(scope) {
			return ErrRegistry.New(CodeMissingScope).WithDetail("required", scope)
		}

		c.Locals(localsKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireScope.
func ClaimsFrom(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(localsKey).(*Claims)
	return claims, ok
}
