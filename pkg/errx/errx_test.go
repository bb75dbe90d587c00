package errx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
)

func TestRegistryCodes(t *testing.T) {
	reg := errx.NewRegistry("WIDGET")
	notFound := reg.Register("NOT_FOUND", errx.TypeNotFound, 0, "Widget not found")
	teapot := reg.Register("TEAPOT", errx.TypeBusiness, http.StatusTeapot, "I'm a teapot")

	assert.Equal(t, "WIDGET_NOT_FOUND", notFound.Code)
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)
	assert.Equal(t, http.StatusTeapot, teapot.HTTPStatus)

	got, ok := reg.Get("TEAPOT")
	require.True(t, ok)
	assert.Same(t, teapot, got)
	assert.Len(t, reg.Codes(), 2)

	err := reg.New(notFound).WithDetail("id", "w-1")
	assert.Equal(t, "[WIDGET_NOT_FOUND] Widget not found", err.Error())
	assert.Equal(t, "w-1", err.Details["id"])
	assert.Equal(t, "custom", reg.NewWithMessage(notFound, "custom").Message)
}

func TestHasCodeWalksChain(t *testing.T) {
	reg := errx.NewRegistry("CHAIN")
	inner := reg.Register("INNER", errx.TypeExternal, 0, "inner")
	outer := reg.Register("OUTER", errx.TypeInternal, 0, "outer")
	other := reg.Register("OTHER", errx.TypeInternal, 0, "other")

	err := reg.NewWithCause(outer, reg.NewWithCause(inner, errors.New("boom")))
	wrapped := fmt.Errorf("stage: %w", err)

	assert.True(t, errx.HasCode(wrapped, outer))
	assert.True(t, errx.HasCode(wrapped, inner))
	assert.False(t, errx.HasCode(wrapped, other))
	assert.False(t, errx.HasCode(errors.New("plain"), inner))
	assert.True(t, errors.Is(wrapped, reg.New(inner)))
}

func TestWrapKeepsExistingCode(t *testing.T) {
	reg := errx.NewRegistry("WRAP")
	code := reg.Register("LIMIT", errx.TypeRateLimited, 0, "slow down")

	assert.Nil(t, errx.Wrap(nil, "nothing", errx.TypeInternal))

	wrapped := errx.Wrap(reg.New(code).WithDetail("retry_after", 3), "wrapped", errx.TypeExternal)
	assert.Equal(t, "WRAP_LIMIT", wrapped.Code)
	assert.Equal(t, http.StatusTooManyRequests, wrapped.HTTPStatus)
	assert.Equal(t, 3, wrapped.Details["retry_after"])

	plain := errx.Wrapf(errors.New("dial tcp"), errx.TypeUnavailable, "redis %s", "down")
	assert.Equal(t, "UNAVAILABLE", plain.Code)
	assert.Equal(t, "redis down", plain.Message)
	assert.Equal(t, http.StatusServiceUnavailable, plain.HTTPStatus)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, errx.TypeValidation, errx.TypeOf(fmt.Errorf("x: %w", errx.Validation("bad"))))
	assert.Equal(t, errx.TypeInternal, errx.TypeOf(errors.New("plain")))
	assert.True(t, errx.IsType(errx.NotFound("gone"), errx.TypeNotFound))
	assert.False(t, errx.IsType(errx.External("api"), errx.TypeNotFound))
}

func TestTypeHTTPStatus(t *testing.T) {
	tests := map[errx.Type]int{
		errx.TypeInternal:      http.StatusInternalServerError,
		errx.TypeValidation:    http.StatusBadRequest,
		errx.TypeAuthorization: http.StatusUnauthorized,
		errx.TypeForbidden:     http.StatusForbidden,
		errx.TypeNotFound:      http.StatusNotFound,
		errx.TypeConflict:      http.StatusConflict,
		errx.TypeBusiness:      http.StatusUnprocessableEntity,
		errx.TypeExternal:      http.StatusBadGateway,
		errx.TypeUnavailable:   http.StatusServiceUnavailable,
		errx.TypeRateLimited:   http.StatusTooManyRequests,
	}
	for typ, status := range tests {
		assert.Equal(t, status, typ.HTTPStatus(), typ.String())
	}
}

func TestMarshalJSON(t *testing.T) {
	err := errx.Internal("save failed").WithCause(errors.New("secret dsn"))
	b, jerr := json.Marshal(err)
	require.NoError(t, jerr)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "INTERNAL", out["code"])
	assert.NotContains(t, out, "Err")
	assert.Contains(t, out["error"], "secret dsn")
}
