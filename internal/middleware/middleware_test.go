package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testOutput struct {
	Body string `json:"body"`
}

func setupTestAPI(t *testing.T, logger *zap.Logger) (*chi.Mux, huma.API) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.AccessLog(logger))
	api.UseMiddleware(middleware.Owner(api))

	return router, api
}

func captureOwner(t *testing.T, header string) shortener.OwnerID {
	t.Helper()

	router, api := setupTestAPI(t, zap.NewNop())
	owners := make(chan shortener.OwnerID, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		owners <- handlers.OwnerFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(middleware.OwnerHeader, header)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	return <-owners
}

func TestOwner(t *testing.T) {
	t.Run("adds owner from header", func(t *testing.T) {
		assert.Equal(t, shortener.OwnerID("user-42"), captureOwner(t, "user-42"))
	})

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, shortener.OwnerID("user-42"), captureOwner(t, "  user-42 "))
	})

	t.Run("anonymous without header", func(t *testing.T) {
		assert.Empty(t, captureOwner(t, ""))
	})
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router, api := setupTestAPI(t, zap.New(core))

	huma.Get(api, "/missing", func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return nil, huma.Error404NotFound("nope")
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, "/missing", fields["path"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}
