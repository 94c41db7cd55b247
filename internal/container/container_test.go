package container_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/container"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryInjector(t *testing.T) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, &container.Options{
		Port:        8888,
		CodeLength:  shortener.GeneratedCodeLength,
		Store:       container.StoreMemory,
		CacheTTL:    3600,
		MaxAttempts: 10,
		BaseURL:     "https://sho.rt/",
		LogFormat:   "console",
	})
	container.LoggerPackage(injector)
	container.RepositoryPackage(injector)
	container.CachePackage(injector)
	container.ShortenerPackage(injector)
	container.HTTPPackage(injector)

	t.Cleanup(func() { _ = injector.Shutdown() })

	return injector
}

func TestOptions(t *testing.T) {
	t.Run("base url defaults to localhost and port", func(t *testing.T) {
		opts := &container.Options{Port: 9000}

		assert.Equal(t, "http://localhost:9000", opts.ShortURLBase())
	})

	t.Run("base url trailing slash is trimmed", func(t *testing.T) {
		opts := &container.Options{BaseURL: "https://sho.rt/"}

		assert.Equal(t, "https://sho.rt", opts.ShortURLBase())
	})

	t.Run("cache ttl is in seconds", func(t *testing.T) {
		opts := &container.Options{CacheTTL: 3600}

		assert.Equal(t, time.Hour, opts.CacheLifetime())
	})
}

func TestRepositoryPackage(t *testing.T) {
	t.Run("memory store", func(t *testing.T) {
		injector := newMemoryInjector(t)

		repo := do.MustInvoke[shortener.Repository](injector)

		assert.IsType(t, &store.MemoryStore{}, repo)
		assert.IsType(t, &store.MemoryCache{}, do.MustInvoke[shortener.Cache](injector))
	})

	t.Run("unknown store fails", func(t *testing.T) {
		injector := do.New()
		do.ProvideValue(injector, &container.Options{Store: "cassandra"})
		container.RepositoryPackage(injector)

		_, err := do.Invoke[shortener.Repository](injector)

		require.Error(t, err)
	})
}

func TestShortenerPackage(t *testing.T) {
	t.Run("rejects a code length that cannot be stored", func(t *testing.T) {
		injector := do.New()
		do.ProvideValue(injector, &container.Options{CodeLength: shortener.MaxAliasLength + 1})
		container.ShortenerPackage(injector)

		_, err := do.Invoke[shortener.CodeGenerator](injector)

		require.Error(t, err)
	})
}

func TestHTTPPackage(t *testing.T) {
	injector := newMemoryInjector(t)
	router := do.MustInvoke[*chi.Mux](injector)
	_ = do.MustInvoke[huma.API](injector)

	req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(`{"url":"https://example.com/landing"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", "user-42")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "https://sho.rt/"), location)

	code := strings.TrimPrefix(location, "https://sho.rt/")

	req = httptest.NewRequest(http.MethodGet, "/"+code, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://example.com/landing", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/owners/user-42/links", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	req = httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(`{"url":"https://example.com","customAlias":"health"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
