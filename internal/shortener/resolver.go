package shortener

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Resolver serves code lookups cache-first, falling back to the repository and repopulating the cache.
type Resolver struct {
	store  Repository
	cache  Cache
	writer *cacheWriter
	logger *zap.Logger
}

// NewResolver creates a new resolution engine. A nil cache disables caching.
func NewResolver(store Repository, cache Cache, cfg Config, logger *zap.Logger) *Resolver {
	cfg = cfg.withDefaults()

	if cache == nil {
		cache = NopCache{}
	}

	return &Resolver{
		store: store,
		cache: cache,
		writer: &cacheWriter{
			cache:       cache,
			ttl:         cfg.CacheTTL,
			requestFill: cfg.RequestCacheFill,
			logger:      logger,
		},
		logger: logger,
	}
}

// Resolve returns the long URL stored for code, or ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, code Code) (string, error) {
	if !resolvable(code) {
		return "", ErrNotFound
	}

	longURL, err := r.cache.Get(ctx, code)
	if err == nil && longURL != "" {
		return longURL, nil
	}

	if err != nil && !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("cache lookup failed, reading from store",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	link, err := r.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", unavailable(err)
	}

	r.writer.write(ctx, link.Code, link.LongURL)

	return link.LongURL, nil
}
