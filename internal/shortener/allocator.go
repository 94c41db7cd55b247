package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AllocateRequest describes a short link to create.
type AllocateRequest struct {
	LongURL     string
	CustomAlias string // empty to generate a code
	OwnerID     OwnerID
}

// Allocator chooses a unique code for a long URL, persists it and primes the cache.
type Allocator struct {
	store       Repository
	generate    CodeGenerator
	maxAttempts int
	reserved    map[Code]struct{}
	cache       *cacheWriter
	logger      *zap.Logger
}

// NewAllocator creates a new allocation engine. A nil cache disables caching.
func NewAllocator(
	store Repository,
	cache Cache,
	generator CodeGenerator,
	cfg Config,
	logger *zap.Logger,
) *Allocator {
	cfg = cfg.withDefaults()

	if cache == nil {
		cache = NopCache{}
	}

	reserved := make(map[Code]struct{}, len(cfg.ReservedCodes))
	for _, code := range cfg.ReservedCodes {
		reserved[code] = struct{}{}
	}

	return &Allocator{
		store:       store,
		generate:    generator,
		maxAttempts: cfg.MaxAttempts,
		reserved:    reserved,
		cache: &cacheWriter{
			cache:       cache,
			ttl:         cfg.CacheTTL,
			requestFill: cfg.RequestCacheFill,
			logger:      logger,
		},
		logger: logger,
	}
}

// Allocate creates a short link for req.LongURL.
//
// Without a custom alias it retries fresh candidates until one is stored.
// With a custom alias it fails with ErrAliasTaken rather than falling back to a generated code.
func (a *Allocator) Allocate(ctx context.Context, req AllocateRequest) (*ShortLink, error) {
	if err := ValidateLongURL(req.LongURL); err != nil {
		return nil, err
	}

	var (
		link *ShortLink
		err  error
	)

	if req.CustomAlias == "" {
		link, err = a.allocateGenerated(ctx, req)
	} else {
		link, err = a.allocateAlias(ctx, req)
	}

	if err != nil {
		return nil, err
	}

	a.cache.write(ctx, link.Code, link.LongURL)

	return link, nil
}

func (a *Allocator) allocateGenerated(ctx context.Context, req AllocateRequest) (*ShortLink, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		code := Code(a.generate())
		if a.isReserved(code) {
			continue
		}

		taken, err := a.store.Exists(ctx, code)
		if err != nil {
			return nil, unavailable(err)
		}

		if taken {
			a.logger.Debug("generated code collision",
				zap.String("code", string(code)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		link := newShortLink(code, req)

		err = a.store.Insert(ctx, link)
		if err == nil {
			return link, nil
		}

		if !errors.Is(err, ErrDuplicateKey) {
			return nil, unavailable(err)
		}

		a.logger.Debug("generated code taken on insert",
			zap.String("code", string(code)),
			zap.Int("attempt", attempt),
		)
	}

	a.logger.Error("short code generation exhausted", zap.Int("attempts", a.maxAttempts))

	return nil, ErrExhaustedRetries
}

func (a *Allocator) allocateAlias(ctx context.Context, req AllocateRequest) (*ShortLink, error) {
	if err := ValidateAlias(req.CustomAlias); err != nil {
		return nil, err
	}

	code := Code(req.CustomAlias)
	if a.isReserved(code) {
		return nil, ErrAliasTaken
	}

	// Fast path for a clear error; Insert below is what actually settles a race.
	taken, err := a.store.Exists(ctx, code)
	if err != nil {
		return nil, unavailable(err)
	}

	if taken {
		return nil, ErrAliasTaken
	}

	link := newShortLink(code, req)

	if err := a.store.Insert(ctx, link); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, ErrAliasTaken
		}

		return nil, unavailable(err)
	}

	return link, nil
}

func (a *Allocator) isReserved(code Code) bool {
	_, ok := a.reserved[code]

	return ok
}

func newShortLink(code Code, req AllocateRequest) *ShortLink {
	return &ShortLink{
		Code:      code,
		LongURL:   req.LongURL,
		OwnerID:   req.OwnerID,
		CreatedAt: time.Now().UTC(),
	}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
}
