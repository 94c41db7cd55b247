package shortener

import (
	"context"
	"time"
)

// Repository is the durable record of short links.
// Insert must be atomic and reject an existing code with ErrDuplicateKey;
// that constraint, not Exists, is what keeps codes unique under concurrent writers.
type Repository interface {
	// Exists reports whether code is already stored.
	Exists(ctx context.Context, code Code) (bool, error)
	Insert(ctx context.Context, link *ShortLink) error
	// FindByCode returns ErrNotFound when no link has the given code.
	FindByCode(ctx context.Context, code Code) (*ShortLink, error)
	// ListByOwner returns the owner's links, newest first.
	ListByOwner(ctx context.Context, owner OwnerID) ([]*ShortLink, error)
}

// Cache is a keyed store with per-entry expiry used in front of a Repository.
type Cache interface {
	// Get returns ErrCacheMiss when nothing is cached for code.
	Get(ctx context.Context, code Code) (string, error)
	Set(ctx context.Context, code Code, longURL string, ttl time.Duration) error
}

// NopCache is a Cache that never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, Code) (string, error) {
	return "", ErrCacheMiss
}

func (NopCache) Set(context.Context, Code, string, time.Duration) error {
	return nil
}
