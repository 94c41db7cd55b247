package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisCache is a Redis implementation of shortener.Cache.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed cache. Keys are namespaced apart from RedisStore's.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "cache:url:",
	}
}

// Get returns the cached long URL for code.
func (r *RedisCache) Get(ctx context.Context, code shortener.Code) (string, error) {
	longURL, err := r.client.Get(ctx, r.prefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrCacheMiss
		}

		return "", err
	}

	return longURL, nil
}

// Set caches longURL for code. A non-positive ttl gets shortener.DefaultCacheTTL; entries always expire.
func (r *RedisCache) Set(ctx context.Context, code shortener.Code, longURL string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = shortener.DefaultCacheTTL
	}

	return r.client.Set(ctx, r.prefix+string(code), longURL, ttl).Err()
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
