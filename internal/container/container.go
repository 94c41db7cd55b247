package container

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/health"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

// CacheFillConsumerGroup is the Redis stream consumer group of the cache fill workers.
const CacheFillConsumerGroup = "shortlink-cache-fill"

const connectTimeout = 10 * time.Second

// RedisConn owns the Redis client so the injector can close it.
type RedisConn struct {
	Client *redis.Client
}

// Shutdown closes the Redis client.
func (c *RedisConn) Shutdown() error {
	return c.Client.Close()
}

// PostgresConn owns the connection pool so the injector can close it.
type PostgresConn struct {
	Pool *pgxpool.Pool
}

// Shutdown closes the connection pool.
func (c *PostgresConn) Shutdown() error {
	c.Pool.Close()

	return nil
}

// LoggerPackage provides the zap logger.
func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisConn, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisConn{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
	do.Provide(i, func(i *do.Injector) (*redis.Client, error) {
		return do.MustInvoke[*RedisConn](i).Client, nil
	})
}

// PostgresPackage migrates the schema and provides the connection pool.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresConn, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if err := store.Migrate(opts.DatabaseURL, logger); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return &PostgresConn{Pool: pool}, nil
	})
	do.Provide(i, func(i *do.Injector) (*pgxpool.Pool, error) {
		return do.MustInvoke[*PostgresConn](i).Pool, nil
	})
}

// RepositoryPackage provides the durable link store selected by Options.Store.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StorePostgres:
			return store.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
		case StoreRedis:
			return store.NewRedisStore(do.MustInvoke[*redis.Client](i)), nil
		case StoreMemory:
			return store.NewMemoryStore(), nil
		default:
			return nil, fmt.Errorf("unknown store %q: must be postgres, redis or memory", opts.Store)
		}
	})
}

// CachePackage provides the lookup cache. The memory backend keeps the cache in-process too.
func CachePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Cache, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Store == StoreMemory {
			return store.NewMemoryCache(), nil
		}

		return store.NewRedisCache(do.MustInvoke[*redis.Client](i)), nil
	})
}

// ShortenerPackage provides the code generator and the allocation and resolution engines.
func ShortenerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.CodeGenerator, error) {
		opts := do.MustInvoke[*Options](i)

		return shortener.NewCodeGenerator(opts.CodeLength)
	})
	do.Provide(i, func(i *do.Injector) (shortener.Config, error) {
		opts := do.MustInvoke[*Options](i)

		cfg := shortener.Config{
			CacheTTL:      opts.CacheLifetime(),
			MaxAttempts:   opts.MaxAttempts,
			ReservedCodes: handlers.ReservedCodes,
		}

		if opts.Store != StoreMemory {
			group := do.MustInvoke[*messaging.PublisherGroup](i)
			cfg.RequestCacheFill = messaging.NewPublishFunc[shortener.CacheFillEvent](
				group.Publisher(), shortener.TopicCacheFill,
			)
		}

		return cfg, nil
	})
	do.Provide(i, func(i *do.Injector) (*shortener.Allocator, error) {
		return shortener.NewAllocator(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[shortener.Cache](i),
			do.MustInvoke[shortener.CodeGenerator](i),
			do.MustInvoke[shortener.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(i, func(i *do.Injector) (*shortener.Resolver, error) {
		return shortener.NewResolver(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[shortener.Cache](i),
			do.MustInvoke[shortener.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherGroupPackage provides the Redis stream publisher for cache fill events.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := messaging.NewRedisPublisher(
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*zap.Logger](i),
		)
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher, do.MustInvoke[*zap.Logger](i)), nil
	})
}

// ConsumerGroupPackage provides the consumers that retry failed cache writes.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := messaging.NewRedisSubscriber(
			do.MustInvoke[*redis.Client](i),
			CacheFillConsumerGroup,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			shortener.TopicCacheFill,
			shortener.NewCacheFillHandler(do.MustInvoke[shortener.Cache](i)),
			logger,
		))

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})
	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(do.MustInvoke[*chi.Mux](i), huma.DefaultConfig("Shortlink", "1.0.0"))
		api.UseMiddleware(middleware.AccessLog(logger))
		api.UseMiddleware(middleware.Owner(api))

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*shortener.Allocator](i),
			do.MustInvoke[*shortener.Resolver](i),
			do.MustInvoke[shortener.Repository](i),
			opts.ShortURLBase(),
			logger,
		)

		handlers.RegisterRoutes(api, linkHandler)
		health.RegisterRoutes(api, health.NewHandler(healthCheckers(i, opts)))

		return api, nil
	})
}

func healthCheckers(i *do.Injector, opts *Options) map[string]health.Checker {
	checkers := map[string]health.Checker{}

	switch opts.Store {
	case StorePostgres:
		checkers["postgres"] = store.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i))
		checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
	case StoreRedis:
		checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
	}

	return checkers
}
