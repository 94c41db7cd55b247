package shortener

import (
	"context"
	"time"

	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

// TopicCacheFill carries cache writes that failed inline and should be retried.
const TopicCacheFill = "shortlink.cache_fill"

// CacheFillEvent asks a background consumer to write a code->URL mapping into the cache.
type CacheFillEvent struct {
	Code       string `json:"code"`
	LongURL    string `json:"longUrl"`
	TTLSeconds int64  `json:"ttlSeconds"`
}

// cacheWriter performs best-effort cache population. Failures never reach the caller.
type cacheWriter struct {
	cache       Cache
	ttl         time.Duration
	requestFill messaging.Publish[CacheFillEvent]
	logger      *zap.Logger
}

func (w *cacheWriter) write(ctx context.Context, code Code, longURL string) {
	err := w.cache.Set(ctx, code, longURL, w.ttl)
	if err == nil {
		return
	}

	w.logger.Warn("failed to write cache",
		zap.String("code", string(code)),
		zap.Error(err),
	)

	if w.requestFill == nil {
		return
	}

	event := &CacheFillEvent{
		Code:       string(code),
		LongURL:    longURL,
		TTLSeconds: ttlSeconds(w.ttl),
	}

	if err := w.requestFill(event); err != nil {
		w.logger.Error("failed to publish cache fill event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}
}

// NewCacheFillHandler returns a consumer handler that retries the cache write described by an event.
// Events without a code or URL are dropped.
func NewCacheFillHandler(cache Cache) messaging.Handler[CacheFillEvent] {
	return func(ctx context.Context, event *CacheFillEvent) error {
		if event.Code == "" || event.LongURL == "" {
			return nil
		}

		ttl := time.Duration(event.TTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}

		return cache.Set(ctx, Code(event.Code), event.LongURL, ttl)
	}
}

// ttlSeconds rounds up so a sub-second ttl never becomes zero on the wire.
func ttlSeconds(ttl time.Duration) int64 {
	return int64((ttl + time.Second - 1) / time.Second)
}
