package shortener

import (
	"time"

	"github.com/serroba/shortlink/internal/messaging"
)

const (
	// DefaultCacheTTL is how long a cached mapping lives.
	DefaultCacheTTL = time.Hour
	// DefaultMaxAttempts caps the generate-check-insert loop.
	DefaultMaxAttempts = 10
)

// Config tunes the allocation and resolution engines. Zero values fall back to the defaults.
type Config struct {
	CacheTTL    time.Duration
	MaxAttempts int

	// ReservedCodes are never allocated, e.g. paths the HTTP router serves itself.
	ReservedCodes []Code

	// RequestCacheFill, when set, receives cache writes that failed inline.
	RequestCacheFill messaging.Publish[CacheFillEvent]
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}

	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}

	return c
}
