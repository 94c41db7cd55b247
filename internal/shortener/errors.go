package shortener

import "errors"

var (
	// ErrInvalidInput is returned when the long URL is empty or not an absolute URI.
	ErrInvalidInput = errors.New("invalid long url")
	// ErrInvalidAlias is returned when a custom alias breaks the charset or length rules.
	ErrInvalidAlias = errors.New("invalid custom alias")
	// ErrAliasTaken is returned when a custom alias is already in use.
	ErrAliasTaken = errors.New("custom alias already taken")
	// ErrExhaustedRetries is returned when no free generated code was found within the attempt cap.
	ErrExhaustedRetries = errors.New("exhausted short code generation attempts")
	// ErrNotFound is returned when a short code does not exist.
	ErrNotFound = errors.New("short link not found")
	// ErrDependencyUnavailable wraps failures of the durable store.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrDuplicateKey is returned by Repository.Insert when the code already exists.
	ErrDuplicateKey = errors.New("duplicate short code")
	// ErrCacheMiss is returned by Cache.Get when nothing is cached for a code.
	ErrCacheMiss = errors.New("cache miss")
)
