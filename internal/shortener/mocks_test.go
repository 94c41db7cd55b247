package shortener_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com/page"

// mockRepository is a test double for shortener.Repository that can be configured to return errors.
type mockRepository struct {
	mu           sync.Mutex
	existsResult bool
	existsErr    error
	insertErr    error
	findErr      error
	found        *shortener.ShortLink
	existsCalls  int
	insertCalls  int
	findCalls    int
}

func (m *mockRepository) Exists(_ context.Context, _ shortener.Code) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.existsCalls++

	return m.existsResult, m.existsErr
}

func (m *mockRepository) Insert(_ context.Context, _ *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++

	return m.insertErr
}

func (m *mockRepository) FindByCode(_ context.Context, _ shortener.Code) (*shortener.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++

	if m.findErr != nil {
		return nil, m.findErr
	}

	return m.found, nil
}

func (m *mockRepository) ListByOwner(_ context.Context, _ shortener.OwnerID) ([]*shortener.ShortLink, error) {
	return nil, nil
}

func (m *mockRepository) calls() (exists, insert, find int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.existsCalls, m.insertCalls, m.findCalls
}

// blindRepository never reports a code as taken, leaving Insert as the only uniqueness guard.
type blindRepository struct {
	*store.MemoryStore
}

func (blindRepository) Exists(context.Context, shortener.Code) (bool, error) {
	return false, nil
}

// mockCache is a test double for shortener.Cache.
type mockCache struct {
	mu     sync.Mutex
	value  string
	getErr error
	setErr  error
	sets    int
	lastTTL time.Duration
}

func (m *mockCache) Get(_ context.Context, _ shortener.Code) (string, error) {
	return m.value, m.getErr
}

func (m *mockCache) Set(_ context.Context, _ shortener.Code, _ string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++
	m.lastTTL = ttl

	return m.setErr
}

// sequence returns a generator that cycles through codes.
func sequence(codes ...string) shortener.CodeGenerator {
	var (
		mu sync.Mutex
		i  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		code := codes[i%len(codes)]
		i++

		return code
	}
}
