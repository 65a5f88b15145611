package editor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/freewrite/internal/markup"
)

type sourceFunc func(ctx context.Context, req Request) ([]Suggestion, error)

func (f sourceFunc) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	return f(ctx, req)
}

func staticSource(s ...Suggestion) Source {
	return sourceFunc(func(context.Context, Request) ([]Suggestion, error) {
		return s, nil
	})
}

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: make(map[string]string)} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type recordClock struct {
	mu      sync.Mutex
	slept   []time.Duration
	onSleep func()
}

func (c *recordClock) Sleep(_ context.Context, d time.Duration) {
	c.mu.Lock()
	c.slept = append(c.slept, d)
	c.mu.Unlock()
	if c.onSleep != nil {
		c.onSleep()
	}
}

func (c *recordClock) total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum time.Duration
	for _, d := range c.slept {
		sum += d
	}
	return sum
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSession builds a session over text with zero timing.
func newTestSession(t *testing.T, text string, src Source) *Session {
	t.Helper()
	s := NewSession(Options{
		Source: src,
		Store:  newMemStore(),
		Logger: quietLogger(),
		Clock:  &recordClock{},
	})
	if err := s.SetContent(context.Background(), text); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	return s
}

func assertWellFormed(t *testing.T, doc string) {
	t.Helper()
	whole := markup.Range{Start: 0, End: len(doc)}
	if got, err := markup.Balance(doc, whole); err != nil || got != whole {
		t.Fatalf("markup is not well formed: %q", doc)
	}
}
