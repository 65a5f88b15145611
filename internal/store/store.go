// Package store persists editor state under fixed string keys.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Store is a small string key-value store. Get reports false for a key
// that was never written.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}

const (
	BackendBadger    = "badger"
	BackendPathstore = "pathstore"
	BackendMemory    = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Badger
	Path string

	// Pathstore
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Open returns the backend named by cfg.Backend.
func Open(cfg Config, log *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case "", BackendBadger:
		bc := DefaultBadgerConfig()
		bc.Path = cfg.Path
		bc.InMemory = cfg.Path == ""
		bc.SyncWrites = !bc.InMemory
		bc.Logger = log
		b, err := OpenBadger(bc)
		if err != nil {
			return nil, err
		}
		return b, nil
	case BackendPathstore:
		if cfg.URL == "" {
			return nil, fmt.Errorf("pathstore backend needs a URL")
		}
		return NewPathstore(cfg.URL, cfg.APIKey, cfg.Timeout), nil
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// Memory keeps values in process memory.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
