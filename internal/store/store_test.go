package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "freewrite-state-v1"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "freewrite-state-v1", "The dog ran."); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "freewrite-state-v1", "The dog ran home."); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "freewrite-state-v1")
	if err != nil || !ok {
		t.Fatalf("expected key, got ok=%v err=%v", ok, err)
	}
	if v != "The dog ran home." {
		t.Errorf("expected latest value, got %q", v)
	}
}

func TestBadgerInMemory(t *testing.T) {
	s, err := OpenBadger(BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestBadgerOnDisk(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultBadgerConfig()
	cfg.Path = dir
	s, err := OpenBadger(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	exercise(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenBadger(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if v, ok, _ := reopened.Get(context.Background(), "freewrite-state-v1"); !ok || v != "The dog ran home." {
		t.Errorf("expected value to survive reopen, got %q ok=%v", v, ok)
	}
}

func TestBadgerRequiresPath(t *testing.T) {
	if _, err := OpenBadger(BadgerConfig{}); err == nil {
		t.Error("expected error without a path")
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func fakePathstore(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	data := map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/kv/")
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			var req nodeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			data[key] = req.Value
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			v, ok := data[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(nodeResponse{Key: key, Value: v})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPathstore(t *testing.T) {
	srv := fakePathstore(t)
	exercise(t, NewPathstore(srv.URL+"/", "secret", 0))
}

func TestPathstoreUnauthorized(t *testing.T) {
	srv := fakePathstore(t)
	s := NewPathstore(srv.URL, "wrong", 0)
	if err := s.Put(context.Background(), "k", "v"); err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Errorf("expected status error, got %v", err)
	}
	if _, _, err := s.Get(context.Background(), "k"); err == nil {
		t.Error("expected error on get")
	}
}

func TestOpenBackends(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default badger in memory", Config{}, false},
		{"memory", Config{Backend: BackendMemory}, false},
		{"pathstore", Config{Backend: BackendPathstore, URL: "http://localhost:1"}, false},
		{"pathstore without url", Config{Backend: BackendPathstore}, true},
		{"unknown", Config{Backend: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
