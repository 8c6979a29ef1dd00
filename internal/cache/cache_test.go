package cache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

func sampleResult() outline.Result {
	return outline.Result{
		Title:   "Annual Report 2024  ",
		Outline: []outline.Heading{{Level: outline.H1, Text: "1. Introduction ", Page: 1}},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := Key([]byte("%PDF-1.7 body"), "pdf")

	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, key, sampleResult()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, key, sampleResult()); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	want := sampleResult()
	if got.Title != want.Title || len(got.Outline) != 1 || got.Outline[0] != want.Outline[0] {
		t.Errorf("unexpected cached result %+v", got)
	}

	other := Key([]byte("other"), "pdf")
	if err := s.Put(ctx, other, outline.Empty()); err != nil {
		t.Fatalf("put other: %v", err)
	}
	n, err := s.Purge(ctx)
	if err != nil || n != 2 {
		t.Fatalf("purge: expected 2 removed, got %d (%v)", n, err)
	}
	for _, k := range []string{key, other} {
		if _, ok, err := s.Get(ctx, k); err != nil || ok {
			t.Errorf("expected miss after purge, got ok=%v err=%v", ok, err)
		}
	}
	if n, err := s.Purge(ctx); err != nil || n != 0 {
		t.Errorf("second purge: expected 0, got %d (%v)", n, err)
	}
}

func TestKey(t *testing.T) {
	a := Key([]byte("doc"), "pdf")
	if a != Key([]byte("doc"), "pdf") {
		t.Error("key must be deterministic")
	}
	if a == Key([]byte("doc"), "mupdf") {
		t.Error("variant must change the key")
	}
	if a == Key([]byte("doc2"), "pdf") {
		t.Error("content must change the key")
	}
	if len(a) != 64 {
		t.Errorf("expected hex sha256, got %q", a)
	}
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(ctx, "k", sampleResult()); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, ok, err := s.Get(ctx, "k"); err != nil || !ok {
		t.Errorf("expected persisted entry, ok=%v err=%v", ok, err)
	}
}

func TestPathstore(t *testing.T) {
	var mu sync.Mutex
	nodes := map[string]json.RawMessage{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/kv/")
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(key, "/*"):
			prefix := strings.TrimSuffix(key, "*")
			var list []map[string]any
			for k, v := range nodes {
				if strings.HasPrefix(k, prefix) {
					list = append(list, map[string]any{"key_path": k, "value": v})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": list})
		case r.Method == http.MethodDelete:
			delete(nodes, key)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPut:
			var req struct {
				Value json.RawMessage `json:"value"`
			}
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &req)
			nodes[key] = req.Value
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet:
			v, ok := nodes[key]
			if !ok {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"key_path": key, "value": v})
		}
	}))
	defer srv.Close()

	// Nodes outside the cache prefix survive a purge.
	nodes["docs/keep"] = json.RawMessage(`1`)

	s := NewPathstore(pathstore.NewClient(srv.URL, "k"))
	defer s.Close()
	exerciseStore(t, s)

	mu.Lock()
	defer mu.Unlock()
	if len(nodes) != 1 || nodes["docs/keep"] == nil {
		t.Errorf("expected only the unrelated node to remain, got %v", nodes)
	}
}

func TestOpen(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	s, err := Open(ctx, config.Config{CacheBackend: config.CacheNone}, log)
	if err != nil || s != nil {
		t.Errorf("expected disabled cache, got %v %v", s, err)
	}

	s, err = Open(ctx, config.Config{CacheBackend: config.CacheSQLite, CachePath: filepath.Join(t.TempDir(), "c.db")}, log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := s.(*SQLite); !ok {
		t.Errorf("expected *SQLite, got %T", s)
	}
	s.Close()

	if _, err := Open(ctx, config.Config{CacheBackend: "redis"}, log); err == nil {
		t.Error("expected error for unknown backend")
	}
}
