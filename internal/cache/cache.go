// Package cache stores outline results keyed by document content, so a
// document seen before is not rendered again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

// Store is a result cache.
type Store interface {
	// Get returns the cached result for key; ok is false on a miss.
	Get(ctx context.Context, key string) (res outline.Result, ok bool, err error)
	Put(ctx context.Context, key string, res outline.Result) error
	// Purge removes every cached result and reports how many were removed.
	Purge(ctx context.Context) (int, error)
	Close() error
}

// Key derives the cache key of a document. variant distinguishes
// settings that change the result for the same bytes.
func Key(data []byte, variant string) string {
	h := sha256.New()
	h.Write([]byte(variant))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Open returns the store selected by cfg.CacheBackend, or nil when caching
// is disabled.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (Store, error) {
	switch cfg.CacheBackend {
	case "", config.CacheNone:
		return nil, nil
	case config.CacheSQLite:
		log.Info("opening result cache", "backend", "sqlite", "path", cfg.CachePath)
		s, err := OpenSQLite(ctx, cfg.CachePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.CachePathstore:
		log.Info("opening result cache", "backend", "pathstore", "url", cfg.PathstoreURL)
		return NewPathstore(pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
