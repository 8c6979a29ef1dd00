package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheNone      = "none"
	CacheSQLite    = "sqlite"
	CachePathstore = "pathstore"
)

type Config struct {
	Port     string
	LogLevel slog.Level

	// Auth; empty disables bearer-token checks.
	APIKey string

	// Rendering
	Renderer             string
	PDFFallbackPdftotext bool
	SkipBadPages         bool
	RelativeThresholds   bool

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL          time.Duration
	DocumentTimeout time.Duration

	// Result cache
	CacheBackend    string
	CachePath       string
	PathstoreURL    string
	PathstoreAPIKey string

	CORSOrigins []string
}

// LoadDotenv reads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotenv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		APIKey: os.Getenv("DOCOUTLINE_API_KEY"),

		Renderer:             strings.ToLower(envOr("RENDERER", "pdf")),
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", false),
		SkipBadPages:         envBool("SKIP_BAD_PAGES", false),
		RelativeThresholds:   envBool("RELATIVE_THRESHOLDS", false),

		WorkerCount:  envInt("WORKER_COUNT", 1),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:          envDuration("JOB_TTL", 1*time.Hour),
		DocumentTimeout: envDuration("DOCUMENT_TIMEOUT", 2*time.Minute),

		CacheBackend:    strings.ToLower(envOr("CACHE_BACKEND", CacheNone)),
		CachePath:       envOr("CACHE_PATH", "docoutline-cache.db"),
		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.DocumentTimeout <= 0 {
		cfg.DocumentTimeout = 2 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.Renderer {
	case "pdf", "mupdf", "pdftotext":
	default:
		return fmt.Errorf("RENDERER must be pdf, mupdf or pdftotext, got %q", c.Renderer)
	}
	switch c.CacheBackend {
	case CacheNone:
	case CacheSQLite:
		if c.CachePath == "" {
			return fmt.Errorf("CACHE_PATH is required for the sqlite cache")
		}
	case CachePathstore:
		if c.PathstoreURL == "" {
			return fmt.Errorf("PATHSTORE_URL is required for the pathstore cache")
		}
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore cache")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be none, sqlite or pathstore, got %q", c.CacheBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
