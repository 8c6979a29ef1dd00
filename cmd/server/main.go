package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/cache"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotenv(); err != nil {
		log.Error("failed to read .env", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := render.ForName(cfg.Renderer, render.Options{
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
		Log:               log,
	})
	if err != nil {
		log.Error("failed to select renderer", "error", err)
		os.Exit(1)
	}

	store, err := cache.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open cache", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	stats := pipeline.NewStats(time.Hour)
	proc := pipeline.NewProcessor(cfg, r, store, stats, log)
	orch := pipeline.NewOrchestrator(proc, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.DocumentTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting uploads before the queue is closed.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		if store != nil {
			store.Close()
		}
	}()

	log.Info("starting docoutline",
		"port", cfg.Port,
		"renderer", cfg.Renderer,
		"cache", cfg.CacheBackend,
		"workers", cfg.WorkerCount,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
