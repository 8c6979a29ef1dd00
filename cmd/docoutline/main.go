package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dgallion1/docoutline/internal/cache"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/export"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	if err := config.LoadDotenv(); err != nil {
		printError("Error: reading .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Load()

	var (
		inDir    = flag.String("in", "/app/input", "directory of documents to outline")
		outDir   = flag.String("out", "/app/output", "directory for <name>.json results (created if missing)")
		workers  = flag.Int("workers", cfg.WorkerCount, "documents processed concurrently")
		xlsxPath = flag.String("xlsx", "", "also write a batch summary workbook to this path")
		explain  = flag.Bool("explain", false, "print the deciding rule for every candidate line of each PDF")
		renderer = flag.String("renderer", cfg.Renderer, "PDF backend: pdf, mupdf or pdftotext")
		purge    = flag.Bool("purge-cache", false, "remove every cached outline and exit")
	)
	flag.Usage = func() {
		printError("Usage:\n  docoutline [flags] <in.pdf> <out.json>\n  docoutline [flags] -in DIR -out DIR\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.Renderer = *renderer
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so explain output on stdout stays clean.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := render.ForName(cfg.Renderer, render.Options{
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
		Log:               logger,
	})
	if err != nil {
		logger.Error("failed to select renderer", "error", err)
		os.Exit(1)
	}

	store, err := cache.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open cache", "error", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	proc := pipeline.NewProcessor(cfg, r, store, pipeline.NewStats(time.Hour), logger)
	if *explain {
		proc.TraceWith(explainPrinter(logger))
	}

	var code int
	switch args := flag.Args(); {
	case *purge:
		code = purgeCache(ctx, store, logger)
	case len(args) == 0:
		code = runBatch(ctx, proc, logger, *inDir, *outDir, *workers, *xlsxPath)
	case len(args) == 2:
		code = runSingle(ctx, proc, logger, args[0], args[1])
	default:
		flag.Usage()
		code = 2
	}
	if code != 0 {
		// deferred cleanup does not run on os.Exit
		if store != nil {
			store.Close()
		}
		stop()
		os.Exit(code)
	}
}

func purgeCache(ctx context.Context, store cache.Store, logger *slog.Logger) int {
	if store == nil {
		logger.Error("no cache backend configured")
		return 1
	}
	n, err := store.Purge(ctx)
	if err != nil {
		logger.Error("failed to purge cache", "error", err)
		return 1
	}
	logger.Info("cache purged", "removed", n)
	return 0
}

func runSingle(ctx context.Context, proc *pipeline.Processor, logger *slog.Logger, in, out string) int {
	data, err := os.ReadFile(in)
	if err != nil {
		logger.Error("failed to read input", "path", in, "error", err)
		if werr := pipeline.WriteResult(out, outline.Empty()); werr != nil {
			logger.Error("failed to write output", "path", out, "error", werr)
		}
		return 1
	}
	name := filepath.Base(in)

	res, procErr := proc.Process(ctx, data, name)
	if err := pipeline.WriteResult(out, res); err != nil {
		logger.Error("failed to write output", "path", out, "error", err)
		return 1
	}
	if procErr != nil {
		return 1
	}
	return 0
}

func runBatch(ctx context.Context, proc *pipeline.Processor, logger *slog.Logger, inDir, outDir string, workers int, xlsxPath string) int {
	results, stats, err := proc.ProcessDirectory(ctx, inDir, outDir, workers)
	if err != nil {
		logger.Error("batch failed", "in", inDir, "out", outDir, "error", err)
		return 1
	}
	if stats.Failed > 0 {
		logger.Warn("some documents failed", "failed", stats.Failed, "total", stats.Total)
	}

	if xlsxPath != "" {
		if err := export.WriteBatchXLSX(xlsxPath, results, stats); err != nil {
			logger.Error("failed to write workbook", "path", xlsxPath, "error", err)
			return 1
		}
		logger.Info("workbook written", "path", xlsxPath)
	}
	return 0
}

// explainPrinter writes one table per PDF to stdout. Batch workers share
// it, so tables are printed whole.
func explainPrinter(logger *slog.Logger) pipeline.TraceFunc {
	var mu sync.Mutex
	return func(name string, traces []outline.Trace) {
		mu.Lock()
		defer mu.Unlock()
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "# %s\n", name)
		fmt.Fprintln(tw, "PAGE\tSIZE\tBOLD\tRULE\tVERDICT\tLEVEL\tTEXT")
		for _, tr := range traces {
			rule := tr.Rule
			if rule == "" {
				rule = "-"
			}
			level := "-"
			if tr.Decision.Verdict == outline.Accept {
				level = tr.Decision.Level.String()
			}
			fmt.Fprintf(tw, "%d\t%.1f\t%t\t%s\t%s\t%s\t%s\n",
				tr.Page, tr.Size, tr.Bold, rule, tr.Decision.Verdict, level, tr.Text)
		}
		if err := tw.Flush(); err != nil {
			logger.Warn("explain output failed", "document", name, "error", err)
		}
	}
}
