package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/render"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome for one document of a batch.
type FileResult struct {
	Filename string
	Output   string
	Success  bool
	Error    string
	Result   outline.Result
	Duration time.Duration
}

// BatchStats summarizes a batch run.
type BatchStats struct {
	Total     int
	Succeeded int
	Failed    int
	Headings  int
	Duration  time.Duration
}

// ListDocuments returns the supported files directly inside dir, sorted by
// name. Subdirectories are not visited.
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && Supported(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ProcessDirectory outlines every supported document in inDir and writes
// <base>.json for each into outDir. A failing document gets an empty
// result file and never stops the batch. workers bounds concurrency.
func (p *Processor) ProcessDirectory(ctx context.Context, inDir, outDir string, workers int) ([]FileResult, BatchStats, error) {
	start := time.Now()

	names, err := ListDocuments(inDir)
	if err != nil {
		return nil, BatchStats{}, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, BatchStats{}, fmt.Errorf("create output dir: %w", err)
	}
	p.log.Info("batch started", "input", inDir, "output", outDir, "documents", len(names), "workers", workers)

	if workers <= 0 {
		workers = 1
	}
	results := make([]FileResult, len(names))
	outputs := outputNames(names)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		out := filepath.Join(outDir, outputs[i])
		g.Go(func() error {
			results[i] = p.processFile(gctx, filepath.Join(inDir, name), out)
			return nil
		})
	}
	_ = g.Wait()

	stats := BatchStats{Total: len(results), Duration: time.Since(start)}
	for _, r := range results {
		if r.Success {
			stats.Succeeded++
			stats.Headings += len(r.Result.Outline)
		} else {
			stats.Failed++
		}
	}
	p.log.Info("batch finished",
		"documents", stats.Total,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return results, stats, nil
}

// outputNames picks a result file name for each document. PDFs claim
// <base>.json first; a document whose base is already claimed keeps its
// full name, as in report.md.json.
func outputNames(names []string) []string {
	outs := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	claim := func(i int) {
		out := baseName(names[i]) + ".json"
		for n := 1; taken[out]; n++ {
			if n == 1 {
				out = names[i] + ".json"
			} else {
				out = fmt.Sprintf("%s.%d.json", names[i], n)
			}
		}
		taken[out] = true
		outs[i] = out
	}
	for i, name := range names {
		if render.IsPDF(name) {
			claim(i)
		}
	}
	for i, name := range names {
		if !render.IsPDF(name) {
			claim(i)
		}
	}
	return outs
}

func (p *Processor) processFile(ctx context.Context, path, out string) FileResult {
	start := time.Now()
	fr := FileResult{Filename: filepath.Base(path), Output: out}

	var res outline.Result
	data, err := os.ReadFile(path)
	if err != nil {
		p.log.Error("read document", "document", fr.Filename, "error", err)
		res = outline.Empty()
	} else {
		res, err = p.Process(ctx, data, fr.Filename)
	}

	if werr := WriteResult(out, res); werr != nil {
		p.log.Error("write result", "document", fr.Filename, "error", werr)
		if err == nil {
			err = werr
		}
	}

	fr.Result = res
	fr.Success = err == nil
	if err != nil {
		fr.Error = err.Error()
	}
	fr.Duration = time.Since(start)
	return fr
}

// WriteResult encodes res to path.
func WriteResult(path string, res outline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := outline.Encode(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
