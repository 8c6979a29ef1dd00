package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/cache"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/fontstats"
	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/render"
)

// Processor turns one document into its outline.
type Processor struct {
	renderer   render.Renderer
	classifier *outline.Classifier
	cache      cache.Store
	stats      *Stats
	log        *slog.Logger

	skipBadPages bool
	timeout      time.Duration
	variant      string
	onTrace      TraceFunc
}

// TraceFunc receives the rule decisions made while outlining a PDF. It may
// be called from several batch workers at once.
type TraceFunc func(filename string, traces []outline.Trace)

// NewProcessor wires a processor from configuration. store may be nil.
func NewProcessor(cfg config.Config, r render.Renderer, store cache.Store, stats *Stats, log *slog.Logger) *Processor {
	ccfg := outline.DefaultConfig()
	ccfg.RelativeThresholds = cfg.RelativeThresholds

	variant := cfg.Renderer
	if cfg.RelativeThresholds {
		variant += "+relative"
	}
	if cfg.SkipBadPages {
		variant += "+skip"
	}

	return &Processor{
		renderer:     r,
		classifier:   outline.New(ccfg),
		cache:        store,
		stats:        stats,
		log:          log,
		skipBadPages: cfg.SkipBadPages,
		timeout:      cfg.DocumentTimeout,
		variant:      variant,
	}
}

// TraceWith makes every PDF outlined by p report its rule decisions to fn.
// Tracing bypasses cache lookups so each document is classified.
func (p *Processor) TraceWith(fn TraceFunc) {
	p.onTrace = fn
}

// Supported reports whether filename has an extension the processor reads.
func Supported(filename string) bool {
	return render.IsPDF(filename) || parser.IsSupportedExtension(filename)
}

// Process outlines one document. The returned result is always well
// formed: on failure it is outline.Empty() and err says why.
func (p *Processor) Process(ctx context.Context, data []byte, filename string) (outline.Result, error) {
	log := p.log.With("document", filename)
	start := time.Now()

	res, cached, err := p.process(ctx, data, filename, log)
	elapsed := time.Since(start)
	if p.stats != nil {
		p.stats.Record(elapsed, err == nil, cached)
	}
	if err != nil {
		log.Error("document failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return outline.Empty(), err
	}
	log.Info("document outlined",
		"headings", len(res.Outline),
		"cached", cached,
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

func (p *Processor) process(ctx context.Context, data []byte, filename string, log *slog.Logger) (res outline.Result, cached bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while processing: %v", rec)
		}
	}()

	if !Supported(filename) {
		return outline.Result{}, false, &render.UnsupportedError{Filename: filename}
	}

	key := p.cacheKey(data, filename)
	if p.cache != nil && p.onTrace == nil {
		hit, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			log.Warn("cache lookup failed", "error", err)
		} else if ok {
			return hit, true, nil
		}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if render.IsPDF(filename) {
		res, err = p.outlinePDF(ctx, data, filename, log)
	} else {
		res, err = p.outlineStructured(data, filename)
	}
	if err != nil {
		return outline.Result{}, false, err
	}
	if err := outline.ValidateResult(res); err != nil {
		return outline.Result{}, false, err
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, key, res); err != nil {
			log.Warn("cache store failed", "error", err)
		}
	}
	return res, false, nil
}

func (p *Processor) outlinePDF(ctx context.Context, data []byte, filename string, log *slog.Logger) (outline.Result, error) {
	pages, err := p.pages(ctx, data, filename, log)
	if err != nil {
		return outline.Result{}, err
	}
	if p.onTrace == nil {
		return p.classifier.Extract(pages), nil
	}
	res, traces := p.classifier.Explain(pages, fontstats.Collect(pages))
	p.onTrace(filename, traces)
	return res, nil
}

// pages renders and normalizes a PDF. Page errors fail the document
// unless bad pages are skipped.
func (p *Processor) pages(ctx context.Context, data []byte, filename string, log *slog.Logger) ([]layout.Page, error) {
	raw, err := p.renderer.Render(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	pages, err := layout.Normalize(raw)
	if err == nil {
		return pages, nil
	}
	if !p.skipBadPages {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	for _, e := range unwrapJoined(err) {
		var pe *layout.PageError
		if errors.As(e, &pe) {
			log.Warn("skipping unreadable page", "page", pe.Page, "error", pe.Err)
		}
	}
	return pages, nil
}

func (p *Processor) outlineStructured(data []byte, filename string) (outline.Result, error) {
	ps, err := parser.ForFile(filename)
	if err != nil {
		return outline.Result{}, &render.UnsupportedError{Filename: filename}
	}
	tree, err := ps.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return outline.Result{}, fmt.Errorf("parse: %w", err)
	}
	return outline.FromTree(tree), nil
}

// Explain renders a PDF and reports the rule decision for every line
// considered for the outline.
func (p *Processor) Explain(ctx context.Context, data []byte, filename string) (outline.Result, []outline.Trace, error) {
	if !render.IsPDF(filename) {
		return outline.Result{}, nil, &render.UnsupportedError{Filename: filename}
	}
	log := p.log.With("document", filename)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	pages, err := p.pages(ctx, data, filename, log)
	if err != nil {
		return outline.Result{}, nil, err
	}
	res, traces := p.classifier.Explain(pages, fontstats.Collect(pages))
	return res, traces, nil
}

func unwrapJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// cacheKey keys PDFs by content and settings. Other sources pick their
// parser by extension and may take their title from the file name, so the
// name is part of their key.
func (p *Processor) cacheKey(data []byte, filename string) string {
	if render.IsPDF(filename) {
		return cache.Key(data, p.variant)
	}
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return cache.Key(data, p.variant+"|"+name)
}

// baseName strips the directory and extension from a document name.
func baseName(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
