// Package render turns PDF bytes into positioned text runs.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
)

// Renderer produces the raw text runs of every page of a PDF, in page order.
type Renderer interface {
	Render(ctx context.Context, data []byte, filename string) ([]layout.RawPage, error)
}

// UnsupportedError is returned for documents no backend can read.
type UnsupportedError struct {
	Filename string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported document type: %s", e.Filename)
}

// Backend names accepted by ForName.
const (
	BackendPDF       = "pdf"
	BackendMuPDF     = "mupdf"
	BackendPdftotext = "pdftotext"
)

// Options configures renderer selection.
type Options struct {
	// FallbackPdftotext retries with pdftotext when the primary backend
	// cannot open a document.
	FallbackPdftotext bool
	Log               *slog.Logger
}

// ForName returns the renderer for a backend name. An empty name selects
// the pure-Go backend.
func ForName(name string, opts Options) (Renderer, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	var r Renderer
	switch strings.ToLower(name) {
	case "", BackendPDF:
		r = &PDFRenderer{}
	case BackendMuPDF:
		r = &MuPDFRenderer{}
	case BackendPdftotext:
		return &PdftotextRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
	if opts.FallbackPdftotext {
		r = &fallbackRenderer{primary: r, secondary: &PdftotextRenderer{}, log: log}
	}
	return r, nil
}

// IsPDF reports whether filename has a .pdf extension.
func IsPDF(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

func checkPDF(filename string) error {
	if !IsPDF(filename) {
		return &UnsupportedError{Filename: filename}
	}
	return nil
}

type fallbackRenderer struct {
	primary   Renderer
	secondary Renderer
	log       *slog.Logger
}

func (f *fallbackRenderer) Render(ctx context.Context, data []byte, filename string) ([]layout.RawPage, error) {
	pages, err := f.primary.Render(ctx, data, filename)
	if err == nil || ctx.Err() != nil {
		return pages, err
	}
	f.log.Warn("primary renderer failed, trying pdftotext", "document", filename, "error", err)
	pages, ferr := f.secondary.Render(ctx, data, filename)
	if ferr != nil {
		return nil, fmt.Errorf("render %s: %w (fallback: %v)", filename, err, ferr)
	}
	return pages, nil
}
