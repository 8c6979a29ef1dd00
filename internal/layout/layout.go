package layout

import (
	"errors"
	"fmt"
	"strings"
)

// Style flag bits, matching the MuPDF span flag convention.
const (
	FlagSuperscript = 1 << 0
	FlagItalic      = 1 << 1
	FlagSerif       = 1 << 2
	FlagMonospace   = 1 << 3
	FlagBold        = 1 << 4
)

// BBox is a box in page space with the origin at the top-left corner.
type BBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// TextRun is a contiguous piece of text sharing one font size and style.
type TextRun struct {
	Text  string
	Size  float64
	Flags int
	BBox  BBox
}

// RawLine is one source line as emitted by a renderer.
type RawLine struct {
	Runs []TextRun
}

// RawPage is the renderer's output for a single page. Err is set when the
// page content could not be read.
type RawPage struct {
	Number int // 1-based
	Lines  []RawLine
	Err    error
}

// Line is a normalized visual line.
type Line struct {
	Text  string
	Size  float64
	Flags int
	BBox  BBox
}

// Bold reports whether any constituent run of the line was bold.
func (l Line) Bold() bool {
	return l.Flags&FlagBold != 0
}

// Page is an ordered sequence of lines with its 1-based number.
type Page struct {
	Number int
	Lines  []Line
}

// PageError reports a page whose content could not be normalized.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// NormalizeLine merges the runs of a source line. It returns false when the
// line has no non-empty run.
func NormalizeLine(raw RawLine) (Line, bool) {
	var (
		parts []string
		line  Line
		found bool
	)
	for _, run := range raw.Runs {
		text := strings.TrimSpace(run.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
		if !found {
			line.BBox = run.BBox
			line.Size = run.Size
			found = true
		} else if run.Size > line.Size {
			line.Size = run.Size
		}
		line.Flags |= run.Flags
	}
	if !found {
		return Line{}, false
	}
	line.Text = strings.TrimSpace(strings.Join(parts, " "))
	return line, true
}

// Normalize converts renderer pages into normalized pages. Pages that carry
// a render error are omitted from the result and reported as *PageError
// values joined into the returned error.
func Normalize(raw []RawPage) ([]Page, error) {
	pages := make([]Page, 0, len(raw))
	var errs []error
	for _, rp := range raw {
		if rp.Err != nil {
			errs = append(errs, &PageError{Page: rp.Number, Err: rp.Err})
			continue
		}
		page := Page{Number: rp.Number}
		for _, rl := range rp.Lines {
			if line, ok := NormalizeLine(rl); ok {
				page.Lines = append(page.Lines, line)
			}
		}
		pages = append(pages, page)
	}
	return pages, errors.Join(errs...)
}
