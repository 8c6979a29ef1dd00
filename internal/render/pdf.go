package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
)

const defaultPageHeight = 792.0 // US Letter

// PDFRenderer reads glyphs with the pure-Go ledongthuc/pdf reader.
type PDFRenderer struct{}

func (p *PDFRenderer) Render(ctx context.Context, data []byte, filename string) (pages []layout.RawPage, err error) {
	if err := checkPDF(filename); err != nil {
		return nil, err
	}

	reader, err := openPDF(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filename, err)
	}

	numPages := reader.NumPage()
	pages = make([]layout.RawPage, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, renderPage(reader, i))
	}
	return pages, nil
}

func openPDF(data []byte) (r *pdflib.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	return pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
}

// renderPage extracts one page. The reader panics on some malformed
// content streams; that becomes the page's error.
func renderPage(reader *pdflib.Reader, num int) (page layout.RawPage) {
	page.Number = num
	defer func() {
		if rec := recover(); rec != nil {
			page.Lines = nil
			page.Err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	p := reader.Page(num)
	if p.V.IsNull() {
		return page
	}
	page.Lines = groupGlyphs(p.Content().Text, pageHeight(p))
	return page
}

func pageHeight(p pdflib.Page) float64 {
	box := inherited(p.V, "MediaBox")
	if box.Len() != 4 {
		return defaultPageHeight
	}
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if h <= 0 {
		return defaultPageHeight
	}
	return h
}

// inherited looks key up on a page node and then on its Pages ancestors.
func inherited(v pdflib.Value, key string) pdflib.Value {
	for depth := 0; depth < 32 && !v.IsNull(); depth++ {
		if b := v.Key(key); !b.IsNull() {
			return b
		}
		v = v.Key("Parent")
	}
	return v
}

// groupGlyphs assembles glyphs, in content-stream order, into lines. A
// glyph starts a new line when its baseline moves by more than a fraction
// of the font size, and a new run when the font or size changes. Gaps
// wider than a fraction of the size become spaces.
func groupGlyphs(glyphs []pdflib.Text, height float64) []layout.RawLine {
	var (
		lines []layout.RawLine
		line  *layout.RawLine
		run   *layout.TextRun
		font  string
		text  strings.Builder
		lastY float64
		endX  float64
	)

	flushRun := func() {
		if run != nil {
			run.Text = text.String()
			if strings.TrimSpace(run.Text) != "" {
				line.Runs = append(line.Runs, *run)
			}
		}
		run = nil
		text.Reset()
	}
	flushLine := func() {
		flushRun()
		if line != nil && len(line.Runs) > 0 {
			lines = append(lines, *line)
		}
		line = nil
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		size := g.FontSize
		if size <= 0 {
			size = 1
		}
		if line != nil && math.Abs(g.Y-lastY) > size*0.5 {
			flushLine()
		}
		if line == nil {
			line = &layout.RawLine{}
			lastY = g.Y
			endX = g.X
		}
		if run != nil && (g.Font != font || g.FontSize != run.Size) {
			gap := g.X - endX
			flushRun()
			if gap > size*0.15 {
				text.WriteString(" ")
			}
		}
		if run == nil {
			font = g.Font
			run = &layout.TextRun{
				Size:  g.FontSize,
				Flags: fontFlags(g.Font),
				BBox: layout.BBox{
					Left:   g.X,
					Top:    height - (g.Y + g.FontSize),
					Right:  g.X + g.W,
					Bottom: height - g.Y,
				},
			}
		} else if g.X-endX > size*0.15 && !strings.HasSuffix(text.String(), " ") && g.S != " " {
			text.WriteString(" ")
		}
		text.WriteString(g.S)
		endX = g.X + g.W
		run.BBox.Right = math.Max(run.BBox.Right, endX)
	}
	flushLine()
	return lines
}
