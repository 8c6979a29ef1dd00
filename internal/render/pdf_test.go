package render

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/dgallion1/docoutline/internal/layout"
)

// buildPDF assembles a PDF with a valid cross-reference table. objects[i]
// becomes object i+1; object 1 must be the catalog.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func contentStream(ops string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(ops), ops)
}

// reportPDF has two pages. The first inherits its MediaBox (600x800) from
// the page tree; the second declares its own (612x792).
func reportPDF() []byte {
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 600 800] "+
			"/Resources << /Font << /F1 7 0 R /F2 8 0 R >> >> >>",
		"<< /Type /Page /Parent 2 0 R /Contents 5 0 R >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 6 0 R >>",
		contentStream("BT /F1 24 Tf 72 700 Td (Annual Report) Tj ET"),
		contentStream("BT /F2 16 Tf 72 700 Td (1. Introduction) Tj ET\nBT /F1 10 Tf 72 680 Td (Body text) Tj ET"),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
	)
}

func TestPDFRenderer_MinimalDocument(t *testing.T) {
	pages, err := (&PDFRenderer{}).Render(context.Background(), reportPDF(), "report.pdf")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}

	type want struct {
		text  string
		size  float64
		flags int
		top   float64
		bot   float64
	}
	tests := []struct {
		page  int
		lines []want
	}{
		// top = height - (baseline + size)
		{1, []want{{"Annual Report", 24, 0, 76, 100}}},
		{2, []want{
			{"1. Introduction", 16, layout.FlagBold, 76, 92},
			{"Body text", 10, 0, 102, 112},
		}},
	}
	for _, tt := range tests {
		p := pages[tt.page-1]
		if p.Number != tt.page || p.Err != nil {
			t.Fatalf("page %d: unexpected number %d or error %v", tt.page, p.Number, p.Err)
		}
		if len(p.Lines) != len(tt.lines) {
			t.Fatalf("page %d: expected %d lines, got %+v", tt.page, len(tt.lines), p.Lines)
		}
		for i, w := range tt.lines {
			line, ok := layout.NormalizeLine(p.Lines[i])
			if !ok {
				t.Fatalf("page %d line %d: normalized to nothing", tt.page, i)
			}
			if line.Text != w.text || line.Size != w.size || line.Flags != w.flags {
				t.Errorf("page %d line %d: expected %q size %v flags %d, got %q size %v flags %d",
					tt.page, i, w.text, w.size, w.flags, line.Text, line.Size, line.Flags)
			}
			if line.BBox.Top != w.top || line.BBox.Bottom != w.bot {
				t.Errorf("page %d line %d: expected top %v bottom %v, got %+v", tt.page, i, w.top, w.bot, line.BBox)
			}
		}
	}
}

func TestPageHeight_Inheritance(t *testing.T) {
	reader, err := openPDF(reportPDF())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if h := pageHeight(reader.Page(1)); h != 800 {
		t.Errorf("inherited MediaBox: expected 800, got %v", h)
	}
	if h := pageHeight(reader.Page(2)); h != 792 {
		t.Errorf("own MediaBox: expected 792, got %v", h)
	}

	noBox := buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R >>",
	)
	reader, err = openPDF(noBox)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if h := pageHeight(reader.Page(1)); h != defaultPageHeight {
		t.Errorf("missing MediaBox: expected %v, got %v", defaultPageHeight, h)
	}
	if page := renderPage(reader, 1); page.Err != nil || len(page.Lines) != 0 {
		t.Errorf("page without contents: expected empty page, got %+v", page)
	}
}
