package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"github.com/gen2brain/go-fitz"
	"golang.org/x/net/html"
)

// MuPDFRenderer renders each page to MuPDF's positioned HTML and reads the
// runs back from it.
type MuPDFRenderer struct{}

func (m *MuPDFRenderer) Render(ctx context.Context, data []byte, filename string) ([]layout.RawPage, error) {
	if err := checkPDF(filename); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filename, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]layout.RawPage, 0, numPages)
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := layout.RawPage{Number: i + 1}
		markup, err := doc.HTML(i, false)
		if err != nil {
			page.Err = fmt.Errorf("mupdf html: %w", err)
		} else if page.Lines, err = parseMuPDFHTML(markup); err != nil {
			page.Err = err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// parseMuPDFHTML reads one page of MuPDF HTML output: a <p> per line
// positioned by its style, a <span> per font change, and <b>, <i>, <tt>,
// <sup> wrapping styled text.
func parseMuPDFHTML(markup string) ([]layout.RawLine, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse mupdf html: %w", err)
	}

	var lines []layout.RawLine
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			if line, ok := muPDFLine(n); ok {
				lines = append(lines, line)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return lines, nil
}

func muPDFLine(p *html.Node) (layout.RawLine, bool) {
	style := parseStyle(attr(p, "style"))
	top := ptValue(style["top"])
	left := ptValue(style["left"])
	height := ptValue(style["line-height"])

	var line layout.RawLine
	var collect func(n *html.Node, size float64, flags int)
	collect = func(n *html.Node, size float64, flags int) {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				return
			}
			line.Runs = append(line.Runs, layout.TextRun{
				Text:  n.Data,
				Size:  size,
				Flags: flags,
				BBox:  layout.BBox{Left: left, Top: top, Right: left, Bottom: top + height},
			})
			return
		case html.ElementNode:
			switch n.Data {
			case "span":
				s := parseStyle(attr(n, "style"))
				if v := ptValue(s["font-size"]); v > 0 {
					size = v
				}
				flags |= familyFlags(s["font-family"])
			case "b", "strong":
				flags |= layout.FlagBold
			case "i", "em":
				flags |= layout.FlagItalic
			case "tt", "code":
				flags |= layout.FlagMonospace
			case "sup":
				flags |= layout.FlagSuperscript
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c, size, flags)
		}
	}
	collect(p, height, 0)
	return line, len(line.Runs) > 0
}

func familyFlags(family string) int {
	if family == "" {
		return 0
	}
	flags := fontFlags(family)
	f := strings.ToLower(family)
	if strings.Contains(f, "monospace") {
		flags |= layout.FlagMonospace
	}
	return flags
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// parseStyle splits an inline CSS declaration list.
func parseStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(strings.ToLower(k))] = strings.TrimSpace(v)
	}
	return out
}

// ptValue parses lengths such as "12.0pt" or "12px"; 0 if unparsable.
func ptValue(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "pt")
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
