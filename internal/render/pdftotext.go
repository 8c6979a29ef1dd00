package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
	"golang.org/x/net/html"
)

// PdftotextRenderer shells out to poppler's pdftotext -bbox-layout. It
// knows word boxes only: run size is the line height and no style flags
// are set.
type PdftotextRenderer struct{}

func (p *PdftotextRenderer) Render(ctx context.Context, data []byte, filename string) ([]layout.RawPage, error) {
	if err := checkPDF(filename); err != nil {
		return nil, err
	}

	// pdftotext needs a file path.
	tmp, err := os.CreateTemp("", "docoutline-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.CommandContext(ctx, "pdftotext", "-bbox-layout", tmpPath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return parseBBoxLayout(string(out))
}

// parseBBoxLayout reads the XHTML written by pdftotext -bbox-layout:
// <page> elements holding <line xMin yMin xMax yMax> of <word> elements.
func parseBBoxLayout(markup string) ([]layout.RawPage, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse pdftotext output: %w", err)
	}

	var pages []layout.RawPage
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "page":
				pages = append(pages, layout.RawPage{Number: len(pages) + 1})
			case "line":
				if len(pages) > 0 {
					if line, ok := bboxLine(n); ok {
						cur := &pages[len(pages)-1]
						cur.Lines = append(cur.Lines, line)
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return pages, nil
}

func bboxLine(n *html.Node) (layout.RawLine, bool) {
	top := floatAttr(n, "ymin")
	bottom := floatAttr(n, "ymax")
	size := bottom - top

	var line layout.RawLine
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "word" {
			continue
		}
		text := nodeText(c)
		if strings.TrimSpace(text) == "" {
			continue
		}
		line.Runs = append(line.Runs, layout.TextRun{
			Text: text,
			Size: size,
			BBox: layout.BBox{
				Left:   floatAttr(c, "xmin"),
				Top:    floatAttr(c, "ymin"),
				Right:  floatAttr(c, "xmax"),
				Bottom: floatAttr(c, "ymax"),
			},
		})
	}
	return line, len(line.Runs) > 0
}

// floatAttr reads a numeric attribute. The HTML parser lowercases names.
func floatAttr(n *html.Node, key string) float64 {
	v, err := strconv.ParseFloat(attr(n, key), 64)
	if err != nil {
		return 0
	}
	return v
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
