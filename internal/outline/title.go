package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
)

// titleSeparator joins title lines that share the largest size.
const titleSeparator = "  "

// ExtractTitle derives the document title from page 1: every line at the
// largest font size, in source order. Short lines and running page headers
// are not candidates.
func ExtractTitle(pages []layout.Page) string {
	first, ok := firstPage(pages)
	if !ok {
		return ""
	}

	var (
		maxSize    float64
		candidates []string
	)
	for _, line := range first.Lines {
		text := strings.TrimSpace(line.Text)
		if runeLen(text) < minTitleRunes || isPageHeader(text) {
			continue
		}
		switch {
		case line.Size > maxSize:
			maxSize = line.Size
			candidates = []string{text}
		case line.Size == maxSize:
			candidates = append(candidates, text)
		}
	}
	return strings.TrimSpace(strings.Join(candidates, titleSeparator))
}

func firstPage(pages []layout.Page) (layout.Page, bool) {
	for _, p := range pages {
		if p.Number == 1 {
			return p, true
		}
	}
	return layout.Page{}, false
}

// titleTokens returns the whitespace-split title tokens longer than two runes.
func titleTokens(title string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(title) {
		if runeLen(tok) >= minTitleToken {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}
