package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/fontstats"
	"github.com/dgallion1/docoutline/internal/layout"
)

// Classifier infers a title and outline from normalized pages.
type Classifier struct {
	cfg Config
}

// New creates a classifier.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Trace records how one line was classified.
type Trace struct {
	Page     int // 0-based
	Text     string
	Size     float64
	Bold     bool
	Rule     string
	Decision Decision
}

type headingKey struct {
	level Level
	text  string
}

// Extract collects font statistics and classifies pages.
func (c *Classifier) Extract(pages []layout.Page) Result {
	return c.Classify(pages, fontstats.Collect(pages))
}

// Classify produces the document result. Output page numbers are one less
// than the source page numbers, and page 1 never contributes headings.
func (c *Classifier) Classify(pages []layout.Page, fonts fontstats.Context) Result {
	res, _ := c.run(pages, fonts, false)
	return res
}

// Explain classifies pages and also returns the decision for every line
// that went through the rule chain.
func (c *Classifier) Explain(pages []layout.Page, fonts fontstats.Context) (Result, []Trace) {
	return c.run(pages, fonts, true)
}

func (c *Classifier) run(pages []layout.Page, fonts fontstats.Context, trace bool) (Result, []Trace) {
	title := ExtractTitle(pages)
	rules := Chain(titleTokens(title), c.cfg.thresholds(fonts))

	res := Result{Title: title + titleSuffix, Outline: []Heading{}}
	seen := make(map[headingKey]struct{})
	var traces []Trace

	for _, page := range pages {
		outPage := page.Number - 1
		if outPage <= 0 {
			continue
		}
		for _, line := range page.Lines {
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			cand := NewCandidate(text, line)
			d, rule := Evaluate(rules, cand)
			if trace {
				traces = append(traces, Trace{
					Page:     outPage,
					Text:     text,
					Size:     cand.Size,
					Bold:     cand.Bold,
					Rule:     rule,
					Decision: d,
				})
			}
			if d.Verdict != Accept {
				continue
			}
			key := headingKey{level: d.Level, text: text}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			res.Outline = append(res.Outline, Heading{
				Level: d.Level,
				Text:  text + headingSuffix,
				Page:  outPage,
			})
		}
	}
	return res, traces
}

// ClassifyText runs the rule chain over a line that carries no typography,
// as found in plain-text sources. Only the numbering rule can accept it.
func ClassifyText(text string) Level {
	text = strings.TrimSpace(text)
	if text == "" {
		return LevelNone
	}
	d, _ := Evaluate(Chain(nil, DefaultThresholds()), NewCandidate(text, layout.Line{Text: text}))
	if d.Verdict != Accept {
		return LevelNone
	}
	return d.Level
}
