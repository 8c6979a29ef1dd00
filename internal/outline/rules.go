package outline

import (
	"github.com/dgallion1/docoutline/internal/layout"
)

// Length and token limits of the rule chain.
const (
	minHeadingRunes = 3
	maxHeadingRunes = 120
	minTitleRunes   = 5
	minTitleToken   = 3

	maxNumberedTokens = 12
	maxFontSizeTokens = 15
	maxStyleH1Tokens  = 12
	maxStyleH2Tokens  = 18
	maxStyleH3Tokens  = 25
)

// Verdict is the outcome kind of a single rule.
type Verdict int

const (
	// Pass defers to the next rule in the chain.
	Pass Verdict = iota
	Reject
	Accept
)

func (v Verdict) String() string {
	switch v {
	case Reject:
		return "reject"
	case Accept:
		return "accept"
	default:
		return "pass"
	}
}

// Decision is what a rule concluded about a candidate line. Level is set
// only for Accept; Reason only for Reject.
type Decision struct {
	Verdict Verdict
	Level   Level
	Reason  string
}

func pass() Decision                { return Decision{Verdict: Pass} }
func reject(reason string) Decision { return Decision{Verdict: Reject, Reason: reason} }
func accept(level Level) Decision   { return Decision{Verdict: Accept, Level: level} }

func acceptIf(ok bool, l Level) Decision {
	if ok {
		return accept(l)
	}
	return pass()
}

// Candidate is a trimmed line under classification.
type Candidate struct {
	Text   string
	Size   float64
	Bold   bool
	Runes  int
	Tokens int
}

// NewCandidate builds a candidate from a normalized line and its trimmed text.
func NewCandidate(text string, line layout.Line) Candidate {
	return Candidate{
		Text:   text,
		Size:   line.Size,
		Bold:   line.Bold(),
		Runes:  runeLen(text),
		Tokens: tokenCount(text),
	}
}

// Rule is one link of the classification chain.
type Rule interface {
	Name() string
	Evaluate(c Candidate) Decision
}

type ruleFunc struct {
	name string
	fn   func(c Candidate) Decision
}

func (r ruleFunc) Name() string                  { return r.name }
func (r ruleFunc) Evaluate(c Candidate) Decision { return r.fn(c) }

// LengthRule rejects lines shorter than 3 or longer than 120 runes.
func LengthRule() Rule {
	return ruleFunc{name: "length", fn: func(c Candidate) Decision {
		if c.Runes < minHeadingRunes || c.Runes > maxHeadingRunes {
			return reject("length")
		}
		return pass()
	}}
}

// FurnitureRule rejects page headers, copyright lines and lines led by a year.
func FurnitureRule() Rule {
	return ruleFunc{name: "furniture", fn: func(c Candidate) Decision {
		if isPageHeader(c.Text) || isFurniture(c.Text) {
			return reject("furniture")
		}
		return pass()
	}}
}

// ShortScriptRule rejects stray one- or two-character fragments.
func ShortScriptRule() Rule {
	return ruleFunc{name: "short-script", fn: func(c Candidate) Decision {
		if shortScriptRe.MatchString(c.Text) {
			return reject("short-script")
		}
		return pass()
	}}
}

// TitleFragmentRule rejects lines equal to one of the title's tokens.
func TitleFragmentRule(tokens map[string]struct{}) Rule {
	return ruleFunc{name: "title-fragment", fn: func(c Candidate) Decision {
		if _, ok := tokens[c.Text]; ok {
			return reject("title-fragment")
		}
		return pass()
	}}
}

// NumberingRule accepts short lines led by a section-numbering prefix.
func NumberingRule() Rule {
	return ruleFunc{name: "numbering", fn: func(c Candidate) Decision {
		if c.Tokens > maxNumberedTokens || !hasNumberingPrefix(c.Text) {
			return pass()
		}
		return accept(numberingLevel(c.Text))
	}}
}

// FontSizeRule accepts large capitalized lines by absolute size.
func FontSizeRule(th Thresholds) Rule {
	return ruleFunc{name: "font-size", fn: func(c Candidate) Decision {
		if c.Tokens > maxFontSizeTokens || !startsUpper(c.Text) {
			return pass()
		}
		switch {
		case c.Size >= th.H1Size:
			return accept(H1)
		case c.Size >= th.H2Size:
			return accept(H2)
		}
		return pass()
	}}
}

// StyleRule combines boldness with size. The first branch whose size guard
// holds decides; a failed token or case check does not fall through to the
// smaller levels.
func StyleRule(th Thresholds) Rule {
	return ruleFunc{name: "style", fn: func(c Candidate) Decision {
		upper := startsUpper(c.Text)
		switch {
		case (c.Size >= th.BoldH1Size && c.Bold) || c.Size >= th.LargeH1Size:
			return acceptIf(upper && c.Tokens <= maxStyleH1Tokens, H1)
		case c.Size >= th.BoldH2Size && c.Bold:
			return acceptIf(upper && c.Tokens <= maxStyleH2Tokens, H2)
		case c.Size >= th.BoldH3Size && c.Bold:
			return acceptIf(upper && c.Tokens <= maxStyleH3Tokens, H3)
		}
		return pass()
	}}
}

// Chain builds the ordered rule list for one document.
func Chain(titleTokens map[string]struct{}, th Thresholds) []Rule {
	return []Rule{
		LengthRule(),
		FurnitureRule(),
		ShortScriptRule(),
		TitleFragmentRule(titleTokens),
		NumberingRule(),
		FontSizeRule(th),
		StyleRule(th),
	}
}

// Evaluate runs the chain and returns the first decisive outcome together
// with the name of the rule that produced it. A candidate no rule decides
// on is rejected with reason "no-match" and an empty rule name.
func Evaluate(rules []Rule, c Candidate) (Decision, string) {
	for _, r := range rules {
		if d := r.Evaluate(c); d.Verdict != Pass {
			return d, r.Name()
		}
	}
	return reject("no-match"), ""
}
