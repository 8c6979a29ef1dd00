package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ws matches Unicode whitespace, not only the ASCII class RE2 uses for \s.
const ws = `[\s\p{Z}]+`

var (
	// Localized running page headers: English, Spanish, German, Italian, Russian.
	pageHeaderRe = regexp.MustCompile(`^(page|página|seite|pagina|страница)` + ws + `\p{Nd}+`)

	furnitureRe   = regexp.MustCompile(`^(copyright|©|\p{Nd}{4})`)
	shortScriptRe = regexp.MustCompile(`^[A-Za-z0-9\x{4e00}-\x{9fff}\x{0600}-\x{06ff}]{1,2}$`)

	numberedRe3  = regexp.MustCompile(`^\p{Nd}+\.\p{Nd}+\.\p{Nd}+` + ws)
	numberedRe2  = regexp.MustCompile(`^\p{Nd}+\.\p{Nd}+` + ws)
	numberedRe1  = regexp.MustCompile(`^\p{Nd}+\.` + ws)
	capitalRe    = regexp.MustCompile(`^[A-Z]\.` + ws)
	romanAnyRe   = regexp.MustCompile(`(?i)^[IVX]+\.` + ws)
	letterParenR = regexp.MustCompile(`^[a-z]\)` + ws)
	letterWrapRe = regexp.MustCompile(`^\([a-z]\)` + ws)
	numberWrapRe = regexp.MustCompile(`^\([0-9]+\)` + ws)
	romanUpperRe = regexp.MustCompile(`^[IVX]+\.` + ws)
	romanLowerRe = regexp.MustCompile(`^[ivx]+\.` + ws)

	// Order matters only for which prefix is reported; the level is
	// chosen by numberingLevel.
	numberingPrefixes = []*regexp.Regexp{
		numberedRe1,
		numberedRe2,
		numberedRe3,
		capitalRe,
		letterParenR,
		letterWrapRe,
		numberWrapRe,
		romanUpperRe,
		romanLowerRe,
	}
)

func lower(s string) string {
	// Casers carry state; build one per call.
	return cases.Lower(language.Und).String(s)
}

func isPageHeader(text string) bool {
	return pageHeaderRe.MatchString(lower(text))
}

func isFurniture(text string) bool {
	return furnitureRe.MatchString(lower(text))
}

func hasNumberingPrefix(text string) bool {
	for _, re := range numberingPrefixes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// numberingLevel assigns a level from the most specific numbering prefix.
func numberingLevel(text string) Level {
	switch {
	case numberedRe3.MatchString(text):
		return H3
	case numberedRe2.MatchString(text):
		return H2
	case numberedRe1.MatchString(text):
		return H1
	case capitalRe.MatchString(text):
		return H2
	case romanAnyRe.MatchString(text):
		if isUpper(text) {
			return H1
		}
		return H2
	default:
		return H2
	}
}

// isUpper reports whether text has at least one cased letter and no
// lowercase or titlecase letters.
func isUpper(text string) bool {
	cased := false
	for _, r := range text {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

func startsUpper(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

func tokenCount(text string) int {
	return len(strings.Fields(text))
}

func runeLen(text string) int {
	return utf8.RuneCountInString(text)
}
