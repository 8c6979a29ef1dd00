package render

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/layout"
)

var (
	boldMarkers   = []string{"bold", "black", "heavy", "semibold", "demibold", "demi"}
	italicMarkers = []string{"italic", "oblique"}
	monoMarkers   = []string{"courier", "mono", "consolas", "menlo", "typewriter"}
	serifMarkers  = []string{"times", "serif", "georgia", "garamond", "minion", "cambria", "palatino", "book antiqua"}
)

// fontFlags infers style flags from a PostScript font name such as
// "ABCDEF+Helvetica-BoldOblique".
func fontFlags(name string) int {
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ToLower(name)

	flags := 0
	if containsAny(name, boldMarkers) {
		flags |= layout.FlagBold
	}
	if containsAny(name, italicMarkers) {
		flags |= layout.FlagItalic
	}
	if containsAny(name, monoMarkers) {
		flags |= layout.FlagMonospace
	}
	if containsAny(name, serifMarkers) && !strings.Contains(name, "sans") {
		flags |= layout.FlagSerif
	}
	return flags
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
