package outline

import (
	"encoding/json"
	"fmt"
)

// Level is a heading nesting depth. H1 is the outermost.
type Level int

const (
	LevelNone Level = iota
	H1
	H2
	H3
)

// MaxLevel is the deepest level the outline emits.
const MaxLevel = H3

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return "none"
	}
}

// ParseLevel parses "H1".."H3".
func ParseLevel(s string) (Level, error) {
	switch s {
	case "H1":
		return H1, nil
	case "H2":
		return H2, nil
	case "H3":
		return H3, nil
	}
	return LevelNone, fmt.Errorf("unknown heading level %q", s)
}

func (l Level) MarshalJSON() ([]byte, error) {
	if l < H1 || l > MaxLevel {
		return nil, fmt.Errorf("cannot marshal heading level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("heading level: %w", err)
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// clampLevel maps an arbitrary source depth onto H1..H3.
func clampLevel(depth int) Level {
	switch {
	case depth <= 1:
		return H1
	case depth >= int(MaxLevel):
		return MaxLevel
	default:
		return Level(depth)
	}
}
