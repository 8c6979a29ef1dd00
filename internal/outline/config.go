package outline

import "github.com/dgallion1/docoutline/internal/fontstats"

// Thresholds are the font-size cut-offs, in points, of the size and style rules.
type Thresholds struct {
	H1Size      float64 // font-size rule, H1
	H2Size      float64 // font-size rule, H2
	BoldH1Size  float64 // style rule, bold H1
	LargeH1Size float64 // style rule, H1 regardless of weight
	BoldH2Size  float64 // style rule, bold H2
	BoldH3Size  float64 // style rule, bold H3
}

// DefaultThresholds returns the calibrated cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		H1Size:      15.5,
		H2Size:      13.5,
		BoldH1Size:  14,
		LargeH1Size: 16,
		BoldH2Size:  12,
		BoldH3Size:  10,
	}
}

// Scale multiplies every threshold by f.
func (t Thresholds) Scale(f float64) Thresholds {
	return Thresholds{
		H1Size:      t.H1Size * f,
		H2Size:      t.H2Size * f,
		BoldH1Size:  t.BoldH1Size * f,
		LargeH1Size: t.LargeH1Size * f,
		BoldH2Size:  t.BoldH2Size * f,
		BoldH3Size:  t.BoldH3Size * f,
	}
}

// Config controls classification.
type Config struct {
	Thresholds Thresholds

	// RelativeThresholds scales Thresholds by the document's average font
	// size over fontstats.DefaultAverageSize. Off by default.
	RelativeThresholds bool
}

// DefaultConfig returns absolute, calibrated thresholds.
func DefaultConfig() Config {
	return Config{Thresholds: DefaultThresholds()}
}

func (c Config) thresholds(fonts fontstats.Context) Thresholds {
	if !c.RelativeThresholds || fonts.AverageSize <= 0 {
		return c.Thresholds
	}
	return c.Thresholds.Scale(fonts.AverageSize / fontstats.DefaultAverageSize)
}
