package fontstats

import "github.com/dgallion1/docoutline/internal/layout"

// DefaultAverageSize is reported when a document has no lines.
const DefaultAverageSize = 10.0

// Context is document-wide font information.
type Context struct {
	AverageSize float64
	MaxSize     float64
	Lines       int
}

// Collect computes the font context over every line of every page,
// including the title page.
func Collect(pages []layout.Page) Context {
	var (
		ctx Context
		sum float64
	)
	for _, page := range pages {
		for _, line := range page.Lines {
			sum += line.Size
			ctx.Lines++
			if line.Size > ctx.MaxSize {
				ctx.MaxSize = line.Size
			}
		}
	}
	if ctx.Lines == 0 {
		ctx.AverageSize = DefaultAverageSize
		return ctx
	}
	ctx.AverageSize = sum / float64(ctx.Lines)
	return ctx
}
