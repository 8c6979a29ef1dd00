package outline

import (
	"testing"

	"github.com/dgallion1/docoutline/internal/layout"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name  string
		pages []layout.Page
		want  string
	}{
		{
			name:  "largest line",
			pages: []layout.Page{pg(1, ln("Small print", 9, false), ln("Annual Report", 24, false), ln("Body paragraph", 10, false))},
			want:  "Annual Report",
		},
		{
			name:  "ties joined in order",
			pages: []layout.Page{pg(1, ln("Understanding", 24, true), ln("Subtitle text", 12, false), ln("Outline Inference", 24, false))},
			want:  "Understanding  Outline Inference",
		},
		{
			name:  "larger line resets candidates",
			pages: []layout.Page{pg(1, ln("Draft Copy", 18, false), ln("Final Title", 26, false))},
			want:  "Final Title",
		},
		{
			name:  "short lines ignored",
			pages: []layout.Page{pg(1, ln("ACME", 40, true), ln("Product Guide", 20, false))},
			want:  "Product Guide",
		},
		{
			name:  "page header ignored",
			pages: []layout.Page{pg(1, ln("Page 1 of 9", 30, false), ln("Product Guide", 20, false))},
			want:  "Product Guide",
		},
		{
			name:  "only page one counts",
			pages: []layout.Page{pg(2, ln("Later Heading", 40, false)), pg(1, ln("Front Matter", 12, false))},
			want:  "Front Matter",
		},
		{
			name:  "no first page",
			pages: []layout.Page{pg(2, ln("Later Heading", 40, false))},
			want:  "",
		},
		{
			name:  "no candidates",
			pages: []layout.Page{pg(1, ln("Hi", 20, false))},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.pages); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTitleTokens(t *testing.T) {
	tokens := titleTokens("An Annual  Report of 2024")
	for _, want := range []string{"Annual", "Report", "2024"} {
		if _, ok := tokens[want]; !ok {
			t.Errorf("expected token %q", want)
		}
	}
	for _, skip := range []string{"An", "of"} {
		if _, ok := tokens[skip]; ok {
			t.Errorf("did not expect token %q", skip)
		}
	}
}
