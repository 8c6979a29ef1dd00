package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
)

// TextParser handles plain text files. Paragraphs are separated by blank
// lines; a paragraph whose first line carries a section number becomes a
// heading at the level that number implies.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	b := newSectionBuilder()
	var para []string

	emit := func() {
		if len(para) == 0 {
			return
		}
		if level := outline.ClassifyText(para[0]); level != outline.LevelNone {
			b.heading(strings.TrimSpace(para[0]), int(level))
			b.addText(strings.TrimSpace(strings.Join(para[1:], "\n")))
		} else {
			b.leaf(strings.Join(para, "\n"))
		}
		para = para[:0]
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := sc.Text(); strings.TrimSpace(line) != "" {
			para = append(para, line)
			continue
		}
		emit()
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	emit()
	return b.tree(baseTitle(filename)), nil
}
