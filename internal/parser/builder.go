package parser

import (
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// sectionBuilder nests headings by level as they are encountered and
// attaches body text to the innermost open section.
type sectionBuilder struct {
	root  *doctree.DocNode
	stack []sectionEntry
	text  strings.Builder
}

type sectionEntry struct {
	node  *doctree.DocNode
	level int
}

func newSectionBuilder() *sectionBuilder {
	root := &doctree.DocNode{}
	return &sectionBuilder{root: root, stack: []sectionEntry{{node: root, level: 0}}}
}

func (b *sectionBuilder) heading(title string, level int) {
	b.flush()
	node := &doctree.DocNode{Title: title, Level: level}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, sectionEntry{node: node, level: level})
}

func (b *sectionBuilder) addText(t string) {
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

// leaf adds a text-only node under the innermost open section.
func (b *sectionBuilder) leaf(t string) {
	b.flush()
	top := b.stack[len(b.stack)-1].node
	top.Children = append(top.Children, &doctree.DocNode{Text: t})
}

func (b *sectionBuilder) flush() {
	t := strings.TrimSpace(b.text.String())
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// tree finishes the document. Text without any heading becomes a single
// untitled section.
func (b *sectionBuilder) tree(title string) *doctree.DocTree {
	b.flush()
	t := &doctree.DocTree{Title: title, Children: b.root.Children}
	if len(t.Children) == 0 && b.root.Text != "" {
		t.Children = []*doctree.DocNode{{Text: b.root.Text}}
	}
	return t
}

// baseTitle is the filename without directory or extension.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
