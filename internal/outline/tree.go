package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// ToTree nests a flat outline: each heading becomes a child of the closest
// preceding heading with a smaller level.
func ToTree(r Result) *doctree.DocTree {
	tree := &doctree.DocTree{Title: strings.TrimSpace(r.Title)}

	type stackEntry struct {
		node  *doctree.DocNode
		level int
	}
	root := &doctree.DocNode{}
	stack := []stackEntry{{node: root, level: 0}}

	for _, h := range r.Outline {
		level := int(h.Level)
		node := &doctree.DocNode{
			Title: strings.TrimSpace(h.Text),
			Level: level,
			Page:  h.Page,
		}
		for len(stack) > 1 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{node: node, level: level})
	}

	tree.Children = root.Children
	return tree
}

// FromTree flattens a tree built from a source with explicit headings.
// Declared levels deeper than H3 are clamped; nodes without a declared
// level use their depth. Output shaping and deduplication match Classify.
func FromTree(tree *doctree.DocTree) Result {
	res := Result{Title: strings.TrimSpace(tree.Title) + titleSuffix, Outline: []Heading{}}
	seen := make(map[headingKey]struct{})

	tree.Walk(func(n *doctree.DocNode, depth int) {
		text := strings.TrimSpace(n.Title)
		if text == "" {
			return
		}
		level := clampLevel(depth)
		if n.Level > 0 {
			level = clampLevel(n.Level)
		}
		key := headingKey{level: level, text: text}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		res.Outline = append(res.Outline, Heading{Level: level, Text: text + headingSuffix, Page: n.Page})
	})
	return res
}
