package convert

import (
	"strings"

	"github.com/seedforge/seedforge/internal/doctree"
)

// sectionBuilder assembles a DocTree from a flat stream of headings and
// text blocks. Markdown, HTML and DOCX conversion all reduce to this shape:
// a heading opens a node at its level, text accumulates under the most
// recent one.
type sectionBuilder struct {
	root  *doctree.DocNode
	stack []sectionFrame
	text  strings.Builder
	page  int
}

type sectionFrame struct {
	node  *doctree.DocNode
	level int
}

func newSectionBuilder(title string) *sectionBuilder {
	root := &doctree.DocNode{Title: title}
	return &sectionBuilder{
		root:  root,
		stack: []sectionFrame{{node: root, level: 0}},
	}
}

// SetPage records the page attributed to subsequently flushed text.
func (b *sectionBuilder) SetPage(page int) {
	b.page = page
}

// Heading closes the pending text block and opens a new section at level.
func (b *sectionBuilder) Heading(level int, title string) {
	b.flush()
	node := &doctree.DocNode{Title: title, Page: b.page}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, sectionFrame{node: node, level: level})
}

// Text appends a block of body text to the pending buffer.
func (b *sectionBuilder) Text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(s)
}

// Table closes the pending text block and attaches a table node under the
// current section.
func (b *sectionBuilder) Table(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	b.flush()
	top := b.stack[len(b.stack)-1].node
	top.Children = append(top.Children, &doctree.DocNode{Text: s, Page: b.page, Table: true})
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
		top.Page = b.page
	}
}

// Tree finalizes the builder into a DocTree. Text seen before the first
// heading becomes a leading text child, so preamble is never lost.
func (b *sectionBuilder) Tree(title string) *doctree.DocTree {
	b.flush()
	tree := &doctree.DocTree{Title: title, Children: b.root.Children}
	if b.root.Text != "" {
		preamble := &doctree.DocNode{Text: b.root.Text, Page: b.root.Page}
		tree.Children = append([]*doctree.DocNode{preamble}, tree.Children...)
	}
	return tree
}
