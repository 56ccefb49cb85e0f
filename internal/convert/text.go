package convert

import (
	"io"
	"strings"

	"github.com/seedforge/seedforge/internal/doctree"
)

// TextParser handles plain text files. Each blank-line-separated block
// becomes a child node.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	content := strings.ReplaceAll(string(raw), "\r\n", "\n")

	tree := &doctree.DocTree{Title: stem(filename)}
	for _, block := range splitBlocks(content) {
		tree.Children = append(tree.Children, &doctree.DocNode{Text: block})
	}
	return tree, nil
}

// splitBlocks cuts text on blank-line runs. Trailing whitespace is trimmed
// per line; whitespace-only lines count as blank.
func splitBlocks(s string) []string {
	var blocks []string
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
			lines = nil
		}
	}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return blocks
}
