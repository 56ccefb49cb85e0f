package convert

import (
	"fmt"
	"os"
	"strings"

	"github.com/seedforge/seedforge/internal/chunker"
	"github.com/seedforge/seedforge/internal/doctree"
)

// DocStats is the quality analysis of one converted document.
type DocStats struct {
	Sections      int // nodes carrying a heading
	TextNodes     int // nodes carrying body text
	EmptySections int // headed nodes with no text and no children
	Tables        int
	MaxDepth      int
	Pages         int
	EstTokens     int
}

// Analyze walks a converted document and collects structural statistics.
func Analyze(tree *doctree.DocTree) DocStats {
	var s DocStats
	tree.Walk(func(node *doctree.DocNode, depth int) {
		if depth+1 > s.MaxDepth {
			s.MaxDepth = depth + 1
		}
		if node.Title != "" {
			s.Sections++
			if node.Text == "" && len(node.Children) == 0 {
				s.EmptySections++
			}
		}
		if node.Text != "" {
			s.TextNodes++
			s.EstTokens += chunker.EstimateTokens(node.Text)
		}
		if node.Table {
			s.Tables++
		}
		if node.Page > s.Pages {
			s.Pages = node.Page
		}
	})
	return s
}

// WriteSummary renders the stats for a document as a human-readable report.
func WriteSummary(path string, tree *doctree.DocTree) error {
	s := Analyze(tree)

	var b strings.Builder
	fmt.Fprintf(&b, "Conversion summary for %q\n", tree.Title)
	fmt.Fprintf(&b, "Source file:      %s\n", tree.Source)
	fmt.Fprintf(&b, "Sections:         %d\n", s.Sections)
	fmt.Fprintf(&b, "Text blocks:      %d\n", s.TextNodes)
	fmt.Fprintf(&b, "Tables:           %d\n", s.Tables)
	fmt.Fprintf(&b, "Max nesting:      %d\n", s.MaxDepth)
	fmt.Fprintf(&b, "Pages:            %d\n", s.Pages)
	fmt.Fprintf(&b, "Estimated tokens: %d\n", s.EstTokens)
	if s.EmptySections > 0 {
		fmt.Fprintf(&b, "\nWarning: %d section(s) have a heading but no extracted content.\n", s.EmptySections)
	}
	if s.TextNodes == 0 {
		b.WriteString("\nWarning: no text was extracted from this document.\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
