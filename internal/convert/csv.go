package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/seedforge/seedforge/internal/doctree"
)

// CSVParser handles CSV files, grouping rows into batched sections so each
// section stays chunkable.
type CSVParser struct {
	BatchRows  int
	MarkTables bool
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{Title: strings.TrimSuffix(filename, ".csv")}
	if len(records) == 0 {
		return tree, nil
	}

	batch := p.BatchRows
	if batch <= 0 {
		batch = 20
	}

	// First row is headers.
	headers := records[0]
	rows := records[1:]

	for i := 0; i < len(rows); i += batch {
		end := min(i+batch, len(rows))

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range rows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}

		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Rows %d-%d", i+2, end+1), // 1-indexed, header skipped
			Text:  text.String(),
			Table: p.MarkTables,
		})
	}

	return tree, nil
}
