package convert

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/seedforge/seedforge/internal/doctree"
)

// Options enumerates the recognized conversion pipeline settings.
type Options struct {
	// PDFFallbackPdftotext shells out to pdftotext when the Go PDF
	// library fails on a document.
	PDFFallbackPdftotext bool
	// DetectTables marks table-like nodes so the quality report can
	// count them.
	DetectTables bool
	// WriteSummary emits the human-readable quality summary next to
	// each converted document.
	WriteSummary bool
	// CSVBatchRows is how many CSV rows are grouped per section.
	CSVBatchRows int
}

// DefaultOptions returns the settings used when the manifest specifies none.
func DefaultOptions() Options {
	return Options{
		PDFFallbackPdftotext: true,
		DetectTables:         true,
		WriteSummary:         true,
		CSVBatchRows:         20,
	}
}

// Converter turns source files into persisted structured documents.
type Converter struct {
	opts Options
	log  *slog.Logger
}

// NewConverter returns a converter with the given options.
func NewConverter(opts Options, log *slog.Logger) *Converter {
	if opts.CSVBatchRows <= 0 {
		opts.CSVBatchRows = 20
	}
	return &Converter{opts: opts, log: log}
}

// Result describes one converted source file.
type Result struct {
	Source   string // source file path
	JSONPath string // conversion/<stem>.json
	Summary  string // summary path, empty when not written
	Tree     *doctree.DocTree
}

// ConvertFile parses one source file and persists its structured
// representation as JSON under outDir. When summaries are enabled it also
// writes the readable quality summary for the document.
func (c *Converter) ConvertFile(src, outDir string) (*Result, error) {
	name := filepath.Base(src)
	p, err := ForFile(name, c.opts)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}
	tree, err := p.Parse(f, name)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}
	tree.Source = name

	jsonPath := filepath.Join(outDir, stem(name)+".json")
	if err := WriteTree(jsonPath, tree); err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}

	res := &Result{Source: src, JSONPath: jsonPath, Tree: tree}
	if c.opts.WriteSummary {
		sumPath := filepath.Join(outDir, "illuminator-readable-summary-"+name+".txt")
		if err := WriteSummary(sumPath, tree); err != nil {
			return nil, fmt.Errorf("convert %s: summary: %w", name, err)
		}
		res.Summary = sumPath
	}

	if c.log != nil {
		c.log.Info("converted document", "file", name, "nodes", tree.NodeCount(), "json", jsonPath)
	}
	return res, nil
}

// WriteTree serializes a document tree as indented JSON. The file handle is
// released before returning regardless of outcome.
func WriteTree(path string, tree *doctree.DocTree) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		f.Close()
		return fmt.Errorf("encode tree: %w", err)
	}
	return f.Close()
}

// ReadTree loads a persisted document tree.
func ReadTree(path string) (*doctree.DocTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var tree doctree.DocTree
	if err := json.NewDecoder(f).Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode tree %s: %w", filepath.Base(path), err)
	}
	return &tree, nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
