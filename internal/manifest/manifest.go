// Package manifest loads the YAML run manifest: the workspace name, the
// ordered contribution list and optional per-run option overrides. The
// manifest is the batch-run equivalent of the caller populating the
// registry by hand.
package manifest

import (
	"fmt"
	"os"

	"github.com/seedforge/seedforge/internal/chunker"
	"github.com/seedforge/seedforge/internal/convert"
	"github.com/seedforge/seedforge/internal/workspace"
	"gopkg.in/yaml.v3"
)

// Manifest is one pipeline run's declaration.
type Manifest struct {
	Workspace     string         `yaml:"workspace"`
	Contributions []Contribution `yaml:"contributions"`
	Conversion    *Conversion    `yaml:"conversion,omitempty"`
	Chunking      *Chunking      `yaml:"chunking,omitempty"`
	Authoring     *Authoring     `yaml:"authoring,omitempty"`
}

// Contribution declares one named document group.
type Contribution struct {
	Name      string   `yaml:"name"`
	Domain    string   `yaml:"domain"`
	Summary   string   `yaml:"summary"`
	Documents []string `yaml:"documents"`
}

// Conversion overrides the conversion pipeline options.
type Conversion struct {
	PDFFallbackPdftotext *bool `yaml:"pdf_fallback_pdftotext,omitempty"`
	DetectTables         *bool `yaml:"detect_tables,omitempty"`
	WriteSummary         *bool `yaml:"write_summary,omitempty"`
	CSVBatchRows         int   `yaml:"csv_batch_rows,omitempty"`
}

// Chunking overrides the chunker configuration.
type Chunking struct {
	Tokenizer  string `yaml:"tokenizer,omitempty"`
	MaxTokens  int    `yaml:"max_tokens,omitempty"`
	MinTokens  int    `yaml:"min_tokens,omitempty"`
	MergePeers *bool  `yaml:"merge_peers,omitempty"`
}

// Authoring overrides the generation and review thresholds.
type Authoring struct {
	NumExamples     int `yaml:"num_examples,omitempty"`
	PairsPerExample int `yaml:"pairs_per_example,omitempty"`
	MinExamples     int `yaml:"min_examples,omitempty"`
	MaxContexts     int `yaml:"max_contexts,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the declaration before any filesystem work happens.
func (m *Manifest) Validate() error {
	if m.Workspace == "" {
		return fmt.Errorf("manifest: workspace name is required")
	}
	if len(m.Contributions) == 0 {
		return fmt.Errorf("manifest: at least one contribution is required")
	}
	seen := make(map[string]bool)
	for _, c := range m.Contributions {
		wc := workspace.Contribution{Name: c.Name, Domain: c.Domain, Summary: c.Summary}
		if err := wc.Validate(); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if seen[c.Name] {
			return fmt.Errorf("manifest: duplicate contribution name %q", c.Name)
		}
		seen[c.Name] = true
		for _, doc := range c.Documents {
			if !convert.IsSupportedExtension(doc) {
				return fmt.Errorf("manifest: contribution %s: unsupported document type: %s", c.Name, doc)
			}
		}
	}
	return nil
}

// ConvertOptions merges the manifest's conversion overrides onto the
// defaults.
func (m *Manifest) ConvertOptions() convert.Options {
	opts := convert.DefaultOptions()
	if m.Conversion == nil {
		return opts
	}
	if m.Conversion.PDFFallbackPdftotext != nil {
		opts.PDFFallbackPdftotext = *m.Conversion.PDFFallbackPdftotext
	}
	if m.Conversion.DetectTables != nil {
		opts.DetectTables = *m.Conversion.DetectTables
	}
	if m.Conversion.WriteSummary != nil {
		opts.WriteSummary = *m.Conversion.WriteSummary
	}
	if m.Conversion.CSVBatchRows > 0 {
		opts.CSVBatchRows = m.Conversion.CSVBatchRows
	}
	return opts
}

// ChunkerConfig merges the manifest's chunking overrides onto the defaults.
func (m *Manifest) ChunkerConfig() chunker.Config {
	cfg := chunker.DefaultConfig()
	if m.Chunking == nil {
		return cfg
	}
	if m.Chunking.Tokenizer != "" {
		cfg.Tokenizer = m.Chunking.Tokenizer
	}
	if m.Chunking.MaxTokens > 0 {
		cfg.MaxTokens = m.Chunking.MaxTokens
	}
	if m.Chunking.MinTokens > 0 {
		cfg.MinTokens = m.Chunking.MinTokens
	}
	if m.Chunking.MergePeers != nil {
		cfg.MergePeers = *m.Chunking.MergePeers
	}
	return cfg
}
