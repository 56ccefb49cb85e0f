package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seedforge/seedforge/internal/chunker"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

const validManifest = `workspace: demo
contributions:
  - name: onboarding
    domain: human resources
    summary: Employee onboarding guide
    documents:
      - handbook.pdf
      - faq.md
`

func TestLoad_Valid(t *testing.T) {
	m, err := Load(writeManifest(t, validManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Workspace != "demo" {
		t.Errorf("workspace = %q", m.Workspace)
	}
	if len(m.Contributions) != 1 || m.Contributions[0].Name != "onboarding" {
		t.Fatalf("contributions = %+v", m.Contributions)
	}
	if len(m.Contributions[0].Documents) != 2 {
		t.Errorf("documents = %v", m.Contributions[0].Documents)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing workspace",
			body: "contributions:\n  - name: a\n    domain: x\n    summary: s\n",
			want: "workspace",
		},
		{
			name: "no contributions",
			body: "workspace: demo\n",
			want: "at least one contribution",
		},
		{
			name: "duplicate names",
			body: "workspace: demo\ncontributions:\n  - name: a\n    domain: x\n    summary: s\n  - name: a\n    domain: x\n    summary: s\n",
			want: "duplicate",
		},
		{
			name: "domain too long",
			body: "workspace: demo\ncontributions:\n  - name: a\n    domain: one two three four\n    summary: s\n",
			want: "domain",
		},
		{
			name: "unsupported document",
			body: "workspace: demo\ncontributions:\n  - name: a\n    domain: x\n    summary: s\n    documents: [slides.pptx]\n",
			want: "unsupported document type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConvertOptions_Overrides(t *testing.T) {
	f := false
	m := &Manifest{Conversion: &Conversion{WriteSummary: &f, CSVBatchRows: 50}}
	opts := m.ConvertOptions()
	if opts.WriteSummary {
		t.Error("WriteSummary override ignored")
	}
	if opts.CSVBatchRows != 50 {
		t.Errorf("CSVBatchRows = %d", opts.CSVBatchRows)
	}
	if !opts.DetectTables {
		t.Error("unset options should keep defaults")
	}
}

func TestConvertOptions_Defaults(t *testing.T) {
	m := &Manifest{}
	if m.ConvertOptions() != (&Manifest{Conversion: &Conversion{}}).ConvertOptions() {
		t.Error("nil and empty overrides should both yield defaults")
	}
}

func TestChunkerConfig_Overrides(t *testing.T) {
	f := false
	m := &Manifest{Chunking: &Chunking{Tokenizer: chunker.TokenizerChars, MaxTokens: 512, MergePeers: &f}}
	cfg := m.ChunkerConfig()
	if cfg.Tokenizer != chunker.TokenizerChars || cfg.MaxTokens != 512 || cfg.MergePeers {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.MinTokens != chunker.DefaultConfig().MinTokens {
		t.Error("unset MinTokens should keep default")
	}
}
