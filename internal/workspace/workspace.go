package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fixed subdirectories every contribution directory carries.
const (
	DirSourceDocuments = "source_documents"
	DirConversion      = "conversion"
	DirChunking        = "chunking"
	DirAuthoring       = "authoring"
)

var contribSubdirs = []string{DirSourceDocuments, DirConversion, DirChunking, DirAuthoring}

// Layout resolves paths inside one named workspace under a root directory.
type Layout struct {
	Root      string
	Workspace string
}

// NewLayout returns a layout for root/workspace.
func NewLayout(root, workspace string) (Layout, error) {
	if root == "" {
		return Layout{}, fmt.Errorf("workspace root is required")
	}
	if workspace == "" {
		return Layout{}, fmt.Errorf("workspace name is required")
	}
	return Layout{Root: root, Workspace: workspace}, nil
}

// Path returns the workspace directory.
func (l Layout) Path() string {
	return filepath.Join(l.Root, l.Workspace)
}

// ContribDir returns the directory for one contribution.
func (l Layout) ContribDir(name string) string {
	return filepath.Join(l.Path(), name)
}

// SourceDocumentsDir returns <contrib>/source_documents.
func (l Layout) SourceDocumentsDir(name string) string {
	return filepath.Join(l.ContribDir(name), DirSourceDocuments)
}

// ConversionDir returns <contrib>/conversion.
func (l Layout) ConversionDir(name string) string {
	return filepath.Join(l.ContribDir(name), DirConversion)
}

// ChunkingDir returns <contrib>/chunking.
func (l Layout) ChunkingDir(name string) string {
	return filepath.Join(l.ContribDir(name), DirChunking)
}

// AuthoringDir returns <contrib>/authoring.
func (l Layout) AuthoringDir(name string) string {
	return filepath.Join(l.ContribDir(name), DirAuthoring)
}

// ChunkFile returns the per-contribution chunks.jsonl path.
func (l Layout) ChunkFile(name string) string {
	return filepath.Join(l.ChunkingDir(name), "chunks.jsonl")
}

// QNAFile returns the per-contribution qna.yaml path.
func (l Layout) QNAFile(name string) string {
	return filepath.Join(l.AuthoringDir(name), "qna.yaml")
}

// SeedFile returns the per-contribution seed_data-<name>.jsonl path.
func (l Layout) SeedFile(name string) string {
	return filepath.Join(l.ContribDir(name), "seed_data-"+name+".jsonl")
}

// DatasetFile returns the workspace-level seed_data.jsonl path.
func (l Layout) DatasetFile() string {
	return filepath.Join(l.Path(), "seed_data.jsonl")
}

// EnsureContribution idempotently creates the contribution directory and its
// four fixed subdirectories, including any missing intermediates. Existing
// directories are reused, never cleared.
func (l Layout) EnsureContribution(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("contribution name is required")
	}
	dir := l.ContribDir(name)
	for _, sub := range contribSubdirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return "", fmt.Errorf("ensure %s/%s: %w", name, sub, err)
		}
	}
	return dir, nil
}
