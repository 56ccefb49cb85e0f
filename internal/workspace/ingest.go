package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Ingest copies a source file byte-for-byte into the contribution's
// source_documents directory, preserving the filename. A file already
// present under the same name is overwritten. Returns the destination path.
func (l Layout) Ingest(contrib, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("ingest %s: %w", src, err)
	}
	defer in.Close()

	dst := filepath.Join(l.SourceDocumentsDir(contrib), filepath.Base(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("ingest %s: %w", src, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("ingest %s: copy: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("ingest %s: close: %w", src, err)
	}
	return dst, nil
}

// SourceDocuments lists the files currently in the contribution's
// source_documents directory, sorted by name.
func (l Layout) SourceDocuments(contrib string) ([]string, error) {
	dir := l.SourceDocumentsDir(contrib)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list source documents for %s: %w", contrib, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
