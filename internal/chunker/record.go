package chunker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seedforge/seedforge/internal/doctree"
)

// Record is one line of a chunks.jsonl file.
type Record struct {
	Chunk    string         `json:"chunk"`
	File     string         `json:"file"`
	Metadata map[string]any `json:"metadata"`
}

// NewRecord builds the JSONL record for one chunk of a document. The chunk
// field carries the contextualized rendering; the raw text and structural
// details live in metadata.
func NewRecord(docTitle, fileName string, c doctree.Chunk) Record {
	md := map[string]any{
		"index": c.Index,
		"title": docTitle,
	}
	if len(c.Breadcrumb) > 0 {
		md["breadcrumb"] = c.Breadcrumb
	}
	if c.PageStart > 0 {
		md["page_start"] = c.PageStart
		md["page_end"] = c.PageEnd
	}
	return Record{
		Chunk:    Contextualize(docTitle, c),
		File:     fileName,
		Metadata: md,
	}
}

// AppendRecords appends records to a chunks.jsonl file, one JSON object per
// line, creating the file if needed. The handle is released before
// returning.
func AppendRecords(path string, records []Record) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	enc := json.NewEncoder(f)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			return fmt.Errorf("write chunk record: %w", err)
		}
	}
	return f.Close()
}

// ReadRecords loads every record from a chunks.jsonl file in write order.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return records, nil
}
