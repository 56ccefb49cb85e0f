package chunker

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/seedforge/seedforge/internal/doctree"
)

func writeTestRecords(t *testing.T, path string, file string, n int) []Record {
	t.Helper()
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, NewRecord("Doc", file, doctree.Chunk{
			Text:       strings.Repeat("text ", 10),
			Index:      i,
			Breadcrumb: []string{"Section"},
			PageStart:  1,
			PageEnd:    1,
		}))
	}
	if err := AppendRecords(path, records); err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}
	return records
}

func TestNewRecord_Fields(t *testing.T) {
	rec := NewRecord("Doc", "doc.pdf", doctree.Chunk{
		Text:       "Body.",
		Index:      4,
		Breadcrumb: []string{"A", "B"},
		PageStart:  2,
		PageEnd:    3,
	})

	if rec.File != "doc.pdf" {
		t.Errorf("expected file doc.pdf, got %q", rec.File)
	}
	if rec.Chunk != "Doc > A > B\n\nBody." {
		t.Errorf("unexpected contextualized chunk: %q", rec.Chunk)
	}
	if rec.Metadata["index"] != 4 {
		t.Errorf("expected index metadata 4, got %v", rec.Metadata["index"])
	}
	if rec.Metadata["page_start"] != 2 || rec.Metadata["page_end"] != 3 {
		t.Errorf("unexpected page metadata: %v", rec.Metadata)
	}
}

func TestAppendReadRecords_CountAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")

	written := writeTestRecords(t, path, "a.pdf", 3)
	writeTestRecords(t, path, "b.pdf", 2)

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 records, got %d", len(got))
	}
	for i := 0; i < 3; i++ {
		if got[i].File != "a.pdf" {
			t.Errorf("record %d: expected file a.pdf, got %q", i, got[i].File)
		}
	}
	for i := 3; i < 5; i++ {
		if got[i].File != "b.pdf" {
			t.Errorf("record %d: expected file b.pdf, got %q", i, got[i].File)
		}
	}
	if got[0].Chunk != written[0].Chunk {
		t.Errorf("first record chunk changed: %q", got[0].Chunk)
	}
}

func TestCursor_NonRestartable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	writeTestRecords(t, path, "a.pdf", 3)

	cursor, err := OpenCursor(path)
	if err != nil {
		t.Fatalf("OpenCursor: %v", err)
	}
	defer cursor.Close()

	seen := 0
	for {
		_, ok, err := cursor.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		seen++
	}
	if seen != 3 {
		t.Errorf("expected 3 records, got %d", seen)
	}

	// Exhausted stays exhausted.
	for i := 0; i < 2; i++ {
		if _, ok, err := cursor.Next(); ok || err != nil {
			t.Errorf("expected exhausted cursor, got ok=%v err=%v", ok, err)
		}
	}
}

func TestCursor_MissingFile(t *testing.T) {
	if _, err := OpenCursor(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("expected error for missing chunk file")
	}
}
