package chunker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Cursor is a finite, non-restartable reader over a stored chunk sequence.
// Records are decoded on demand in write order; once exhausted the cursor
// stays exhausted.
type Cursor struct {
	f       *os.File
	scanner *bufio.Scanner
	line    int
	done    bool
}

// OpenCursor opens a cursor over a chunks.jsonl file.
func OpenCursor(path string) (*Cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Cursor{f: f, scanner: scanner}, nil
}

// Next returns the next record. ok is false once the sequence is exhausted
// or after an error.
func (c *Cursor) Next() (rec Record, ok bool, err error) {
	if c.done {
		return Record{}, false, nil
	}
	for c.scanner.Scan() {
		c.line++
		if len(c.scanner.Bytes()) == 0 {
			continue
		}
		if err := json.Unmarshal(c.scanner.Bytes(), &rec); err != nil {
			c.done = true
			return Record{}, false, fmt.Errorf("chunk record line %d: %w", c.line, err)
		}
		return rec, true, nil
	}
	c.done = true
	if err := c.scanner.Err(); err != nil {
		return Record{}, false, err
	}
	return Record{}, false, nil
}

// Close releases the underlying file.
func (c *Cursor) Close() error {
	c.done = true
	return c.f.Close()
}
