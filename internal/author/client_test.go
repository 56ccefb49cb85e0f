package author

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seedforge/seedforge/internal/chunker"
	"github.com/seedforge/seedforge/internal/doctree"
)

// fakeEndpoint returns an httptest server speaking the chat completions
// shape, replying with the given content.
func fakeEndpoint(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": content}},
				},
			})
		} else {
			w.Write([]byte(`{"error":{"type":"overloaded","message":"try later"}}`))
		}
	}))
}

func TestComplete_StripsCodeFence(t *testing.T) {
	srv := fakeEndpoint(t, http.StatusOK, "```json\n[{\"x\":1}]\n```")
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "test-key", "test-model", 5*time.Second)
	defer c.Close()

	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `[{"x":1}]` {
		t.Errorf("expected fenced content stripped, got %q", got)
	}
}

func TestComplete_RetryableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := fakeEndpoint(t, status, "")
		c := NewClient(srv.URL+"/v1", "test-key", "test-model", 5*time.Second)

		_, err := c.Complete(context.Background(), "prompt")
		var rerr *RetryableError
		if !errors.As(err, &rerr) {
			t.Errorf("status %d: expected RetryableError, got %v", status, err)
		} else if rerr.StatusCode != status {
			t.Errorf("expected status %d recorded, got %d", status, rerr.StatusCode)
		}

		c.Close()
		srv.Close()
	}
}

func TestComplete_NonRetryableStatus(t *testing.T) {
	srv := fakeEndpoint(t, http.StatusUnauthorized, "")
	defer srv.Close()

	c := NewClient(srv.URL+"/v1", "test-key", "test-model", 5*time.Second)
	defer c.Close()

	_, err := c.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected hard failure on 401")
	}
	var rerr *RetryableError
	if errors.As(err, &rerr) {
		t.Error("401 must not be retryable")
	}
}

func genExamplesJSON(t *testing.T, examples, pairs int) string {
	t.Helper()
	q := testQNA(examples, pairs)
	data, err := json.Marshal(q.SeedExamples)
	if err != nil {
		t.Fatalf("marshal examples: %v", err)
	}
	return string(data)
}

func TestGenerate_WritesQNAFile(t *testing.T) {
	srv := fakeEndpoint(t, http.StatusOK, genExamplesJSON(t, 5, 3))
	defer srv.Close()

	chunkFile := filepath.Join(t.TempDir(), "chunks.jsonl")
	var records []chunker.Record
	for i := 0; i < 4; i++ {
		records = append(records, chunker.NewRecord("Doc", "doc.txt", doctree.Chunk{Text: "chunk text", Index: i}))
	}
	if err := chunker.AppendRecords(chunkFile, records); err != nil {
		t.Fatalf("AppendRecords: %v", err)
	}

	client := NewClient(srv.URL+"/v1", "test-key", "test-model", 5*time.Second)
	defer client.Close()
	g := NewGenerator(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	outDir := t.TempDir()
	path, err := g.Generate(context.Background(), GenerateInput{
		Contribution:    "sample",
		Domain:          "testing",
		Summary:         "a test corpus",
		ChunkFile:       chunkFile,
		OutDir:          outDir,
		NumExamples:     5,
		PairsPerExample: 3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if path != filepath.Join(outDir, "qna.yaml") {
		t.Errorf("unexpected output path: %s", path)
	}

	q, err := Review(path, 5, 3)
	if err != nil {
		t.Fatalf("generated file failed review: %v", err)
	}
	if q.Domain != "testing" || q.Summary != "a test corpus" {
		t.Errorf("expected document fields from input, got %+v", q)
	}
}

func TestGenerate_EmptyChunkFile(t *testing.T) {
	chunkFile := filepath.Join(t.TempDir(), "chunks.jsonl")
	if err := os.WriteFile(chunkFile, nil, 0o644); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	client := NewClient("http://localhost:1", "k", "m", time.Second)
	g := NewGenerator(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := g.Generate(context.Background(), GenerateInput{
		Contribution:    "sample",
		Domain:          "d",
		Summary:         "s",
		ChunkFile:       chunkFile,
		OutDir:          t.TempDir(),
		NumExamples:     5,
		PairsPerExample: 3,
	})
	if err == nil {
		t.Error("expected error for empty chunk file")
	}
}

func TestSampleContexts(t *testing.T) {
	var records []chunker.Record
	for i := 0; i < 10; i++ {
		records = append(records, chunker.Record{Chunk: string(rune('a' + i))})
	}

	all := SampleContexts(records, 20)
	if len(all) != 10 {
		t.Errorf("expected all 10 contexts, got %d", len(all))
	}

	sampled := SampleContexts(records, 4)
	if len(sampled) != 4 {
		t.Fatalf("expected 4 contexts, got %d", len(sampled))
	}
	if sampled[0] != "a" {
		t.Errorf("expected sampling to start at the head, got %q", sampled[0])
	}
	// Spread across the sequence, not just the head.
	if sampled[3] == "d" {
		t.Errorf("expected even spread, got %v", sampled)
	}

	if got := SampleContexts(nil, 4); got != nil {
		t.Errorf("expected nil for empty records, got %v", got)
	}
}
