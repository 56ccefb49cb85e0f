package author

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/seedforge/seedforge/internal/chunker"
)

// GenerateInput carries everything one authoring run needs.
type GenerateInput struct {
	Contribution    string
	Domain          string
	Summary         string
	ChunkFile       string // chunks.jsonl path
	OutDir          string // authoring directory
	NumExamples     int    // target example count
	PairsPerExample int
	MaxContexts     int // chunk texts sampled into the prompt
}

// Generator drives the external generation service for one contribution.
type Generator struct {
	client *Client
	log    *slog.Logger
}

// NewGenerator wraps a client.
func NewGenerator(client *Client, log *slog.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// Generate reads the contribution's chunk file, asks the generation service
// for seed examples and writes authoring/qna.yaml. Service failures
// propagate as hard failures for the contribution; the field counts are
// enforced later by Review, not here.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (string, error) {
	if in.NumExamples <= 0 {
		return "", fmt.Errorf("author %s: target example count must be positive", in.Contribution)
	}
	if in.PairsPerExample <= 0 {
		return "", fmt.Errorf("author %s: pairs per example must be positive", in.Contribution)
	}
	if in.MaxContexts <= 0 {
		in.MaxContexts = 2 * in.NumExamples
	}

	records, err := chunker.ReadRecords(in.ChunkFile)
	if err != nil {
		return "", fmt.Errorf("author %s: %w", in.Contribution, err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("author %s: chunk file %s is empty", in.Contribution, filepath.Base(in.ChunkFile))
	}

	prompt := BuildPrompt(in.Domain, in.Summary, SampleContexts(records, in.MaxContexts), in.NumExamples, in.PairsPerExample)

	reply, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("author %s: %w", in.Contribution, err)
	}

	var examples []SeedExample
	if err := json.Unmarshal([]byte(reply), &examples); err != nil {
		return "", fmt.Errorf("author %s: parse generated examples: %w (raw: %s)", in.Contribution, err, truncate(reply, 200))
	}

	qna := &QNA{
		Domain:       in.Domain,
		Summary:      in.Summary,
		SeedExamples: examples,
	}
	path := filepath.Join(in.OutDir, "qna.yaml")
	if err := qna.Save(path); err != nil {
		return "", fmt.Errorf("author %s: %w", in.Contribution, err)
	}

	if g.log != nil {
		g.log.Info("authored seed examples", "contribution", in.Contribution, "examples", len(examples), "path", path)
	}
	return path, nil
}
