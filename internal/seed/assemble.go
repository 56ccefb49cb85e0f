package seed

import (
	"fmt"
	"strings"

	"github.com/seedforge/seedforge/internal/author"
	"github.com/seedforge/seedforge/internal/chunker"
)

// AssembleInput names the inputs for one contribution's record set.
type AssembleInput struct {
	Contribution string
	ChunkFile    string // chunking/chunks.jsonl
	QNAFile      string // authoring/qna.yaml
}

// Assemble joins a contribution's chunk records with its authored seed
// examples into one record set, one output record per chunk.
//
// Join policy: a chunk is paired with the first seed example whose context
// appears verbatim in the chunk text — the strongest signal the authoring
// file carries. Chunks with no matching context fall back to deterministic
// round-robin pairing by chunk index.
func Assemble(in AssembleInput) ([]Record, error) {
	records, err := chunker.ReadRecords(in.ChunkFile)
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", in.Contribution, err)
	}
	qna, err := author.LoadQNA(in.QNAFile)
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", in.Contribution, err)
	}
	if len(qna.SeedExamples) == 0 {
		return nil, fmt.Errorf("assemble %s: authoring file has no seed examples", in.Contribution)
	}

	out := make([]Record, 0, len(records))
	for i, chunk := range records {
		example := matchExample(chunk, qna.SeedExamples)
		if example == nil {
			example = &qna.SeedExamples[i%len(qna.SeedExamples)]
		}
		out = append(out, joinRecord(in.Contribution, qna, chunk, example))
	}
	return out, nil
}

// matchExample returns the first example whose context occurs verbatim in
// the chunk text, or nil.
func matchExample(chunk chunker.Record, examples []author.SeedExample) *author.SeedExample {
	for i := range examples {
		ctx := strings.TrimSpace(examples[i].Context)
		if ctx != "" && strings.Contains(chunk.Chunk, ctx) {
			return &examples[i]
		}
	}
	return nil
}

// joinRecord flattens one chunk/example pair into a dataset row. Columns
// are the union of the chunk fields and the seed-example fields.
func joinRecord(contribution string, qna *author.QNA, chunk chunker.Record, example *author.SeedExample) Record {
	rec := Record{
		"chunk":        chunk.Chunk,
		"file":         chunk.File,
		"metadata":     chunk.Metadata,
		"contribution": contribution,
		"domain":       qna.Domain,
		"summary":      qna.Summary,
		"seed_context": example.Context,
	}
	for i, qa := range example.QuestionsAndAnswers {
		rec[fmt.Sprintf("question_%d", i+1)] = qa.Question
		rec[fmt.Sprintf("answer_%d", i+1)] = qa.Answer
	}
	return rec
}
