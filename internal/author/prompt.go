package author

import (
	"fmt"
	"strings"

	"github.com/seedforge/seedforge/internal/chunker"
)

const generationInstructions = `You are helping prepare a seed dataset for synthetic data generation. Given excerpts from source documents, author seed examples a human reviewer could approve.

Return a JSON array with exactly %d example objects. Each object must have:

- "context": a verbatim passage taken from one of the excerpts below (string)
- "questions_and_answers": exactly %d objects, each with "question" and "answer" fields (strings)

Rules:
- Every context MUST be copied verbatim from one of the excerpts, never paraphrased.
- Questions must be answerable from their context alone.
- Answers must be grounded in the context, concise and factual.
- Cover different excerpts rather than reusing one.

Respond with ONLY the JSON array, no other text.`

// BuildPrompt creates the full generation prompt, grounding the request in
// the contribution's domain and summary and the sampled chunk texts.
func BuildPrompt(domain, summary string, contexts []string, numExamples, pairsPerExample int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, generationInstructions, numExamples, pairsPerExample)
	sb.WriteString("\n\n---\n")
	fmt.Fprintf(&sb, "Domain: %s\n", domain)
	fmt.Fprintf(&sb, "Document summary: %s\n", summary)
	sb.WriteString("---\n")
	for i, ctx := range contexts {
		fmt.Fprintf(&sb, "\nExcerpt %d:\n%s\n", i+1, ctx)
	}
	return sb.String()
}

// SampleContexts picks up to max chunk texts spread evenly across the
// sequence, so the prompt sees material from the whole document set rather
// than just its head.
func SampleContexts(records []chunker.Record, max int) []string {
	if max <= 0 || len(records) == 0 {
		return nil
	}
	if len(records) <= max {
		out := make([]string, len(records))
		for i, r := range records {
			out[i] = r.Chunk
		}
		return out
	}
	out := make([]string, 0, max)
	step := float64(len(records)) / float64(max)
	for i := 0; i < max; i++ {
		out = append(out, records[int(float64(i)*step)].Chunk)
	}
	return out
}
