package chunker

import (
	"strings"

	"github.com/seedforge/seedforge/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	Tokenizer  string // Token estimator identity: "words" (default) or "chars".
	MaxTokens  int    // Maximum tokens per chunk.
	MinTokens  int    // Chunks below this are merge candidates.
	MergePeers bool   // Merge undersized adjacent chunks under the same heading path.
}

// DefaultConfig returns the settings used when the manifest specifies none.
func DefaultConfig() Config {
	return Config{
		Tokenizer:  TokenizerWords,
		MaxTokens:  1024,
		MinTokens:  64,
		MergePeers: true,
	}
}

func (c Config) normalized() Config {
	if c.Tokenizer == "" {
		c.Tokenizer = TokenizerWords
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if c.MinTokens <= 0 {
		c.MinTokens = 64
	}
	if c.MinTokens > c.MaxTokens {
		c.MinTokens = c.MaxTokens
	}
	return c
}

// ChunkTree walks a converted document in traversal order and produces
// structure-aware chunks. Oversized nodes are split at paragraph and then
// sentence boundaries; with MergePeers, undersized adjacent chunks that
// share a heading path are merged back together while staying under
// MaxTokens.
func ChunkTree(tree *doctree.DocTree, cfg Config) []doctree.Chunk {
	cfg = cfg.normalized()
	count := counterFor(cfg.Tokenizer)

	var chunks []doctree.Chunk
	var walk func(node *doctree.DocNode, breadcrumb []string)
	walk = func(node *doctree.DocNode, breadcrumb []string) {
		bc := breadcrumb
		if node.Title != "" {
			bc = append(append([]string{}, breadcrumb...), node.Title)
		}

		if node.Text != "" {
			for _, part := range splitText(node.Text, cfg.MaxTokens, count) {
				chunks = append(chunks, doctree.Chunk{
					Text:       part,
					Breadcrumb: bc,
					PageStart:  node.Page,
					PageEnd:    node.Page,
				})
			}
		}

		for _, child := range node.Children {
			walk(child, bc)
		}
	}
	for _, child := range tree.Children {
		walk(child, nil)
	}

	if cfg.MergePeers {
		chunks = mergePeers(chunks, cfg, count)
	}
	for i := range chunks {
		chunks[i].Index = i
	}
	return chunks
}

// mergePeers coalesces adjacent chunks with identical breadcrumbs when at
// least one of the pair is undersized and the result still fits.
func mergePeers(chunks []doctree.Chunk, cfg Config, count TokenCounter) []doctree.Chunk {
	if len(chunks) < 2 {
		return chunks
	}
	merged := chunks[:1]
	for _, c := range chunks[1:] {
		prev := &merged[len(merged)-1]
		undersized := count(prev.Text) < cfg.MinTokens || count(c.Text) < cfg.MinTokens
		if undersized && sameBreadcrumb(prev.Breadcrumb, c.Breadcrumb) &&
			count(prev.Text)+count(c.Text) <= cfg.MaxTokens {
			prev.Text += "\n\n" + c.Text
			if c.PageEnd > prev.PageEnd {
				prev.PageEnd = c.PageEnd
			}
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

func sameBreadcrumb(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Contextualize renders a chunk for prompting: the document and heading
// path first, then the chunk text.
func Contextualize(docTitle string, c doctree.Chunk) string {
	path := docTitle
	if len(c.Breadcrumb) > 0 {
		path += " > " + strings.Join(c.Breadcrumb, " > ")
	}
	return path + "\n\n" + c.Text
}

// splitText breaks text into pieces of at most maxTokens, preferring
// paragraph boundaries and falling back to sentence boundaries.
func splitText(text string, maxTokens int, count TokenCounter) []string {
	if count(text) <= maxTokens {
		return []string{text}
	}

	var result []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if currentTokens > 0 {
			result = append(result, current.String())
			current.Reset()
			currentTokens = 0
		}
	}

	for _, para := range splitParagraphs(text) {
		paraTokens := count(para)

		// A single paragraph beyond the limit splits at sentences.
		if paraTokens > maxTokens {
			flush()
			for _, sent := range splitSentences(para) {
				sentTokens := count(sent)
				if currentTokens+sentTokens > maxTokens {
					flush()
				}
				if current.Len() > 0 {
					current.WriteString(" ")
				}
				current.WriteString(sent)
				currentTokens += sentTokens
			}
			flush()
			continue
		}

		if currentTokens+paraTokens > maxTokens {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}
	flush()

	return result
}

func splitParagraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}
	return sentences
}
