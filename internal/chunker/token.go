package chunker

import "strings"

// Recognized tokenizer identities.
const (
	TokenizerWords = "words"
	TokenizerChars = "chars"
)

// TokenCounter estimates the token count of a piece of text.
type TokenCounter func(text string) int

// counterFor maps a tokenizer identity to its estimator. Unknown names fall
// back to the word-based estimator.
func counterFor(tokenizer string) TokenCounter {
	if tokenizer == TokenizerChars {
		return estimateTokensChars
	}
	return EstimateTokens
}

// EstimateTokens gives a rough token count from the word count. Exact
// tokenization is not required for chunk sizing.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 1.33 tokens per word for English text.
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// estimateTokensChars uses the ~4 chars/token heuristic.
func estimateTokensChars(text string) int {
	if text == "" {
		return 0
	}
	tokens := len(text) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
