package author

import "fmt"

// Review thresholds when the manifest specifies none.
const (
	DefaultMinExamples     = 5
	DefaultPairsPerExample = 3
)

// ReviewErrorKind classifies a structural validation failure.
type ReviewErrorKind string

const (
	TooFewExamples ReviewErrorKind = "too_few_examples"
	WrongPairCount ReviewErrorKind = "wrong_pair_count"
)

// ReviewError reports the kind and location of a structural problem in an
// authoring file. The file is never auto-repaired.
type ReviewError struct {
	Kind    ReviewErrorKind
	Path    string
	Example int // offending example index for WrongPairCount, -1 otherwise
	Got     int
	Want    int
}

func (e *ReviewError) Error() string {
	switch e.Kind {
	case TooFewExamples:
		return fmt.Sprintf("%s: too few examples: got %d, want at least %d", e.Path, e.Got, e.Want)
	case WrongPairCount:
		return fmt.Sprintf("%s: example %d has %d question/answer pairs, want exactly %d", e.Path, e.Example, e.Got, e.Want)
	default:
		return fmt.Sprintf("%s: invalid authoring file", e.Path)
	}
}

// Review parses an authoring file and checks it against the thresholds: at
// least minExamples seed examples, each with exactly pairsPerExample
// question/answer pairs. Returns the parsed specification on success.
func Review(path string, minExamples, pairsPerExample int) (*QNA, error) {
	if minExamples <= 0 {
		minExamples = DefaultMinExamples
	}
	if pairsPerExample <= 0 {
		pairsPerExample = DefaultPairsPerExample
	}

	qna, err := LoadQNA(path)
	if err != nil {
		return nil, err
	}

	if len(qna.SeedExamples) < minExamples {
		return nil, &ReviewError{
			Kind:    TooFewExamples,
			Path:    path,
			Example: -1,
			Got:     len(qna.SeedExamples),
			Want:    minExamples,
		}
	}
	for i, ex := range qna.SeedExamples {
		if len(ex.QuestionsAndAnswers) != pairsPerExample {
			return nil, &ReviewError{
				Kind:    WrongPairCount,
				Path:    path,
				Example: i,
				Got:     len(ex.QuestionsAndAnswers),
				Want:    pairsPerExample,
			}
		}
	}
	return qna, nil
}
