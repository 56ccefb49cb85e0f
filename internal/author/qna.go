package author

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// QNA is the reviewable authoring specification for one contribution,
// persisted as qna.yaml.
type QNA struct {
	Domain       string        `yaml:"domain" json:"domain"`
	Summary      string        `yaml:"document_outline" json:"document_outline"`
	SeedExamples []SeedExample `yaml:"seed_examples" json:"seed_examples"`
}

// SeedExample is one authored exemplar: a context drawn from chunk content
// plus a fixed number of question/answer pairs.
type SeedExample struct {
	Context             string   `yaml:"context" json:"context"`
	QuestionsAndAnswers []QAPair `yaml:"questions_and_answers" json:"questions_and_answers"`
}

// QAPair is a single question and its answer.
type QAPair struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// Save writes the specification as YAML. The handle is released before
// returning.
func (q *QNA) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(q); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// LoadQNA parses a qna.yaml file.
func LoadQNA(path string) (*QNA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var q QNA
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &q, nil
}
