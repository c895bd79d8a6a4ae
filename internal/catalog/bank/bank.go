package bank

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gokatarajesh/learnhub/internal/quiz"
)

// Quiz is one offline quiz in the bank file.
type Quiz struct {
	quiz.Definition `yaml:",inline"`
	Description     string `yaml:"description"`
	Image           string `yaml:"image"`
}

type document struct {
	Quizzes []Quiz `yaml:"quizzes"`
}

// Bank is an offline question bank served when the remote API is unreachable.
type Bank struct {
	quizzes []Quiz
}

// Load reads a YAML bank from path. An empty path yields an empty bank.
func Load(path string) (*Bank, error) {
	if path == "" {
		return &Bank{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quiz bank: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML bank and validates every quiz in it.
func Decode(r io.Reader) (*Bank, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode quiz bank: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Quizzes))
	for _, q := range doc.Quizzes {
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("quiz bank: duplicate quiz id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		if err := quiz.Validate(q.Definition); err != nil {
			return nil, fmt.Errorf("quiz bank: %w", err)
		}
	}
	return &Bank{quizzes: doc.Quizzes}, nil
}

// Quizzes returns the bank's quizzes in file order.
func (b *Bank) Quizzes() []Quiz {
	if b == nil {
		return nil
	}
	return append([]Quiz(nil), b.quizzes...)
}

// Len reports the number of quizzes in the bank.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.quizzes)
}
