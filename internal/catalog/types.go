package catalog

import (
	"errors"

	"github.com/gokatarajesh/learnhub/internal/quiz"
)

var (
	// ErrQuizNotFound is returned when no published quiz has the requested id.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrUpstream is returned when the remote API fails and no fallback can serve.
	ErrUpstream = errors.New("quiz catalog unavailable")
)

// Source records where an entry came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceBank   Source = "bank"
)

// Summary is the list-card view of a published quiz.
type Summary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Image         string `json:"image,omitempty"`
	ThemeID       string `json:"theme_id,omitempty"`
	QuestionCount int    `json:"question_count"`
	Source        Source `json:"source"`
}

// Entry pairs a summary with the full definition a session runs.
type Entry struct {
	Summary    Summary         `json:"summary"`
	Definition quiz.Definition `json:"definition"`
}

func summaries(entries []Entry) []Summary {
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Summary)
	}
	return out
}
