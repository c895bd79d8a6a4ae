package history

import (
	"errors"
	"time"
)

// ErrAttemptNotFound is returned when an attempt id is unknown.
var ErrAttemptNotFound = errors.New("attempt not found")

// Attempt is one completed quiz attempt shown under "Recent Activity".
type Attempt struct {
	ID             string    `json:"id"`
	UserKey        string    `json:"-"`
	QuizID         string    `json:"quiz_id"`
	QuizName       string    `json:"quiz_name"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	Synced         bool      `json:"synced"`
}
