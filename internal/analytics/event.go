package analytics

import "time"

// Event names emitted by quiz sessions.
const (
	EventQuizStart        = "quiz_start"
	EventQuizNavigate     = "quiz_navigate"
	EventQuizComplete     = "quiz_complete"
	EventQuizRetake       = "quiz_retake"
	EventSubmissionFailed = "submission_failed"
)

// Event is a single best-effort analytics record.
type Event struct {
	Name    string         `json:"event"`
	UserKey string         `json:"user_key,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	At      time.Time      `json:"at"`
}
