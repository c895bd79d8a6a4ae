package notify

import (
	"context"
	"time"
)

// Kind classifies a notice.
type Kind string

const (
	KindSubmissionWarning Kind = "submission_warning"
	KindAnswerSyncFailed  Kind = "answer_sync_failed"
	KindSubmissionSynced  Kind = "submission_synced"
)

// Messages shown to learners.
const (
	MessageSyncFailed   = "Quiz completed locally but failed to sync with server."
	MessageUserNotFound = "User not found. Please login again."
	MessageAnswerFailed = "Your answer was saved locally but could not be synced."
	MessageSynced       = "Quiz results synced with server."
)

// Notice is a non-blocking message about a session, addressed to one user.
type Notice struct {
	UserKey   string    `json:"user_key"`
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"session_id,omitempty"`
	QuizID    string    `json:"quiz_id,omitempty"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Publisher delivers notices to whichever instance holds the user's socket.
type Publisher interface {
	Publish(ctx context.Context, n Notice) error
}
