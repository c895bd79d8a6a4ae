package runner

import (
	"errors"

	"github.com/gokatarajesh/learnhub/internal/quiz"
)

var (
	// ErrSessionNotFound is returned for unknown ids and sessions owned by someone else.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNothingToRetry is returned when no failed final submission is pending.
	ErrNothingToRetry = errors.New("no failed submission to retry")
)

// SubmissionStatus tracks the final submission of the latest completion.
type SubmissionStatus string

const (
	SubmissionNone    SubmissionStatus = "none"
	SubmissionPending SubmissionStatus = "pending"
	SubmissionSynced  SubmissionStatus = "synced"
	SubmissionFailed  SubmissionStatus = "failed"
)

// StartRequest selects the quiz to run and how to arrange its questions.
type StartRequest struct {
	QuizID  string `json:"quiz_id"`
	Shuffle bool   `json:"shuffle,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// AnswerRequest selects a choice for the current question.
type AnswerRequest struct {
	QuestionID string `json:"question_id"`
	ChoiceID   string `json:"choice_id"`
}

// QuestionView is a question as shown to the learner; the correct choice is withheld.
type QuestionView struct {
	ID      string        `json:"id"`
	Text    string        `json:"text"`
	Image   string        `json:"image,omitempty"`
	Choices []quiz.Choice `json:"choices"`
}

// View is the render state of a hosted session.
type View struct {
	SessionID        string           `json:"session_id"`
	QuizID           string           `json:"quiz_id"`
	QuizName         string           `json:"quiz_name"`
	Phase            quiz.Phase       `json:"phase"`
	Index            int              `json:"index"`
	Total            int              `json:"total"`
	Answered         int              `json:"answered"`
	Question         *QuestionView    `json:"question,omitempty"`
	SelectedChoiceID string           `json:"selected_choice_id,omitempty"`
	CanGoBack        bool             `json:"can_go_back"`
	IsLast           bool             `json:"is_last"`
	Score            *quiz.Score      `json:"score,omitempty"`
	Submission       SubmissionStatus `json:"submission"`
}
