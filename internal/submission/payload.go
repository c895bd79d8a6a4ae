package submission

import (
	"strconv"
	"time"

	"github.com/gokatarajesh/learnhub/internal/quiz"
)

// Status is the quiz_status field understood by the remote API.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

const dateLayout = "2006-01-02"

// Response is one answered question on the wire.
type Response struct {
	QuestionID any `json:"question_id"`
	ResponseID any `json:"response_id"`
}

// Payload is the body of POST /api/quizzes.
type Payload struct {
	UserID     any        `json:"user_id"`
	QuizID     any        `json:"quiz_id"`
	ThemeID    any        `json:"theme_id"`
	QuizStatus Status     `json:"quiz_status"`
	StartDate  string     `json:"start_date"`
	EndDate    *string    `json:"end_date"`
	Responses  []Response `json:"responses"`
}

// Final builds the COMPLETED submission for a finished attempt. Responses follow
// the session's question order; unanswered questions are omitted.
func Final(userID string, def quiz.Definition, c quiz.Completion, defaultThemeID string) Payload {
	responses := make([]Response, 0, len(c.Answers))
	for _, q := range def.Questions {
		choiceID, ok := c.Answers[q.ID]
		if !ok {
			continue
		}
		responses = append(responses, Response{QuestionID: wireID(q.ID), ResponseID: wireID(choiceID)})
	}
	end := wireDate(c.CompletedAt)
	return Payload{
		UserID:     wireID(userID),
		QuizID:     wireID(c.QuizID),
		ThemeID:    wireID(themeOrDefault(c.ThemeID, defaultThemeID)),
		QuizStatus: StatusCompleted,
		StartDate:  wireDate(c.StartedAt),
		EndDate:    &end,
		Responses:  responses,
	}
}

// Answer builds the IN_PROGRESS submission for a single selection.
func Answer(userID string, def quiz.Definition, questionID, choiceID string, startedAt time.Time, defaultThemeID string) Payload {
	return Payload{
		UserID:     wireID(userID),
		QuizID:     wireID(def.ID),
		ThemeID:    wireID(themeOrDefault(def.ThemeID, defaultThemeID)),
		QuizStatus: StatusInProgress,
		StartDate:  wireDate(startedAt),
		Responses:  []Response{{QuestionID: wireID(questionID), ResponseID: wireID(choiceID)}},
	}
}

func themeOrDefault(themeID, fallback string) string {
	if themeID != "" {
		return themeID
	}
	return fallback
}

// wireDate is the UTC calendar day of t.
func wireDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// wireID sends canonical integers as JSON numbers. Anything whose text would
// change when re-printed ("007", "+5") stays a string.
func wireID(id string) any {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != id {
		return id
	}
	return n
}
