package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gokatarajesh/learnhub/internal/analytics"
	"github.com/gokatarajesh/learnhub/internal/history"
	"github.com/gokatarajesh/learnhub/internal/notify"
	"github.com/gokatarajesh/learnhub/internal/quiz"
	"github.com/gokatarajesh/learnhub/internal/submission"
	"github.com/gokatarajesh/learnhub/internal/userstore"
)

const (
	stageAnswer = "answer"
	stageFinal  = "final"
)

// completed runs once per completion: local history, analytics, then the final
// submission in the background.
func (s *Service) completed(ctx context.Context, owner, sessionID string, def quiz.Definition, c quiz.Completion, attempt int) {
	s.emit(owner, analytics.EventQuizComplete, map[string]any{
		"quiz_id":         c.QuizID,
		"score":           c.Score.CorrectCount,
		"total_questions": c.Score.TotalQuestions,
		"percentage":      c.Score.Percentage,
	})
	s.logger.Info().
		Str("session_id", sessionID).
		Str("quiz_id", c.QuizID).
		Int("correct", c.Score.CorrectCount).
		Int("total", c.Score.TotalQuestions).
		Msg("quiz completed")

	attemptID := s.recordAttempt(ctx, owner, def, c)
	if attemptID != "" {
		s.update(owner, sessionID, attempt, func(h *hosted) { h.attemptID = attemptID })
	}

	s.submitFinal(owner, sessionID, def, c, attempt, attemptID)
}

func (s *Service) recordAttempt(ctx context.Context, owner string, def quiz.Definition, c quiz.Completion) string {
	if s.deps.History == nil {
		return ""
	}
	saved, err := s.deps.History.Save(ctx, history.Attempt{
		UserKey:        owner,
		QuizID:         c.QuizID,
		QuizName:       def.Name,
		CorrectCount:   c.Score.CorrectCount,
		TotalQuestions: c.Score.TotalQuestions,
		Percentage:     c.Score.Percentage,
		StartedAt:      c.StartedAt,
		CompletedAt:    c.CompletedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", c.QuizID).Msg("failed to record attempt")
		return ""
	}
	return saved.ID
}

// submitFinal schedules the COMPLETED submission. Its outcome only changes the
// submission status of the same attempt; the local score never changes.
func (s *Service) submitFinal(owner, sessionID string, def quiz.Definition, c quiz.Completion, attempt int, attemptID string) {
	task := func(ctx context.Context) error {
		userID, err := s.deps.Users.UserID(ctx, owner)
		if err != nil {
			return err
		}
		err = s.deps.Submitter.Submit(ctx, submission.Final(userID, def, c, s.opts.DefaultThemeID))
		s.deps.Metrics.submission(stageFinal, err)
		if err != nil {
			return err
		}
		if attemptID != "" && s.deps.History != nil {
			if err := s.deps.History.MarkSynced(ctx, attemptID); err != nil {
				s.logger.Warn().Err(err).Str("attempt_id", attemptID).Msg("failed to mark attempt synced")
			}
		}
		return nil
	}

	onDone := func(err error) {
		status := SubmissionSynced
		if err != nil {
			status = SubmissionFailed
		}
		s.update(owner, sessionID, attempt, func(h *hosted) { h.submission = status })
		s.finalOutcome(owner, sessionID, c.QuizID, err)
	}

	if !s.deps.Dispatcher.Go("submit_final:"+sessionID, task, onDone) {
		onDone(errors.New("submission dispatcher closed"))
	}
}

func (s *Service) finalOutcome(owner, sessionID, quizID string, err error) {
	if err == nil {
		s.notice(owner, notify.KindSubmissionSynced, sessionID, quizID, notify.MessageSynced)
		return
	}

	s.emit(owner, analytics.EventSubmissionFailed, map[string]any{"quiz_id": quizID, "stage": stageFinal})
	if errors.Is(err, userstore.ErrUserNotFound) {
		s.notice(owner, notify.KindSubmissionWarning, sessionID, quizID, notify.MessageUserNotFound)
		return
	}
	s.notice(owner, notify.KindSubmissionWarning, sessionID, quizID, notify.MessageSyncFailed)
}

// submitAnswer sends a single IN_PROGRESS response. Failures are reported but leave
// the session untouched.
func (s *Service) submitAnswer(owner, sessionID string, def quiz.Definition, req AnswerRequest, startedAt time.Time) {
	task := func(ctx context.Context) error {
		userID, err := s.deps.Users.UserID(ctx, owner)
		if err != nil {
			return err
		}
		err = s.deps.Submitter.Submit(ctx, submission.Answer(userID, def, req.QuestionID, req.ChoiceID, startedAt, s.opts.DefaultThemeID))
		s.deps.Metrics.submission(stageAnswer, err)
		return err
	}

	onDone := func(err error) {
		if err == nil {
			return
		}
		s.emit(owner, analytics.EventSubmissionFailed, map[string]any{"quiz_id": def.ID, "stage": stageAnswer})
		msg := notify.MessageAnswerFailed
		if errors.Is(err, userstore.ErrUserNotFound) {
			msg = notify.MessageUserNotFound
		}
		s.notice(owner, notify.KindAnswerSyncFailed, sessionID, def.ID, msg)
	}

	name := fmt.Sprintf("submit_answer:%s:%s", sessionID, req.QuestionID)
	if !s.deps.Dispatcher.Go(name, task, onDone) {
		onDone(errors.New("submission dispatcher closed"))
	}
}

// update applies fn if the session still exists and is on the same attempt.
func (s *Service) update(owner, sessionID string, attempt int, fn func(*hosted)) {
	h, ok := s.sessions.get(sessionID, owner)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attempt != attempt || h.completion == nil {
		return
	}
	fn(h)
}

func (s *Service) notice(owner string, kind notify.Kind, sessionID, quizID, msg string) {
	if s.deps.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.deps.Notifier.Publish(ctx, notify.Notice{
		UserKey:   owner,
		Kind:      kind,
		SessionID: sessionID,
		QuizID:    quizID,
		Message:   msg,
		At:        s.opts.Clock(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("failed to publish notice")
	}
}
