package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/analytics"
	"github.com/gokatarajesh/learnhub/internal/history"
	"github.com/gokatarajesh/learnhub/internal/notify"
	"github.com/gokatarajesh/learnhub/internal/quiz"
	"github.com/gokatarajesh/learnhub/internal/submission"
	"github.com/gokatarajesh/learnhub/internal/userstore"
)

type catalogSource interface {
	Definition(ctx context.Context, id string) (quiz.Definition, error)
}

type submitter interface {
	Submit(ctx context.Context, p submission.Payload) error
}

type dispatcher interface {
	Go(name string, task submission.Task, onDone func(error)) bool
}

type attemptRecorder interface {
	Save(ctx context.Context, a history.Attempt) (history.Attempt, error)
	MarkSynced(ctx context.Context, id string) error
}

type eventEmitter interface {
	Emit(userKey, name string, params map[string]any)
}

// Deps are the collaborators a Service talks to. History, Notifier, Events and
// Metrics are optional.
type Deps struct {
	Catalog    catalogSource
	Submitter  submitter
	Dispatcher dispatcher
	Users      userstore.Reader
	History    attemptRecorder
	Notifier   notify.Publisher
	Events     eventEmitter
	Metrics    *Metrics
}

// Options tune session behavior.
type Options struct {
	DefaultThemeID    string
	PersistEachAnswer bool
	RequireAnswer     bool
	TrackNavigation   bool
	IdleTTL           time.Duration
	DefaultLimit      int
	Clock             func() time.Time
}

// Service hosts live quiz sessions for many users. Local state transitions finish
// before any network work is scheduled, and network work never holds a session lock.
type Service struct {
	deps     Deps
	opts     Options
	sessions *registry
	logger   zerolog.Logger
}

func NewService(deps Deps, opts Options, logger zerolog.Logger) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	return &Service{
		deps:     deps,
		opts:     opts,
		sessions: newRegistry(),
		logger:   logger.With().Str("component", "runner").Logger(),
	}
}

// Start resolves the quiz and hosts a new session for owner.
func (s *Service) Start(ctx context.Context, owner string, req StartRequest) (View, error) {
	def, err := s.deps.Catalog.Definition(ctx, req.QuizID)
	if err != nil {
		return View{}, fmt.Errorf("load quiz %s: %w", req.QuizID, err)
	}

	opts := []quiz.Option{quiz.WithClock(s.opts.Clock)}
	if req.Shuffle {
		opts = append(opts, quiz.WithShuffle(nil))
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if limit > 0 {
		opts = append(opts, quiz.WithLimit(limit))
	}
	if !s.opts.RequireAnswer {
		opts = append(opts, quiz.AllowUnanswered())
	}

	session, err := quiz.New(def, opts...)
	if err != nil {
		return View{}, err
	}

	h := &hosted{
		id:         uuid.NewString(),
		owner:      owner,
		session:    session,
		lastActive: s.opts.Clock(),
		submission: SubmissionNone,
	}
	s.deps.Metrics.setActive(s.sessions.add(h))

	s.emit(owner, analytics.EventQuizStart, map[string]any{
		"quiz_id":        def.ID,
		"quiz_name":      def.Name,
		"question_count": session.Len(),
	})
	s.logger.Info().Str("session_id", h.id).Str("quiz_id", def.ID).Str("user", owner).Msg("session started")

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view(), nil
}

// Get returns the current view of a session.
func (s *Service) Get(owner, sessionID string) (View, error) {
	return s.with(owner, sessionID, func(*hosted) error { return nil })
}

// Select records an answer for the current question.
func (s *Service) Select(owner, sessionID string, req AnswerRequest) (View, error) {
	var (
		def       quiz.Definition
		startedAt time.Time
	)
	view, err := s.with(owner, sessionID, func(h *hosted) error {
		if err := h.session.SelectAnswer(req.QuestionID, req.ChoiceID); err != nil {
			return err
		}
		if s.opts.PersistEachAnswer {
			def = h.session.Definition()
			startedAt = h.session.StartedAt()
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	if s.opts.PersistEachAnswer {
		s.submitAnswer(owner, sessionID, def, req, startedAt)
	}
	return view, nil
}

// Next advances the session. When it completes the quiz the score is final locally
// and the COMPLETED submission is scheduled in the background.
func (s *Service) Next(ctx context.Context, owner, sessionID string) (View, error) {
	var (
		completion *quiz.Completion
		def        quiz.Definition
		attempt    int
	)
	view, err := s.with(owner, sessionID, func(h *hosted) error {
		c, err := h.session.Next()
		if err != nil {
			return err
		}
		if c != nil {
			h.attempt++
			h.completion = c
			h.attemptID = ""
			h.submission = SubmissionPending
			completion, def, attempt = c, h.session.Definition(), h.attempt
		}
		return nil
	})
	if err != nil {
		return View{}, err
	}

	if completion == nil {
		s.navigated(owner, view, "next")
		return view, nil
	}

	s.completed(ctx, owner, sessionID, def, *completion, attempt)
	return view, nil
}

// Previous steps back one question; at the first question it changes nothing.
func (s *Service) Previous(owner, sessionID string) (View, error) {
	view, err := s.with(owner, sessionID, func(h *hosted) error {
		return h.session.Previous()
	})
	if err != nil {
		return View{}, err
	}
	s.navigated(owner, view, "previous")
	return view, nil
}

// Retake restarts a completed session with the same questions.
func (s *Service) Retake(owner, sessionID string) (View, error) {
	view, err := s.with(owner, sessionID, func(h *hosted) error {
		if err := h.session.Retake(); err != nil {
			return err
		}
		h.completion = nil
		h.attemptID = ""
		h.submission = SubmissionNone
		return nil
	})
	if err != nil {
		return View{}, err
	}
	s.emit(owner, analytics.EventQuizRetake, map[string]any{"quiz_id": view.QuizID})
	return view, nil
}

// Score returns the result of a completed session.
func (s *Service) Score(owner, sessionID string) (quiz.Score, error) {
	var score quiz.Score
	_, err := s.with(owner, sessionID, func(h *hosted) error {
		var err error
		score, err = h.session.Score()
		return err
	})
	return score, err
}

// RetrySubmission re-sends the final submission of the latest completion after a
// failure.
func (s *Service) RetrySubmission(owner, sessionID string) (View, error) {
	var (
		completion quiz.Completion
		def        quiz.Definition
		attempt    int
		attemptID  string
	)
	view, err := s.with(owner, sessionID, func(h *hosted) error {
		if h.completion == nil || h.submission != SubmissionFailed {
			return ErrNothingToRetry
		}
		h.submission = SubmissionPending
		completion, def, attempt, attemptID = *h.completion, h.session.Definition(), h.attempt, h.attemptID
		return nil
	})
	if err != nil {
		return View{}, err
	}

	s.submitFinal(owner, sessionID, def, completion, attempt, attemptID)
	return view, nil
}

// Close discards a session.
func (s *Service) Close(owner, sessionID string) error {
	remaining, ok := s.sessions.remove(sessionID, owner)
	if !ok {
		return ErrSessionNotFound
	}
	s.deps.Metrics.setActive(remaining)
	s.logger.Debug().Str("session_id", sessionID).Msg("session closed")
	return nil
}

// Reap discards sessions idle since before now minus the idle TTL.
func (s *Service) Reap(now time.Time) int {
	removed, remaining := s.sessions.removeIdle(now.Add(-s.opts.IdleTTL))
	s.deps.Metrics.setActive(remaining)
	return removed
}

// Active returns the number of hosted sessions.
func (s *Service) Active() int {
	return s.sessions.len()
}

// with runs fn under the session lock and returns the resulting view.
func (s *Service) with(owner, sessionID string, fn func(*hosted) error) (View, error) {
	h, ok := s.sessions.get(sessionID, owner)
	if !ok {
		return View{}, ErrSessionNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := fn(h); err != nil {
		return View{}, err
	}
	h.lastActive = s.opts.Clock()
	return h.view(), nil
}

func (s *Service) navigated(owner string, view View, direction string) {
	if !s.opts.TrackNavigation {
		return
	}
	s.emit(owner, analytics.EventQuizNavigate, map[string]any{
		"quiz_id":   view.QuizID,
		"index":     view.Index,
		"direction": direction,
	})
}

func (s *Service) emit(owner, name string, params map[string]any) {
	if s.deps.Events == nil {
		return
	}
	s.deps.Events.Emit(owner, name, params)
}

// view renders h; callers hold h.mu.
func (h *hosted) view() View {
	def := h.session.Definition()
	answers := h.session.Answers()
	v := View{
		SessionID:  h.id,
		QuizID:     def.ID,
		QuizName:   def.Name,
		Phase:      h.session.Phase(),
		Index:      h.session.Index(),
		Total:      h.session.Len(),
		Answered:   len(answers),
		Submission: h.submission,
	}

	if v.Phase == quiz.PhaseCompleted {
		if score, err := h.session.Score(); err == nil {
			v.Score = &score
		}
		return v
	}

	q, err := h.session.CurrentQuestion()
	if err != nil {
		return v
	}
	v.Question = &QuestionView{ID: q.ID, Text: q.Text, Image: q.Image, Choices: q.Choices}
	v.SelectedChoiceID = answers[q.ID]
	v.CanGoBack = v.Index > 0
	v.IsLast = v.Index == v.Total-1
	return v
}
