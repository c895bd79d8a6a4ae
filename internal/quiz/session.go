package quiz

import (
	"fmt"
	"math/rand"
	"time"
)

// Completion is produced exactly once each time a session enters the completed phase.
// It carries everything the final submission needs.
type Completion struct {
	QuizID      string
	ThemeID     string
	Answers     Answers
	Score       Score
	StartedAt   time.Time
	CompletedAt time.Time
}

// Option customizes session construction.
type Option func(*options)

type options struct {
	rng             *rand.Rand
	limit           int
	allowUnanswered bool
	clock           func() time.Time
}

// WithShuffle shuffles the question order once, at construction.
func WithShuffle(rng *rand.Rand) Option {
	return func(o *options) {
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		o.rng = rng
	}
}

// WithLimit keeps only the first n questions (after shuffling). n <= 0 keeps all.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// AllowUnanswered lets Next advance past a question with no recorded answer.
func AllowUnanswered() Option {
	return func(o *options) { o.allowUnanswered = true }
}

// WithClock overrides time.Now for start/end markers.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Session is the live quiz-taking state machine. It is not safe for concurrent use;
// callers serialize access.
type Session struct {
	def             Definition
	index           int
	answers         Answers
	phase           Phase
	score           Score
	allowUnanswered bool
	clock           func() time.Time
	startedAt       time.Time
	completedAt     time.Time
}

// New builds a session in InProgress(0). A definition that fails Validate yields
// an error wrapping ErrConstruction and no session.
func New(def Definition, opts ...Option) (*Session, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	owned := cloneDefinition(def)
	if o.rng != nil {
		shuffle(owned.Questions, o.rng)
	}
	if o.limit > 0 && o.limit < len(owned.Questions) {
		owned.Questions = owned.Questions[:o.limit]
	}

	return &Session{
		def:             owned,
		answers:         Answers{},
		phase:           PhaseInProgress,
		allowUnanswered: o.allowUnanswered,
		clock:           o.clock,
		startedAt:       o.clock(),
	}, nil
}

// Fisher-Yates over a slice the session owns.
func shuffle(questions []Question, rng *rand.Rand) {
	for i := len(questions) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		questions[i], questions[j] = questions[j], questions[i]
	}
}

// Definition returns a copy of the (possibly shuffled) definition the session runs.
func (s *Session) Definition() Definition { return cloneDefinition(s.def) }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the current question position.
func (s *Session) Index() int { return s.index }

// Len returns the number of questions in the session.
func (s *Session) Len() int { return len(s.def.Questions) }

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() Answers { return s.answers.clone() }

// StartedAt returns the start marker of the current attempt.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// CompletedAt returns the end marker, zero while in progress.
func (s *Session) CompletedAt() time.Time { return s.completedAt }

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() (Question, error) {
	if s.phase != PhaseInProgress {
		return Question{}, fmt.Errorf("%w: quiz is completed", ErrInvalidOperation)
	}
	return s.def.Questions[s.index], nil
}

// SelectAnswer records choiceID for the current question, overwriting any earlier pick.
func (s *Session) SelectAnswer(questionID, choiceID string) error {
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: quiz is completed", ErrInvalidOperation)
	}
	current := s.def.Questions[s.index]
	if questionID != current.ID {
		return fmt.Errorf("%w: question %q is not the current question", ErrInvalidOperation, questionID)
	}
	if !current.HasChoice(choiceID) {
		return fmt.Errorf("%w: choice %q is not offered by question %q", ErrInvalidOperation, choiceID, questionID)
	}
	s.answers[questionID] = choiceID
	return nil
}

// Next advances to the following question. On the last question it scores the
// attempt, enters Completed and returns the Completion; otherwise Completion is nil.
func (s *Session) Next() (*Completion, error) {
	if s.phase != PhaseInProgress {
		return nil, fmt.Errorf("%w: quiz is completed", ErrInvalidOperation)
	}
	current := s.def.Questions[s.index]
	if _, answered := s.answers[current.ID]; !answered && !s.allowUnanswered {
		return nil, fmt.Errorf("%w: question %q has no answer", ErrInvalidOperation, current.ID)
	}

	if s.index < len(s.def.Questions)-1 {
		s.index++
		return nil, nil
	}

	s.score = Compute(s.def, s.answers)
	s.phase = PhaseCompleted
	s.completedAt = s.clock()

	return &Completion{
		QuizID:      s.def.ID,
		ThemeID:     s.def.ThemeID,
		Answers:     s.answers.clone(),
		Score:       s.score,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}, nil
}

// Previous steps back one question. At index 0 it is a no-op.
func (s *Session) Previous() error {
	if s.phase != PhaseInProgress {
		return fmt.Errorf("%w: quiz is completed", ErrInvalidOperation)
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Retake restarts a completed quiz with the same question order.
func (s *Session) Retake() error {
	if s.phase != PhaseCompleted {
		return fmt.Errorf("%w: quiz is still in progress", ErrInvalidOperation)
	}
	s.index = 0
	s.answers = Answers{}
	s.score = Score{}
	s.phase = PhaseInProgress
	s.startedAt = s.clock()
	s.completedAt = time.Time{}
	return nil
}

// Score returns the result of the completed attempt.
func (s *Session) Score() (Score, error) {
	if s.phase != PhaseCompleted {
		return Score{}, fmt.Errorf("%w: quiz is still in progress", ErrInvalidOperation)
	}
	return s.score, nil
}
