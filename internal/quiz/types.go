package quiz

import (
	"errors"
	"fmt"
)

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

var (
	// ErrInvalidOperation is returned when an operation violates its precondition.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrConstruction is returned when a session cannot be built from a definition.
	ErrConstruction = errors.New("invalid quiz definition")
)

// Choice is one selectable option of a question. Slice order is display order.
type Choice struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Question is a single-answer multiple choice prompt.
type Question struct {
	ID              string   `json:"id" yaml:"id"`
	Text            string   `json:"text" yaml:"text"`
	Image           string   `json:"image,omitempty" yaml:"image,omitempty"`
	Choices         []Choice `json:"choices" yaml:"choices"`
	CorrectChoiceID string   `json:"correct_choice_id" yaml:"correct_choice_id"`
}

// HasChoice reports whether choiceID is one of the question's choices.
func (q Question) HasChoice(choiceID string) bool {
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return true
		}
	}
	return false
}

// Definition is an immutable, ordered quiz.
type Definition struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	ThemeID   string     `json:"theme_id,omitempty" yaml:"theme_id,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Answers maps question ID to the selected choice ID. A missing key means unanswered.
type Answers map[string]string

func (a Answers) clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Validate checks the structural invariants a session relies on.
func Validate(def Definition) error {
	if len(def.Questions) == 0 {
		return fmt.Errorf("%w: quiz %q has no questions", ErrConstruction, def.ID)
	}

	seenQuestions := make(map[string]struct{}, len(def.Questions))
	for i, q := range def.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question at position %d has no id", ErrConstruction, i)
		}
		if _, dup := seenQuestions[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrConstruction, q.ID)
		}
		seenQuestions[q.ID] = struct{}{}

		if len(q.Choices) == 0 {
			return fmt.Errorf("%w: question %q has no choices", ErrConstruction, q.ID)
		}
		seenChoices := make(map[string]struct{}, len(q.Choices))
		matches := 0
		for _, c := range q.Choices {
			if _, dup := seenChoices[c.ID]; dup {
				return fmt.Errorf("%w: question %q has duplicate choice id %q", ErrConstruction, q.ID, c.ID)
			}
			seenChoices[c.ID] = struct{}{}
			if c.ID == q.CorrectChoiceID {
				matches++
			}
		}
		if matches != 1 {
			return fmt.Errorf("%w: question %q correct choice %q is not one of its choices", ErrConstruction, q.ID, q.CorrectChoiceID)
		}
	}
	return nil
}

func cloneDefinition(def Definition) Definition {
	out := def
	out.Questions = make([]Question, len(def.Questions))
	for i, q := range def.Questions {
		q.Choices = append([]Choice(nil), q.Choices...)
		out.Questions[i] = q
	}
	return out
}
