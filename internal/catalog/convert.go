package catalog

import (
	"github.com/gokatarajesh/learnhub/internal/catalog/bank"
	"github.com/gokatarajesh/learnhub/internal/catalog/remote"
	"github.com/gokatarajesh/learnhub/internal/quiz"
)

// fromRemote maps the API document onto the session model. It does not validate:
// malformed quizzes surface as construction failures when a session starts.
func fromRemote(q remote.Quiz) Entry {
	def := quiz.Definition{
		ID:        q.ID.String(),
		Name:      q.Name,
		ThemeID:   q.ThemeID.String(),
		Questions: make([]quiz.Question, 0, len(q.Questions)),
	}
	for _, rq := range q.Questions {
		question := quiz.Question{
			ID:              rq.ID.String(),
			Text:            rq.Name,
			Image:           rq.Image,
			CorrectChoiceID: rq.AnswerID.String(),
			Choices:         make([]quiz.Choice, 0, len(rq.Choices)),
		}
		for _, c := range rq.Choices {
			question.Choices = append(question.Choices, quiz.Choice{ID: c.ID.String(), Label: c.Label})
		}
		def.Questions = append(def.Questions, question)
	}
	return Entry{
		Summary: Summary{
			ID:            def.ID,
			Name:          q.Name,
			Description:   q.Description,
			Image:         q.Image,
			ThemeID:       def.ThemeID,
			QuestionCount: len(def.Questions),
			Source:        SourceRemote,
		},
		Definition: def,
	}
}

func publishedFromRemote(quizzes []remote.Quiz) []Entry {
	out := make([]Entry, 0, len(quizzes))
	for _, q := range quizzes {
		if q.Published() {
			out = append(out, fromRemote(q))
		}
	}
	return out
}

func fromBank(quizzes []bank.Quiz) []Entry {
	out := make([]Entry, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, Entry{
			Summary: Summary{
				ID:            q.ID,
				Name:          q.Name,
				Description:   q.Description,
				Image:         q.Image,
				ThemeID:       q.ThemeID,
				QuestionCount: len(q.Questions),
				Source:        SourceBank,
			},
			Definition: q.Definition,
		})
	}
	return out
}
