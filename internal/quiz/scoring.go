package quiz

// Score summarizes a completed attempt.
type Score struct {
	CorrectCount   int `json:"correct_count"`
	TotalQuestions int `json:"total_questions"`
	Percentage     int `json:"percentage"`
}

// Compute scores answers against every question of def. Unanswered questions count
// as incorrect; there is no partial credit or weighting.
func Compute(def Definition, answers Answers) Score {
	correct := 0
	for _, q := range def.Questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectChoiceID {
			correct++
		}
	}
	total := len(def.Questions)
	return Score{
		CorrectCount:   correct,
		TotalQuestions: total,
		Percentage:     Percentage(correct, total),
	}
}

// Percentage returns round-half-up(100*correct/total). A zero total yields 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
