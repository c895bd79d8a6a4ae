package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StatusPublished marks quizzes that may be shown to learners.
const StatusPublished = "PUBLISHED"

// ID accepts both JSON numbers and strings and keeps the textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Choice is a selectable answer as returned by the learning API.
type Choice struct {
	ID     ID     `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// Question is a quiz question as returned by the learning API.
type Question struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	AnswerID    ID       `json:"answer_id"`
	Choices     []Choice `json:"choices"`
}

// Quiz is the learning API's quiz document.
type Quiz struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	Image       string     `json:"quize_image"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ThemeID     ID         `json:"theme_id"`
	Questions   []Question `json:"questions"`
}

// Published reports whether the quiz may be offered.
func (q Quiz) Published() bool { return q.Status == StatusPublished }

type listResponse struct {
	Data    []Quiz `json:"data"`
	Message string `json:"message"`
}

type detailResponse struct {
	Data    *Quiz  `json:"data"`
	Message string `json:"message"`
}
