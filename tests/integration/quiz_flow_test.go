//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
)

type sessionView struct {
	SessionID string `json:"session_id"`
	Phase     string `json:"phase"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Question  *struct {
		ID      string `json:"id"`
		Choices []struct {
			ID string `json:"id"`
		} `json:"choices"`
	} `json:"question"`
	Score *struct {
		CorrectCount   int `json:"correct_count"`
		TotalQuestions int `json:"total_questions"`
		Percentage     int `json:"percentage"`
	} `json:"score"`
	Submission string `json:"submission"`
}

func TestQuizFlow(t *testing.T) {
	baseURL := envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
	l := loginLearner(t, baseURL)

	resp := makeAuthenticatedRequest(t, http.MethodGet, fmt.Sprintf("%s/v1/quizzes", baseURL), l.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("list quizzes: unexpected status %d", resp.StatusCode)
	}
	var list struct {
		Quizzes []struct {
			ID string `json:"id"`
		} `json:"quizzes"`
	}
	decodeJSON(t, resp, &list)
	if len(list.Quizzes) == 0 {
		t.Skip("no published quizzes available")
	}

	resp = makeAuthenticatedRequest(t, http.MethodPost, fmt.Sprintf("%s/v1/sessions", baseURL), l.AccessToken, map[string]any{
		"quiz_id": list.Quizzes[0].ID,
	})
	if resp.StatusCode != http.StatusCreated {
		resp.Body.Close()
		t.Fatalf("start session: unexpected status %d", resp.StatusCode)
	}
	var view sessionView
	decodeJSON(t, resp, &view)
	base := fmt.Sprintf("%s/v1/sessions/%s", baseURL, view.SessionID)
	defer func() {
		makeAuthenticatedRequest(t, http.MethodDelete, base, l.AccessToken, nil).Body.Close()
	}()

	// Previous on the first question is a no-op.
	resp = makeAuthenticatedRequest(t, http.MethodPost, base+"/previous", l.AccessToken, nil)
	decodeJSON(t, resp, &view)
	if view.Index != 0 {
		t.Fatalf("expected index 0 after previous, got %d", view.Index)
	}

	for view.Phase == "in_progress" {
		if view.Question == nil || len(view.Question.Choices) == 0 {
			t.Fatal("in-progress view has no question")
		}
		resp = makeAuthenticatedRequest(t, http.MethodPut, base+"/answer", l.AccessToken, map[string]string{
			"question_id": view.Question.ID,
			"choice_id":   view.Question.Choices[0].ID,
		})
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			t.Fatalf("answer: unexpected status %d", resp.StatusCode)
		}
		resp.Body.Close()

		resp = makeAuthenticatedRequest(t, http.MethodPost, base+"/next", l.AccessToken, nil)
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			t.Fatalf("next: unexpected status %d", resp.StatusCode)
		}
		decodeJSON(t, resp, &view)
	}

	if view.Phase != "completed" || view.Score == nil {
		t.Fatalf("expected completed session with score, got %+v", view)
	}
	if view.Score.TotalQuestions != view.Total {
		t.Fatalf("score total %d does not match question count %d", view.Score.TotalQuestions, view.Total)
	}

	resp = makeAuthenticatedRequest(t, http.MethodPost, base+"/next", l.AccessToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("next on completed quiz: expected 409, got %d", resp.StatusCode)
	}

	resp = makeAuthenticatedRequest(t, http.MethodGet, fmt.Sprintf("%s/v1/history?limit=5", baseURL), l.AccessToken, nil)
	var hist struct {
		Attempts []struct {
			QuizID string `json:"quiz_id"`
		} `json:"attempts"`
	}
	decodeJSON(t, resp, &hist)
	if len(hist.Attempts) == 0 {
		t.Fatal("completed attempt missing from history")
	}

	resp = makeAuthenticatedRequest(t, http.MethodPost, base+"/retake", l.AccessToken, nil)
	decodeJSON(t, resp, &view)
	if view.Phase != "in_progress" || view.Index != 0 {
		t.Fatalf("retake did not reset the session: %+v", view)
	}
}
