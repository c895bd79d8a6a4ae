package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `{
	"message": "ok",
	"data": [
		{
			"id": 12,
			"name": "Hygiene",
			"quize_image": "https://cdn/img.png",
			"description": "Basics",
			"status": "PUBLISHED",
			"theme_id": 9,
			"questions": [
				{"id": 1, "name": "Wash hands for?", "description": "", "image": null, "answer_id": 3,
				 "choices": [{"id": 2, "label": "5s", "status": "ACTIVE"}, {"id": 3, "label": "20s", "status": "ACTIVE"}]}
			]
		},
		{"id": "draft-1", "name": "Draft", "status": "DRAFT", "questions": []}
	]
}`

func TestClientListDecodesMixedIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quizzes", r.URL.Path)
		_, _ = w.Write([]byte(listBody))
	}))
	defer srv.Close()

	quizzes, err := NewClient(srv.URL, srv.Client()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, quizzes, 2)

	first := quizzes[0]
	assert.Equal(t, ID("12"), first.ID)
	assert.Equal(t, ID("9"), first.ThemeID)
	assert.True(t, first.Published())
	assert.Equal(t, ID("3"), first.Questions[0].AnswerID)
	assert.Equal(t, "20s", first.Questions[0].Choices[1].Label)

	assert.Equal(t, ID("draft-1"), quizzes[1].ID)
	assert.False(t, quizzes[1].Published())
}

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/quizzes/12":
			_, _ = w.Write([]byte(`{"data": {"id": 12, "name": "Hygiene", "status": "PUBLISHED"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())

	q, err := client.Get(context.Background(), "12")
	require.NoError(t, err)
	assert.Equal(t, "Hygiene", q.Name)

	_, err = client.Get(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientListUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).List(context.Background())
	assert.Error(t, err)
}
