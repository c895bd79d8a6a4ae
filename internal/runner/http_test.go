package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/learnhub/internal/auth"
	"github.com/gokatarajesh/learnhub/internal/auth/jwt"
)

func newSessionRouter(svc *Service, userKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithClaims(r.Context(), &jwt.Claims{UserKey: userKey})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Route("/v1/sessions", NewHTTPHandlers(svc, zerolog.Nop()).Routes)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPQuizFlow(t *testing.T) {
	f := newFixture(t, nil)
	router := newSessionRouter(f.svc, "learner")

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", `{"quiz_id":"7"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view View
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	base := "/v1/sessions/" + view.SessionID

	assert.NotContains(t, rec.Body.String(), "correct_choice_id")

	rec = doJSON(t, router, http.MethodPost, base+"/next", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_operation")

	for _, pick := range []struct{ q, c string }{{"1", "11"}, {"2", "11"}, {"3", "13"}} {
		rec = doJSON(t, router, http.MethodPut, base+"/answer", `{"question_id":"`+pick.q+`","choice_id":"`+pick.c+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = doJSON(t, router, http.MethodPost, base+"/next", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, base+"/score", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"correct_count":2,"total_questions":3,"percentage":67}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, base+"/submission/retry", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "nothing_to_retry")

	rec = doJSON(t, router, http.MethodPost, base+"/retake", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPStartErrors(t *testing.T) {
	f := newFixture(t, nil)
	router := newSessionRouter(f.svc, "learner")

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/sessions", `{"quiz_id":"404"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "quiz_not_found")

	rec = doJSON(t, router, http.MethodPost, "/v1/sessions", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPOtherUsersSessionIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	view, err := f.svc.Start(context.Background(), "learner", StartRequest{QuizID: "7"})
	require.NoError(t, err)

	rec := doJSON(t, newSessionRouter(f.svc, "intruder"), http.MethodGet, "/v1/sessions/"+view.SessionID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_not_found")
}
