package history

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/learnhub/internal/auth"
	"github.com/gokatarajesh/learnhub/internal/auth/jwt"
)

func TestHandleListUsesAuthenticatedUser(t *testing.T) {
	store := new(mockStore)
	store.On("ListAttempts", mock.Anything, "learner", 3).Return([]Attempt{{ID: "a1", QuizID: "7", Percentage: 67}}, nil)
	h := NewHTTPHandler(NewRepository(store), zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/v1/history?limit=3", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &jwt.Claims{UserKey: "learner"}))
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Attempts []Attempt `json:"attempts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Attempts, 1)
	assert.Equal(t, 67, body.Attempts[0].Percentage)
}

func TestHandleListStoreFailure(t *testing.T) {
	store := new(mockStore)
	store.On("ListAttempts", mock.Anything, "", defaultListLimit).Return(nil, errors.New("disk full"))
	h := NewHTTPHandler(NewRepository(store), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "history_fetch_failed")
}
