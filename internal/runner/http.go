package runner

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/auth"
	"github.com/gokatarajesh/learnhub/internal/catalog"
	"github.com/gokatarajesh/learnhub/internal/quiz"
	httperrors "github.com/gokatarajesh/learnhub/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for quiz sessions.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for session endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "runner_http").Logger(),
	}
}

// Routes mounts the session endpoints; callers apply auth middleware.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Post("/", h.Start)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Close)
		r.Put("/answer", h.Select)
		r.Post("/next", h.Next)
		r.Post("/previous", h.Previous)
		r.Post("/retake", h.Retake)
		r.Get("/score", h.Score)
		r.Post("/submission/retry", h.RetrySubmission)
	})
}

// Start handles POST /v1/sessions
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuizID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "quiz_id is required", "quiz_id")
		return
	}

	view, err := h.service.Start(r.Context(), auth.UserKeyFromContext(r.Context()), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, view)
}

// Get handles GET /v1/sessions/{sessionID}
func (h *HTTPHandlers) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	h.respondView(w, view, err)
}

// Select handles PUT /v1/sessions/{sessionID}/answer
func (h *HTTPHandlers) Select(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.QuestionID == "" || req.ChoiceID == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "question_id and choice_id are required")
		return
	}

	view, err := h.service.Select(auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID"), req)
	h.respondView(w, view, err)
}

// Next handles POST /v1/sessions/{sessionID}/next
func (h *HTTPHandlers) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Next(r.Context(), auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	h.respondView(w, view, err)
}

// Previous handles POST /v1/sessions/{sessionID}/previous
func (h *HTTPHandlers) Previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Previous(auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	h.respondView(w, view, err)
}

// Retake handles POST /v1/sessions/{sessionID}/retake
func (h *HTTPHandlers) Retake(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Retake(auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	h.respondView(w, view, err)
}

// Score handles GET /v1/sessions/{sessionID}/score
func (h *HTTPHandlers) Score(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.Score(auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, score)
}

// RetrySubmission handles POST /v1/sessions/{sessionID}/submission/retry
func (h *HTTPHandlers) RetrySubmission(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RetrySubmission(auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusAccepted, view)
}

// Close handles DELETE /v1/sessions/{sessionID}
func (h *HTTPHandlers) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "sessionID")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandlers) respondView(w http.ResponseWriter, view View, err error) {
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, view)
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session not found")
	case errors.Is(err, catalog.ErrQuizNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
	case errors.Is(err, quiz.ErrInvalidOperation):
		httperrors.RespondConflict(w, httperrors.ErrCodeInvalidOperation, err.Error())
	case errors.Is(err, quiz.ErrConstruction):
		httperrors.RespondError(w, http.StatusUnprocessableEntity, httperrors.ErrCodeInvalidQuiz, err.Error())
	case errors.Is(err, ErrNothingToRetry):
		httperrors.RespondConflict(w, httperrors.ErrCodeNothingToRetry, err.Error())
	case errors.Is(err, catalog.ErrUpstream):
		httperrors.RespondBadGateway(w, "Quiz catalog unavailable")
	default:
		h.logger.Error().Err(err).Msg("session request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}
