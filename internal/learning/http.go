package learning

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/auth"
	"github.com/gokatarajesh/learnhub/internal/userstore"
	httperrors "github.com/gokatarajesh/learnhub/pkg/http/errors"
)

// HTTPHandler exposes themes and the course proxy.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "learning_http").Logger(),
	}
}

// ThemeRoutes mounts /v1/themes.
func (h *HTTPHandler) ThemeRoutes(r chi.Router) {
	r.Get("/", h.HandleThemes)
	r.Get("/{themeID}", h.HandleTheme)
}

// CourseRoutes mounts /v1/courses; callers apply RequireAuth.
func (h *HTTPHandler) CourseRoutes(r chi.Router) {
	r.Get("/", h.HandleCourses)
	r.Get("/progress", h.HandleProgress)
	r.Post("/mark-video-complete", h.HandleMarkVideoComplete)
	r.Get("/{courseID}", h.HandleCourse)
}

// HandleThemes serves GET /v1/themes
func (h *HTTPHandler) HandleThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.svc.Themes(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"themes": themes})
}

// HandleTheme serves GET /v1/themes/{themeID}
func (h *HTTPHandler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.svc.Theme(r.Context(), chi.URLParam(r, "themeID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, theme)
}

// HandleCourses serves GET /v1/courses
func (h *HTTPHandler) HandleCourses(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Courses(r.Context())
	h.respondDocument(w, doc, err)
}

// HandleCourse serves GET /v1/courses/{courseID}
func (h *HTTPHandler) HandleCourse(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Course(r.Context(), auth.UserKeyFromContext(r.Context()), chi.URLParam(r, "courseID"))
	h.respondDocument(w, doc, err)
}

// HandleProgress serves GET /v1/courses/progress
func (h *HTTPHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Progress(r.Context(), auth.UserKeyFromContext(r.Context()))
	h.respondDocument(w, doc, err)
}

// HandleMarkVideoComplete serves POST /v1/courses/mark-video-complete
func (h *HTTPHandler) HandleMarkVideoComplete(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	doc, err := h.svc.MarkVideoComplete(r.Context(), auth.UserKeyFromContext(r.Context()), body)
	h.respondDocument(w, doc, err)
}

func (h *HTTPHandler) respondDocument(w http.ResponseWriter, doc Document, err error) {
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrThemeNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeThemeNotFound, "Theme not found")
	case errors.Is(err, ErrCourseNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeCourseNotFound, "Course not found")
	case errors.Is(err, userstore.ErrUserNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeUserNotFound, "User not found. Please log in again.")
	case errors.Is(err, ErrUpstream):
		h.logger.Warn().Err(err).Msg("learning platform unavailable")
		httperrors.RespondBadGateway(w, "Learning content unavailable")
	default:
		h.logger.Error().Err(err).Msg("learning request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}
