package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/learnhub/pkg/http/errors"
)

// HTTPHandler exposes the published quiz list.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "catalog_http").Logger(),
	}
}

// HandleList serves GET /v1/quizzes
func (h *HTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Published(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if list == nil {
		list = []Summary{}
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"quizzes": list})
}

// HandleGet serves GET /v1/quizzes/{quizID}
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuizNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
	case errors.Is(err, ErrUpstream):
		h.logger.Warn().Err(err).Msg("catalog unavailable")
		httperrors.RespondBadGateway(w, "Quiz catalog unavailable")
	default:
		h.logger.Error().Err(err).Msg("catalog request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}
