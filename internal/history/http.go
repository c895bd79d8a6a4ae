package history

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/auth"
	httperrors "github.com/gokatarajesh/learnhub/pkg/http/errors"
)

// HTTPHandler exposes the recent activity list.
type HTTPHandler struct {
	repo   *Repository
	logger zerolog.Logger
}

func NewHTTPHandler(repo *Repository, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		repo:   repo,
		logger: logger.With().Str("component", "history_http").Logger(),
	}
}

// HandleList serves GET /v1/history?limit=10
func (h *HTTPHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	attempts, err := h.repo.Recent(r.Context(), auth.UserKeyFromContext(r.Context()), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("history fetch failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeHistoryFetchFailed, "Failed to load recent activity")
		return
	}
	if attempts == nil {
		attempts = []Attempt{}
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
}
