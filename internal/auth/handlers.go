package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/userstore"
	httperrors "github.com/gokatarajesh/learnhub/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for authentication.
type HTTPHandlers struct {
	authSvc *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints.
func NewHTTPHandlers(authSvc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc: authSvc,
		logger:  logger.With().Str("component", "auth_http").Logger(),
	}
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	result, err := h.authSvc.Login(r.Context(), req)
	switch {
	case err == nil:
		httperrors.RespondJSON(w, http.StatusOK, result)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrLoginFailed):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, err.Error())
	default:
		h.logger.Error().Err(err).Msg("login failed")
		httperrors.RespondBadGateway(w, "Login service unavailable")
	}
}

// Logout handles POST /v1/auth/logout (requires auth middleware)
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	userKey := UserKeyFromContext(r.Context())
	if err := h.authSvc.Logout(r.Context(), userKey); err != nil {
		h.logger.Error().Err(err).Msg("logout failed")
		httperrors.RespondInternalError(w, "Logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMe handles GET /v1/users/me (requires auth middleware)
func (h *HTTPHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	userKey := UserKeyFromContext(r.Context())
	info, err := h.authSvc.Me(r.Context(), userKey)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeUnauthorized, "User not found. Please login again.")
			return
		}
		h.logger.Error().Err(err).Msg("load user info failed")
		httperrors.RespondInternalError(w, "Failed to load user")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]any{
		"user_key": userKey,
		"user":     info,
	})
}
