package notify

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/auth"
	httperrors "github.com/gokatarajesh/learnhub/pkg/http/errors"
	ws "github.com/gokatarajesh/learnhub/pkg/http/ws"
)

// Handler upgrades authenticated clients onto the notification socket.
type Handler struct {
	hub       *ws.Hub
	validator auth.TokenValidator
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

func NewHandler(hub *ws.Hub, validator auth.TokenValidator, upgrader websocket.Upgrader, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:       hub,
		validator: validator,
		upgrader:  upgrader,
		logger:    logger.With().Str("component", "notify_ws").Logger(),
	}
}

// HandleWebSocket serves GET /ws/notifications?token=...
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Missing token")
		return
	}

	claims, err := h.validator.ValidateToken(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	userKey := claims.UserKey
	conn := ws.NewConnection(raw, h.logger.With().Str("user_key", userKey).Logger())
	h.hub.RegisterConnection(userKey, conn)
	defer h.hub.UnregisterConnection(userKey, conn)

	go conn.WritePump()
	conn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypePing:
			pong, err := ws.NewMessage(ws.TypePong, struct{}{})
			if err != nil {
				return err
			}
			pong.RequestID = msg.RequestID
			return conn.Send(pong)
		default:
			reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
				Code:    httperrors.ErrCodeUnknownMessageType,
				Message: "unsupported message type " + msg.Type,
			})
			if err != nil {
				return err
			}
			return conn.Send(reply)
		}
	})
}
