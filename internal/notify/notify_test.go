package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/learnhub/internal/auth/jwt"
	ws "github.com/gokatarajesh/learnhub/pkg/http/ws"
)

type tokenValidator struct {
	mgr *jwt.Manager
}

func (v tokenValidator) ValidateToken(token string) (*jwt.Claims, error) {
	return v.mgr.Validate(token)
}

func TestNoticeReachesUserSocket(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	mgr := jwt.NewManager(jwt.TokenConfig{Secret: []byte("k")})
	token, err := mgr.Generate(jwt.Subject{UserKey: "asha"})
	require.NoError(t, err)

	hub := ws.NewHub(zerolog.Nop())
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, tokenValidator{mgr}, upgrader, zerolog.Nop()).HandleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Connected("asha") }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go NewBroadcaster(client, hub, "notices:test", zerolog.Nop()).Run(ctx)
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub("notices:test")["notices:test"] == 1
	}, 2*time.Second, 10*time.Millisecond)

	pub := NewRedisPublisher(client, "notices:test")
	require.NoError(t, pub.Publish(context.Background(), Notice{UserKey: "someone-else", Kind: KindSubmissionWarning, Message: "x"}))
	require.NoError(t, pub.Publish(context.Background(), Notice{
		UserKey:   "asha",
		Kind:      KindSubmissionWarning,
		SessionID: "s-1",
		QuizID:    "12",
		Message:   MessageSyncFailed,
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.TypeNotice, msg.Type)

	var payload ws.NoticePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "submission_warning", payload.Kind)
	assert.Equal(t, "s-1", payload.SessionID)
	assert.Equal(t, MessageSyncFailed, payload.Message)
}

func TestHandlerRejectsMissingOrBadToken(t *testing.T) {
	mgr := jwt.NewManager(jwt.TokenConfig{Secret: []byte("k")})
	h := NewHandler(ws.NewHub(zerolog.Nop()), tokenValidator{mgr}, websocket.Upgrader{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleWebSocket(rec, httptest.NewRequest(http.MethodGet, "/ws/notifications?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPingGetsPong(t *testing.T) {
	mgr := jwt.NewManager(jwt.TokenConfig{Secret: []byte("k")})
	token, err := mgr.Generate(jwt.Subject{UserKey: "asha"})
	require.NoError(t, err)

	hub := ws.NewHub(zerolog.Nop())
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, tokenValidator{mgr}, upgrader, zerolog.Nop()).HandleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ws.Message{Type: ws.TypePing, Payload: json.RawMessage(`{}`), RequestID: "r1"}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ws.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.TypePong, msg.Type)
	assert.Equal(t, "r1", msg.RequestID)
}
