package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSocket(t *testing.T, hub *Hub, userKey string) *websocket.Conn {
	t.Helper()

	registered := make(chan struct{})
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(raw, zerolog.Nop())
		hub.RegisterConnection(userKey, conn)
		close(registered)
		go conn.WritePump()
		conn.ReadPump(func(Message) error { return nil })
		hub.UnregisterConnection(userKey, conn)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered")
	}
	return client
}

func TestHubSendToUserDeliversNotice(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestSocket(t, hub, "user-1")

	msg, err := NewMessage(TypeNotice, NoticePayload{Kind: "submission_warning", Message: "sync failed"})
	require.NoError(t, err)
	require.NoError(t, hub.SendToUser("user-1", msg))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, TypeNotice, got.Type)

	var payload NoticePayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "sync failed", payload.Message)
}

func TestHubSendToUnknownUser(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	err := hub.SendToUser("ghost", Message{Type: TypeNotice})
	assert.ErrorIs(t, err, ErrConnectionNotFound)
	assert.False(t, hub.Connected("ghost"))
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	client := newTestSocket(t, hub, "user-2")
	assert.True(t, hub.Connected("user-2"))

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return !hub.Connected("user-2") }, 2*time.Second, 10*time.Millisecond)
}
