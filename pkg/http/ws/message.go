package ws

import "encoding/json"

// MessageType constants for the notification socket protocol.
const (
	// Client -> Server
	TypePing = "ping"

	// Server -> Client
	TypeNotice = "notice"
	TypePong   = "pong"
	TypeError  = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NoticePayload is a non-blocking warning or status update about a quiz session.
type NoticePayload struct {
	Kind      string `json:"kind"`
	SessionID string `json:"session_id,omitempty"`
	QuizID    string `json:"quiz_id,omitempty"`
	Message   string `json:"message"`
	At        string `json:"at"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}
