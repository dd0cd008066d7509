// File: internal/services/sync/types.go
package sync

import (
	"encoding/json"

	"github.com/Ayaf-Bless/secureChat/internal/domain"
)

// Wire frame types. Unknown values are ignored by both sides.
const (
	TypePing       = "ping"
	TypePong       = "pong"
	TypeNewMessage = "new-message"
)

// Frame is a JSON text frame on the sync connection. The payload is left
// raw so control frames and event frames share one envelope.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessagePayload carries a broadcast message event.
type NewMessagePayload struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	Ts        int64  `json:"ts"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
}

// ToMessage converts the wire payload into the stored entity.
func (p *NewMessagePayload) ToMessage() domain.Message {
	return domain.Message{
		ID:     p.MessageID,
		ChatID: p.ChatID,
		Ts:     p.Ts,
		Sender: p.Sender,
		Body:   p.Body,
	}
}

// Notification is the local event the client emits after ingesting a
// broadcast message, so the UI layer can update without re-querying.
type Notification struct {
	ChatID  string
	Message domain.Message
}

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
