package websocket

import (
	"encoding/json"

	"github.com/isdelr/baraholka-be/internal/models"
)

// Message actions.
const (
	ActionEvent = "event"
	ActionError = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage wraps an audit event.
func NewEventMessage(event models.Event) ([]byte, error) {
	return json.Marshal(Message{Action: ActionEvent, Payload: event})
}

// NewErrorMessage builds an error notice for a single client.
func NewErrorMessage(text string) []byte {
	b, _ := json.Marshal(Message{Action: ActionError, Payload: map[string]string{"message": text}})
	return b
}
