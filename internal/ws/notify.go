package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the JSON frame written to clients.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Notify pushes v to userID wrapped in an Event of the given type.
func (h *Hub) Notify(userID uuid.UUID, eventType string, v any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      eventType,
		Data:      v,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logf("WS encode error | type=%s err=%v", eventType, err)
		return
	}
	h.Send(userID, b)
}
