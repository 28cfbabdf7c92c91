package service

import (
	"encoding/json"
	"time"

	"github.com/ComePicard/Cooloc/internal/model"
)

// newOutboxMessage wraps a domain event for the outbox. Marshalling a map of
// JSON-safe values cannot fail, so the error is discarded.
func newOutboxMessage(topic, key, event string, data map[string]interface{}) *model.OutboxMessage {
	payload := map[string]interface{}{
		"event":       event,
		"occurred_at": time.Now().Format(time.RFC3339),
	}
	for k, v := range data {
		payload[k] = v
	}
	payloadBytes, _ := json.Marshal(payload)

	return &model.OutboxMessage{
		MessageKey: key,
		Topic:      topic,
		Payload:    string(payloadBytes),
		Status:     model.OutboxStatusPending,
	}
}
