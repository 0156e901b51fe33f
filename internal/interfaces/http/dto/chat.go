// Package dto provides HTTP layer data transfer objects.
package dto

import (
	"encoding/json"
	"time"

	"edu-tutor-api/internal/domain/entity"
)

// Text is a JSON field that coerces any non-string value to the empty
// string instead of failing to bind. A number or object where text was
// expected is treated as a missing field, not a type error.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

// ChatRequest is the /api/chat body.
type ChatRequest struct {
	Grade Text `json:"grado"`
	Topic Text `json:"tema"`
}

// ChatResponse is the /api/chat success body.
type ChatResponse struct {
	Answer string `json:"respuesta"`
}

// UsageEvent is the realtime broadcast payload.
type UsageEvent struct {
	Grade     string    `json:"grado"`
	Topic     string    `json:"tema"`
	Answer    string    `json:"respuesta"`
	CreatedAt time.Time `json:"fecha"`
}

// NewUsageEvent builds the broadcast payload for a persisted record.
func NewUsageEvent(record *entity.UsageRecord) UsageEvent {
	return UsageEvent{
		Grade:     record.Grade,
		Topic:     record.Topic,
		Answer:    record.Answer,
		CreatedAt: record.CreatedAt,
	}
}
