package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	// CardCreated is emitted after a card without example text is stored.
	CardCreated = "card.created"
)

// Event is something that happened in the service, published to handlers
// without the publisher knowing who listens.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// CardCreatedPayload identifies the new card and its owner.
type CardCreatedPayload struct {
	CardID int `json:"card_id"`
	DeckID int `json:"deck_id"`
	UserID int `json:"user_id"`
}

// NewEvent serializes payload into a new event of the given type.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events to handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// NoopEmitter drops every event. It stands in when no background work is
// configured.
type NoopEmitter struct{}

func (NoopEmitter) EmitEvent(context.Context, *Event) error { return nil }
