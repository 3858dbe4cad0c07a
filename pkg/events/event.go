package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types published on the bus. The NATS subject is "events.<type>".
const (
	TypePreferenceSaved         = "preference.saved"
	TypeRecommendationCompleted = "recommendation.completed"
)

type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// Identified is implemented by events that carry a unique id. Publishers use
// it to let the broker drop redeliveries of the same event.
type Identified interface {
	EventID() string
}

type BaseEvent struct {
	ID         string
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

var _ Identified = BaseEvent{}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string                 { return e.ID }
func (e BaseEvent) EventType() string               { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }

// String reads a string field of the payload, "" when absent or of another type.
func String(e Event, key string) string {
	s, _ := e.Payload()[key].(string)
	return s
}
