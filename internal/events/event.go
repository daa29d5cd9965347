// Package events publishes domain events about expenses, subscriptions and
// categories to a message broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type is the event name. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseCreated      Type = "expense.created"
	ExpenseUpdated      Type = "expense.updated"
	ExpenseDeleted      Type = "expense.deleted"
	ExpensesGenerated   Type = "expense.generated"
	SubscriptionCreated Type = "subscription.created"
	SubscriptionUpdated Type = "subscription.updated"
	SubscriptionDeleted Type = "subscription.deleted"
	CategoryCreated     Type = "category.created"
	CategoryUpdated     Type = "category.updated"
	CategoryDeleted     Type = "category.deleted"
)

// Event is the JSON message written to the exchange.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       Type           `json:"type"`
	UserID     uuid.UUID      `json:"userId"`
	EntityID   uuid.UUID      `json:"entityId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType Type, userID, entityID uuid.UUID, payload map[string]any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func (e Event) RoutingKey() string {
	return string(e.Type)
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event body.
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
