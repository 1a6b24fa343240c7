package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
)

// EventType represents what happened to the entity
type EventType string

const (
	EventTypeCreated   EventType = ledger.ActionCreated
	EventTypeUpdated   EventType = ledger.ActionUpdated
	EventTypeDeleted   EventType = ledger.ActionDeleted
	EventTypeRead      EventType = ledger.ActionRead
	EventTypeCleared   EventType = ledger.ActionCleared
	EventTypeActivated EventType = ledger.ActionActivated
	EventTypeImported  EventType = ledger.ActionImported
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeIncome         EntityType = ledger.EntityIncome
	EntityTypeExpense        EntityType = ledger.EntityExpense
	EntityTypeBudget         EntityType = ledger.EntityBudget
	EntityTypeDebt           EntityType = ledger.EntityDebt
	EntityTypeGoal           EntityType = ledger.EntityGoal
	EntityTypeScenario       EntityType = ledger.EntityScenario
	EntityTypeMonth          EntityType = ledger.EntityMonth
	EntityTypeRecommendation EntityType = ledger.EntityRecommendation
	EntityTypeAlert          EntityType = ledger.EntityAlert
	EntityTypeProfile        EntityType = ledger.EntityProfile
	EntityTypeLedger         EntityType = ledger.EntityLedger
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, id, monthId, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`              // Combined type e.g. "expense.created"
	Entity    EntityType  `json:"entity"`            // Entity type e.g. "expense"
	ID        string      `json:"id,omitempty"`      // Entity id, when there is one
	MonthID   string      `json:"monthId,omitempty"` // Month the change belongs to
	Payload   interface{} `json:"payload,omitempty"` // Entity data after the change
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// FromChange converts a ledger change into the event sent to clients
func FromChange(c ledger.Change) Event {
	evt := NewEvent(EventType(c.Action), EntityType(c.Entity), c.Payload)
	evt.ID = c.ID
	evt.MonthID = c.MonthID
	return evt
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
