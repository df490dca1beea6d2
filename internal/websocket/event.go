package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeDeleted     EventType = "deleted"
	EventTypeRaised      EventType = "raised"
	EventTypeInvalidated EventType = "invalidated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeRecurring   EntityType = "recurring"
	EntityTypeGoal        EntityType = "goal"
	EntityTypeReport      EntityType = "report"
	EntityTypeAlert       EntityType = "alert"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
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

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// RecurringChanged creates a recurring.<eventType> event
func RecurringChanged(eventType EventType, payload interface{}) Event {
	return NewEvent(eventType, EntityTypeRecurring, payload)
}

// GoalChanged creates a goal.<eventType> event
func GoalChanged(eventType EventType, payload interface{}) Event {
	return NewEvent(eventType, EntityTypeGoal, payload)
}

var reportInvalidatedType = fmt.Sprintf("%s.%s", EntityTypeReport, EventTypeInvalidated)

// ReportsInvalidatedPayload is the payload of report.invalidated
type ReportsInvalidatedPayload struct {
	Changes int `json:"changes"`
}

// ReportsInvalidated tells clients their cached reports are stale after
// changes writes
func ReportsInvalidated(changes int) Event {
	return NewEvent(EventTypeInvalidated, EntityTypeReport, ReportsInvalidatedPayload{Changes: changes})
}

// RunwayAlertRaised creates an alert.raised event
func RunwayAlertRaised(payload interface{}) Event {
	return NewEvent(EventTypeRaised, EntityTypeAlert, payload)
}
