// Package events defines the domain event contract shared by finboard
// aggregates and publishers.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
}

// Base carries the envelope fields of a domain event. Concrete events embed it
// so the envelope is serialised alongside their own payload fields.
type Base struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	Aggregate uuid.UUID `json:"aggregate_id"`
	Kind      string    `json:"aggregate_type"`
	At        time.Time `json:"occurred_at"`
}

// NewBase creates an envelope with a fresh id, stamped at the given time.
func NewBase(eventType string, aggregateID uuid.UUID, aggregateType string, at time.Time) Base {
	return Base{
		ID:        uuid.New(),
		Type:      eventType,
		Aggregate: aggregateID,
		Kind:      aggregateType,
		At:        at.UTC(),
	}
}

func (b Base) EventID() uuid.UUID     { return b.ID }
func (b Base) EventType() string      { return b.Type }
func (b Base) AggregateID() uuid.UUID { return b.Aggregate }
func (b Base) AggregateType() string  { return b.Kind }
func (b Base) OccurredAt() time.Time  { return b.At }
