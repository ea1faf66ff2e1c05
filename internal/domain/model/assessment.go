package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/finboard/internal/domain/event"
	"github.com/bibbank/finboard/internal/domain/valueobject"
	"github.com/bibbank/finboard/pkg/events"
)

// Assessment is the aggregate root recording one evaluated transaction.
type Assessment struct {
	createdAt time.Time
	signal    TransactionSignal
	result    RiskAssessment
	advisory  valueobject.Advisory
	events    events.Collector
	userID    uuid.UUID
	id        uuid.UUID
}

// NewAssessment records the result of evaluating signal for userID and
// emits AssessmentCompleted, plus HighRiskDetected when blocked.
func NewAssessment(userID uuid.UUID, signal TransactionSignal, result RiskAssessment) (*Assessment, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user ID is required")
	}
	if result.Level.IsZero() {
		return nil, errors.New("risk level is required")
	}

	result.Factors = FactorsOrPlaceholder(result.Factors)

	a := &Assessment{
		id:        uuid.New(),
		userID:    userID,
		signal:    signal,
		result:    result,
		advisory:  valueobject.ClassifyScore(result.Score),
		createdAt: time.Now().UTC(),
	}

	a.events.Record(event.NewAssessmentCompleted(
		a.id, a.userID,
		result.Score, result.Level.String(), string(a.advisory.Decision()), result.Source.String(),
		result.Factors, a.createdAt,
	))
	if a.advisory.IsBlocked() {
		a.events.Record(event.NewHighRiskDetected(a.id, a.userID, result.Score, result.Factors, a.createdAt))
	}

	return a, nil
}

// Reconstruct rebuilds an Assessment from persisted data (no validation, no events).
func Reconstruct(
	id, userID uuid.UUID,
	signal TransactionSignal,
	result RiskAssessment,
	advisory valueobject.Advisory,
	createdAt time.Time,
) *Assessment {
	return &Assessment{
		id:        id,
		userID:    userID,
		signal:    signal,
		result:    result,
		advisory:  advisory,
		createdAt: createdAt,
	}
}

func (a *Assessment) ID() uuid.UUID                  { return a.id }
func (a *Assessment) UserID() uuid.UUID              { return a.userID }
func (a *Assessment) Signal() TransactionSignal      { return a.signal }
func (a *Assessment) Result() RiskAssessment         { return a.result }
func (a *Assessment) Advisory() valueobject.Advisory { return a.advisory }
func (a *Assessment) CreatedAt() time.Time           { return a.createdAt }

// DomainEvents returns all accumulated domain events and clears them.
func (a *Assessment) DomainEvents() []events.DomainEvent {
	return a.events.Drain()
}

// PublishEvents hands the pending events to publish and clears them.
func (a *Assessment) PublishEvents(ctx context.Context, publish events.PublishFunc) error {
	return a.events.Flush(ctx, publish)
}
