package port

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/pkg/events"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

// AssessmentRepository defines the persistence port for assessments.
type AssessmentRepository interface {
	// Save persists a new assessment.
	Save(ctx context.Context, assessment *model.Assessment) error

	// FindByID retrieves an assessment owned by userID.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Assessment, error)

	// ListByUser returns a user's assessments, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Assessment, error)
}

// BankRepository defines the persistence port for linked banks.
type BankRepository interface {
	Save(ctx context.Context, bank *model.LinkedBank) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.LinkedBank, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.LinkedBank, error)

	// FindByShareableID resolves a bank another user shared as a transfer
	// destination. It is not scoped to a user.
	FindByShareableID(ctx context.Context, shareableID uuid.UUID) (*model.LinkedBank, error)
}

// TransferRepository defines the persistence port for funds transfers.
type TransferRepository interface {
	Save(ctx context.Context, transfer *model.Transfer) error

	// FindByID retrieves a transfer the user sent or received.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Transfer, error)

	// ListByBank returns transfers sent from or received by bankID, newest first.
	ListByBank(ctx context.Context, bankID uuid.UUID) ([]*model.Transfer, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
