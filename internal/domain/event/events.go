package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/pkg/events"
)

const (
	// EventTypeAssessmentCompleted is emitted for every finished evaluation.
	EventTypeAssessmentCompleted = "fraud.assessment.completed"

	// EventTypeHighRiskDetected is emitted when the advisory blocks the transaction.
	EventTypeHighRiskDetected = "fraud.high_risk.detected"

	// AggregateTypeAssessment names the aggregate these events belong to.
	AggregateTypeAssessment = "assessment"
)

// AssessmentCompleted is published when a transaction has been scored.
type AssessmentCompleted struct {
	events.Base
	UserID    uuid.UUID `json:"user_id"`
	RiskScore int       `json:"risk_score"`
	RiskLevel string    `json:"risk_level"`
	Decision  string    `json:"decision"`
	Source    string    `json:"source"`
	Factors   []string  `json:"factors"`
}

// NewAssessmentCompleted builds an AssessmentCompleted event.
func NewAssessmentCompleted(
	assessmentID, userID uuid.UUID,
	score int, level, decision, source string,
	factors []string, at time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		Base:      events.NewBase(EventTypeAssessmentCompleted, assessmentID, AggregateTypeAssessment, at),
		UserID:    userID,
		RiskScore: score,
		RiskLevel: level,
		Decision:  decision,
		Source:    source,
		Factors:   factors,
	}
}

// HighRiskDetected is published alongside AssessmentCompleted when a
// transaction should be blocked.
type HighRiskDetected struct {
	events.Base
	UserID    uuid.UUID `json:"user_id"`
	RiskScore int       `json:"risk_score"`
	Factors   []string  `json:"factors"`
}

// NewHighRiskDetected builds a HighRiskDetected event.
func NewHighRiskDetected(assessmentID, userID uuid.UUID, score int, factors []string, at time.Time) HighRiskDetected {
	return HighRiskDetected{
		Base:      events.NewBase(EventTypeHighRiskDetected, assessmentID, AggregateTypeAssessment, at),
		UserID:    userID,
		RiskScore: score,
		Factors:   factors,
	}
}

const (
	// EventTypeTransferInitiated is emitted once a transfer has a rails reference.
	EventTypeTransferInitiated = "banking.transfer.initiated"

	// AggregateTypeTransfer names the transfer aggregate.
	AggregateTypeTransfer = "transfer"
)

// TransferInitiated is published when funds start moving between two
// linked banks, or when a simulated transfer is recorded.
type TransferInitiated struct {
	events.Base
	SenderID       uuid.UUID       `json:"sender_id"`
	SenderBankID   uuid.UUID       `json:"sender_bank_id"`
	ReceiverID     uuid.UUID       `json:"receiver_id"`
	ReceiverBankID uuid.UUID       `json:"receiver_bank_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	Reference      string          `json:"reference"`
}

// NewTransferInitiated builds a TransferInitiated event.
func NewTransferInitiated(
	transferID, senderID, senderBankID, receiverID, receiverBankID uuid.UUID,
	amount decimal.Decimal, currency, status, reference string,
	at time.Time,
) TransferInitiated {
	return TransferInitiated{
		Base:           events.NewBase(EventTypeTransferInitiated, transferID, AggregateTypeTransfer, at),
		SenderID:       senderID,
		SenderBankID:   senderBankID,
		ReceiverID:     receiverID,
		ReceiverBankID: receiverBankID,
		Amount:         amount,
		Currency:       currency,
		Status:         status,
		Reference:      reference,
	}
}
