package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/domain/event"
	"github.com/bibbank/finboard/internal/domain/valueobject"
	"github.com/bibbank/finboard/pkg/events"
)

const (
	// TransferChannel and TransferCategory label transfers in account history.
	TransferChannel  = "online"
	TransferCategory = "Transfer"

	defaultTransferCurrency = "USD"
	defaultTransferName     = "Transfer"
)

// Transfer history directions relative to one bank.
const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)

// Transfer moves funds from one of the sender's linked banks to a bank
// another user shared with them.
type Transfer struct {
	createdAt      time.Time
	amount         decimal.Decimal
	name           string
	email          string
	currency       string
	reference      string
	status         valueobject.TransferStatus
	events         events.Collector
	id             uuid.UUID
	senderID       uuid.UUID
	senderBankID   uuid.UUID
	receiverID     uuid.UUID
	receiverBankID uuid.UUID
}

// NewTransfer validates and creates a PENDING transfer. The sender bank must
// belong to senderID. An empty currency means USD and an empty name means
// "Transfer".
func NewTransfer(
	senderID uuid.UUID,
	sender, receiver *LinkedBank,
	amount decimal.Decimal,
	currency, name, email string,
) (*Transfer, error) {
	if senderID == uuid.Nil {
		return nil, errors.New("sender ID is required")
	}
	if sender == nil || receiver == nil {
		return nil, errors.New("sender and receiver banks are required")
	}
	if sender.UserID() != senderID {
		return nil, errors.New("sender bank does not belong to sender")
	}
	if sender.ID() == receiver.ID() {
		return nil, errors.New("sender and receiver banks must differ")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got: %s", amount.String())
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultTransferCurrency
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultTransferName
	}

	return &Transfer{
		id:             uuid.New(),
		senderID:       senderID,
		senderBankID:   sender.ID(),
		receiverID:     receiver.UserID(),
		receiverBankID: receiver.ID(),
		amount:         amount,
		currency:       currency,
		name:           name,
		email:          strings.TrimSpace(email),
		status:         valueobject.TransferPending,
		createdAt:      time.Now().UTC(),
	}, nil
}

// ReconstructTransfer rebuilds a Transfer from persisted data (no events).
func ReconstructTransfer(
	id, senderID, senderBankID, receiverID, receiverBankID uuid.UUID,
	amount decimal.Decimal,
	currency, name, email string,
	status valueobject.TransferStatus,
	reference string,
	createdAt time.Time,
) *Transfer {
	return &Transfer{
		id:             id,
		senderID:       senderID,
		senderBankID:   senderBankID,
		receiverID:     receiverID,
		receiverBankID: receiverBankID,
		amount:         amount,
		currency:       currency,
		name:           name,
		email:          email,
		status:         status,
		reference:      reference,
		createdAt:      createdAt,
	}
}

// MarkSubmitted records the reference the payment rails assigned.
func (t *Transfer) MarkSubmitted(reference string) error {
	if reference == "" {
		return errors.New("rails reference is required")
	}
	return t.initiate(valueobject.TransferSubmitted, reference)
}

// MarkSimulated records a transfer the payment rails never saw.
func (t *Transfer) MarkSimulated(reference string) error {
	return t.initiate(valueobject.TransferSimulated, reference)
}

func (t *Transfer) initiate(status valueobject.TransferStatus, reference string) error {
	if t.status != valueobject.TransferPending {
		return fmt.Errorf("transfer %s is already %s", t.id, t.status)
	}
	t.status = status
	t.reference = reference
	t.events.Record(event.NewTransferInitiated(
		t.id, t.senderID, t.senderBankID, t.receiverID, t.receiverBankID,
		t.amount, t.currency, status.String(), reference, t.createdAt,
	))
	return nil
}

// Direction reports whether the transfer debits or credits bankID.
func (t *Transfer) Direction(bankID uuid.UUID) string {
	if t.senderBankID == bankID {
		return DirectionDebit
	}
	return DirectionCredit
}

// VisibleTo reports whether userID is the sender or the receiver.
func (t *Transfer) VisibleTo(userID uuid.UUID) bool {
	return t.senderID == userID || t.receiverID == userID
}

func (t *Transfer) ID() uuid.UUID                      { return t.id }
func (t *Transfer) SenderID() uuid.UUID                { return t.senderID }
func (t *Transfer) SenderBankID() uuid.UUID            { return t.senderBankID }
func (t *Transfer) ReceiverID() uuid.UUID              { return t.receiverID }
func (t *Transfer) ReceiverBankID() uuid.UUID          { return t.receiverBankID }
func (t *Transfer) Amount() decimal.Decimal            { return t.amount }
func (t *Transfer) Currency() string                   { return t.currency }
func (t *Transfer) Name() string                       { return t.name }
func (t *Transfer) Email() string                      { return t.email }
func (t *Transfer) Status() valueobject.TransferStatus { return t.status }
func (t *Transfer) Reference() string                  { return t.reference }
func (t *Transfer) CreatedAt() time.Time               { return t.createdAt }

// PublishEvents hands the pending events to publish and clears them.
func (t *Transfer) PublishEvents(ctx context.Context, publish events.PublishFunc) error {
	return t.events.Flush(ctx, publish)
}
