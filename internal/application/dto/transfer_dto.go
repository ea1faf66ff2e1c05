package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/domain/model"
)

// CreateTransferRequest moves funds from one of the caller's banks to a bank
// identified by the id its owner shared.
type CreateTransferRequest struct {
	Amount              decimal.Decimal `json:"amount"`
	Currency            string          `json:"currency"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	SenderBankID        uuid.UUID       `json:"sender_bank_id"`
	ReceiverShareableID uuid.UUID       `json:"receiver_shareable_id"`
	UserID              uuid.UUID       `json:"-"`
}

// GetTransferRequest looks up a transfer the user sent or received.
type GetTransferRequest struct {
	TransferID uuid.UUID
	UserID     uuid.UUID
}

// TransferResponse describes a stored transfer.
type TransferResponse struct {
	CreatedAt      time.Time       `json:"created_at"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Status         string          `json:"status"`
	Reference      string          `json:"reference"`
	ID             uuid.UUID       `json:"id"`
	SenderID       uuid.UUID       `json:"sender_id"`
	SenderBankID   uuid.UUID       `json:"sender_bank_id"`
	ReceiverID     uuid.UUID       `json:"receiver_id"`
	ReceiverBankID uuid.UUID       `json:"receiver_bank_id"`
}

// FromTransfer maps a transfer to its response.
func FromTransfer(t *model.Transfer) TransferResponse {
	return TransferResponse{
		ID:             t.ID(),
		SenderID:       t.SenderID(),
		SenderBankID:   t.SenderBankID(),
		ReceiverID:     t.ReceiverID(),
		ReceiverBankID: t.ReceiverBankID(),
		Amount:         t.Amount(),
		Currency:       t.Currency(),
		Name:           t.Name(),
		Email:          t.Email(),
		Status:         t.Status().String(),
		Reference:      t.Reference(),
		CreatedAt:      t.CreatedAt(),
	}
}
