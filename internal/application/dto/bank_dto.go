package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LinkTokenResponse carries a token for the aggregator's link flow.
type LinkTokenResponse struct {
	Expiration time.Time `json:"expiration"`
	LinkToken  string    `json:"link_token"`
}

// ExchangePublicTokenRequest completes the link flow for a user.
type ExchangePublicTokenRequest struct {
	PublicToken string    `json:"public_token"`
	UserID      uuid.UUID `json:"-"`
}

// LinkedBankResponse describes a stored linked bank. The access token is
// never returned.
type LinkedBankResponse struct {
	CreatedAt     time.Time `json:"created_at"`
	InstitutionID string    `json:"institution_id"`
	AccountID     string    `json:"account_id"`
	ID            uuid.UUID `json:"id"`
	ShareableID   uuid.UUID `json:"shareable_id"`
}

// Account is the dashboard view of one bank account.
type Account struct {
	AvailableBalance decimal.Decimal `json:"available_balance"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	ID               string          `json:"id"`
	InstitutionID    string          `json:"institution_id"`
	InstitutionName  string          `json:"institution_name"`
	Name             string          `json:"name"`
	OfficialName     string          `json:"official_name"`
	Mask             string          `json:"mask"`
	Type             string          `json:"type"`
	Subtype          string          `json:"subtype"`
	BankID           string          `json:"bank_id"`
	ShareableID      string          `json:"shareable_id,omitempty"`
}

// AccountsResponse lists every account a user has linked.
type AccountsResponse struct {
	Data                []Account       `json:"data"`
	TotalCurrentBalance decimal.Decimal `json:"total_current_balance"`
	TotalBanks          int             `json:"total_banks"`
	Demo                bool            `json:"demo"`
}

// Transaction is one entry of an account's history.
type Transaction struct {
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	PaymentChannel string          `json:"payment_channel"`
	Type           string          `json:"type"`
	AccountID      string          `json:"account_id"`
	Category       string          `json:"category"`
	Image          string          `json:"image,omitempty"`
	Pending        bool            `json:"pending"`
}

// AccountDetailResponse is one account with its history, newest first.
type AccountDetailResponse struct {
	Transactions []Transaction `json:"transactions"`
	Data         Account       `json:"data"`
	Demo         bool          `json:"demo"`
}
