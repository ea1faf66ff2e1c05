package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAcceptLanguage is used when the caller supplies no language tag.
const DefaultAcceptLanguage = "en-US"

// TransactionSignal is the transient input to a single evaluation. Network
// address and currency are free-form and are not checked against real
// address or ISO lists.
type TransactionSignal struct {
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	IPAddress      string          `json:"ip_address"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	UserAgent      string          `json:"user_agent,omitempty"`
	AcceptLanguage string          `json:"accept_language"`
}

// NewTransactionSignal builds a signal, defaulting the language tag.
func NewTransactionSignal(
	amount decimal.Decimal,
	currency, ipAddress, email, phone, userAgent, acceptLanguage string,
) TransactionSignal {
	if strings.TrimSpace(acceptLanguage) == "" {
		acceptLanguage = DefaultAcceptLanguage
	}
	return TransactionSignal{
		Amount:         amount,
		Currency:       strings.TrimSpace(currency),
		IPAddress:      strings.TrimSpace(ipAddress),
		Email:          strings.TrimSpace(email),
		Phone:          strings.TrimSpace(phone),
		UserAgent:      userAgent,
		AcceptLanguage: acceptLanguage,
	}
}

// Validate enforces the request-edge rules. The evaluator itself scores any
// signal it is given.
func (s TransactionSignal) Validate() error {
	if !s.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if s.Currency == "" {
		return errors.New("currency is required")
	}
	if s.IPAddress == "" {
		return errors.New("ip address is required")
	}
	return nil
}
