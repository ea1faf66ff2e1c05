package openbanking

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransferOrder asks the payment rails to move funds between two funding
// sources. A funding source is either a full rails URL or an id the client
// resolves against its base URL.
type TransferOrder struct {
	SourceFundingSource      string
	DestinationFundingSource string
	Amount                   decimal.Decimal
	Currency                 string
	// IdempotencyKey lets the rails drop a resubmitted order.
	IdempotencyKey string
}

// PaymentRailsClient is the subset of the payment-rails API finboard
// depends on.
type PaymentRailsClient interface {
	// CreateTransfer submits order and returns the rails' reference for the
	// new transfer.
	CreateTransfer(ctx context.Context, order TransferOrder) (string, error)
}

// Rails environments.
const (
	RailsSandbox    = "sandbox"
	RailsProduction = "production"
)

// RailsConfig holds configuration for the payment-rails client.
type RailsConfig struct {
	Key         string
	Secret      string
	Environment string
	// BaseURL overrides the URL derived from Environment.
	BaseURL string
}

// Configured reports whether credentials are present.
func (c RailsConfig) Configured() bool {
	return c.Key != "" && c.Secret != ""
}

// ResolvedBaseURL returns BaseURL, or the API host for Environment.
func (c RailsConfig) ResolvedBaseURL() (string, error) {
	if c.BaseURL != "" {
		return c.BaseURL, nil
	}
	switch c.Environment {
	case RailsSandbox:
		return "https://api-sandbox.dwolla.com", nil
	case RailsProduction:
		return "https://api.dwolla.com", nil
	default:
		return "", fmt.Errorf("rails environment must be %q or %q, got %q", RailsSandbox, RailsProduction, c.Environment)
	}
}
