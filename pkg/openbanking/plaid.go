package openbanking

import "context"

// PlaidClient is the subset of the Plaid API finboard depends on.
type PlaidClient interface {
	// CreateLinkToken generates a link token for the Plaid Link flow.
	CreateLinkToken(ctx context.Context, userID, clientName string) (LinkTokenResponse, error)

	// ExchangePublicToken exchanges a Link public token for a persistent
	// access token.
	ExchangePublicToken(ctx context.Context, publicToken string) (ItemAccessResponse, error)

	// GetAccounts retrieves the accounts associated with an access token.
	GetAccounts(ctx context.Context, accessToken string) (AccountsResult, error)

	// GetInstitution looks up institution metadata.
	GetInstitution(ctx context.Context, institutionID string) (Institution, error)

	// SyncTransactions returns one page of transaction updates. Pass an empty
	// cursor for the initial sync.
	SyncTransactions(ctx context.Context, accessToken, cursor string) (TransactionSyncResult, error)
}

// PlaidConfig holds configuration for the Plaid client.
type PlaidConfig struct {
	ClientID     string
	Secret       string
	BaseURL      string
	Language     string
	Products     []string
	CountryCodes []string
}

// DefaultPlaidConfig returns configuration defaults for the Plaid sandbox.
func DefaultPlaidConfig() PlaidConfig {
	return PlaidConfig{
		BaseURL:      "https://sandbox.plaid.com",
		Products:     []string{"auth", "transactions"},
		CountryCodes: []string{"US"},
		Language:     "en",
	}
}

// Configured reports whether credentials are present.
func (c PlaidConfig) Configured() bool {
	return c.ClientID != "" && c.Secret != ""
}
