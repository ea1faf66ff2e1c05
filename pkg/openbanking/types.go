// Package openbanking defines the account-aggregator contract finboard uses
// to link bank accounts and read balances and transaction history.
package openbanking

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is an external account as reported by the aggregator.
type BankAccount struct {
	AccountID    string
	Name         string
	OfficialName string
	// Type and Subtype are the aggregator's raw classification
	// (e.g. "depository" / "checking").
	Type     string
	Subtype  string
	Mask     string
	Balances AccountBalances
}

// AccountBalances holds balance information for an external account.
type AccountBalances struct {
	Available decimal.Decimal
	Current   decimal.Decimal
	Currency  string
}

// AccountsResult is the response of an accounts lookup for one linked item.
type AccountsResult struct {
	ItemID        string
	InstitutionID string
	Accounts      []BankAccount
}

// Institution describes a financial institution.
type Institution struct {
	InstitutionID string
	Name          string
	CountryCodes  []string
	Products      []string
	URL           string
	PrimaryColor  string
}

// Transaction represents a single transaction from an external account.
type Transaction struct {
	TransactionID string
	AccountID     string
	// Amount is positive for debits and negative for credits.
	Amount         decimal.Decimal
	Currency       string
	Date           time.Time
	Name           string
	Category       string
	Pending        bool
	PaymentChannel string
	LogoURL        string
}

// TransactionSyncResult is one page of an incremental transaction sync.
type TransactionSyncResult struct {
	Added      []Transaction
	Modified   []Transaction
	Removed    []string
	NextCursor string
	HasMore    bool
}

// LinkTokenResponse is returned when creating a link token for account linking.
type LinkTokenResponse struct {
	LinkToken  string
	Expiration time.Time
	RequestID  string
}

// ItemAccessResponse is returned after completing the link flow.
type ItemAccessResponse struct {
	AccessToken string
	ItemID      string
}
