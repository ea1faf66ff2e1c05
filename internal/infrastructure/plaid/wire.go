package plaid

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/pkg/openbanking"
)

type accountsResponse struct {
	Accounts []account `json:"accounts"`
	Item     struct {
		ItemID        string `json:"item_id"`
		InstitutionID string `json:"institution_id"`
	} `json:"item"`
}

type account struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	OfficialName string `json:"official_name"`
	Type         string `json:"type"`
	Subtype      string `json:"subtype"`
	Mask         string `json:"mask"`
	Balances     struct {
		Available              decimal.Decimal `json:"available"`
		Current                decimal.Decimal `json:"current"`
		ISOCurrencyCode        string          `json:"iso_currency_code"`
		UnofficialCurrencyCode string          `json:"unofficial_currency_code"`
	} `json:"balances"`
}

func (a account) toDomain() openbanking.BankAccount {
	currency := a.Balances.ISOCurrencyCode
	if currency == "" {
		currency = a.Balances.UnofficialCurrencyCode
	}
	return openbanking.BankAccount{
		AccountID:    a.AccountID,
		Name:         a.Name,
		OfficialName: a.OfficialName,
		Type:         a.Type,
		Subtype:      a.Subtype,
		Mask:         a.Mask,
		Balances: openbanking.AccountBalances{
			Available: a.Balances.Available,
			Current:   a.Balances.Current,
			Currency:  currency,
		},
	}
}

type institution struct {
	InstitutionID string   `json:"institution_id"`
	Name          string   `json:"name"`
	CountryCodes  []string `json:"country_codes"`
	Products      []string `json:"products"`
	URL           string   `json:"url"`
	PrimaryColor  string   `json:"primary_color"`
}

type syncResponse struct {
	Added    []transaction `json:"added"`
	Modified []transaction `json:"modified"`
	Removed  []struct {
		TransactionID string `json:"transaction_id"`
	} `json:"removed"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

type transaction struct {
	TransactionID           string          `json:"transaction_id"`
	AccountID               string          `json:"account_id"`
	Amount                  decimal.Decimal `json:"amount"`
	ISOCurrencyCode         string          `json:"iso_currency_code"`
	Date                    string          `json:"date"`
	Name                    string          `json:"name"`
	MerchantName            string          `json:"merchant_name"`
	Category                []string        `json:"category"`
	PersonalFinanceCategory *struct {
		Primary string `json:"primary"`
	} `json:"personal_finance_category"`
	Pending        bool   `json:"pending"`
	PaymentChannel string `json:"payment_channel"`
	LogoURL        string `json:"logo_url"`
}

func (t transaction) toDomain() openbanking.Transaction {
	date, _ := time.Parse(time.DateOnly, t.Date)

	name := t.Name
	if name == "" {
		name = t.MerchantName
	}

	var category string
	switch {
	case t.PersonalFinanceCategory != nil && t.PersonalFinanceCategory.Primary != "":
		category = t.PersonalFinanceCategory.Primary
	case len(t.Category) > 0:
		category = strings.Join(t.Category, " > ")
	}

	return openbanking.Transaction{
		TransactionID:  t.TransactionID,
		AccountID:      t.AccountID,
		Amount:         t.Amount,
		Currency:       t.ISOCurrencyCode,
		Date:           date,
		Name:           name,
		Category:       category,
		Pending:        t.Pending,
		PaymentChannel: t.PaymentChannel,
		LogoURL:        t.LogoURL,
	}
}
