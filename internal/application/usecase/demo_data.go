package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/pkg/openbanking"
)

// Demo data served when the account aggregator cannot be reached.

func demoAccount() dto.Account {
	balance := decimal.RequireFromString("25450.75")
	return dto.Account{
		ID:               "demo-account-123",
		AvailableBalance: balance,
		CurrentBalance:   balance,
		InstitutionID:    "demo-institution",
		InstitutionName:  "Demo Bank",
		Name:             "Demo Bank Account",
		OfficialName:     "Demo Checking Account",
		Mask:             "1234",
		Type:             "depository",
		Subtype:          "checking",
		BankID:           "demo-bank-123",
		ShareableID:      "demo-shareable-123",
	}
}

func demoAccountTransactions(now time.Time) []dto.Transaction {
	today := now.UTC().Truncate(24 * time.Hour)
	return []dto.Transaction{
		demoTx("demo-tx-1", "Coffee Shop Purchase", "online", "12.50", "Food and Drink", "demo-account", today),
		demoTx("demo-tx-2", "Online Shopping", "online", "89.99", "Shopping", "demo-account", today.AddDate(0, 0, -1)),
		demoTx("demo-tx-3", "Gas Station", "in store", "45.75", "Transportation", "demo-account", today.AddDate(0, 0, -2)),
	}
}

func demoTransactions(now time.Time) []dto.Transaction {
	today := now.UTC().Truncate(24 * time.Hour)
	return []dto.Transaction{
		demoTx("mock-tx-1", "Sample Transaction", "online", "50.00", "Food and Drink", "mock-account", today),
		demoTx("mock-tx-2", "Demo Purchase", "online", "25.99", "Shopping", "mock-account", today.AddDate(0, 0, -1)),
	}
}

func demoTransfer(accountID string, now time.Time) dto.Transaction {
	tx := demoTx("mock-transfer-1", "Sample Transfer", model.TransferChannel, "100.00", model.TransferCategory, accountID, now.UTC())
	tx.Type = model.DirectionDebit
	return tx
}

func demoTx(id, name, channel, amount, category, accountID string, date time.Time) dto.Transaction {
	return dto.Transaction{
		ID:             id,
		Name:           name,
		PaymentChannel: channel,
		Type:           channel,
		AccountID:      accountID,
		Amount:         decimal.RequireFromString(amount),
		Category:       category,
		Date:           date,
	}
}

func demoInstitution() openbanking.Institution {
	return openbanking.Institution{
		InstitutionID: "mock-institution",
		Name:          "Demo Bank",
		CountryCodes:  []string{"US"},
		Products:      []string{"auth"},
		URL:           "https://demo-bank.com",
		PrimaryColor:  "#000000",
	}
}
