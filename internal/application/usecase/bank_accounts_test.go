package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/application/usecase"
	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/internal/domain/valueobject"
	"github.com/bibbank/finboard/pkg/openbanking"
)

func account(id, current string) openbanking.BankAccount {
	return openbanking.BankAccount{
		AccountID: id,
		Name:      "Plaid Checking",
		Type:      "depository",
		Subtype:   "checking",
		Mask:      "0000",
		Balances: openbanking.AccountBalances{
			Available: decimal.RequireFromString(current),
			Current:   decimal.RequireFromString(current),
			Currency:  "USD",
		},
	}
}

func linkedBank(t *testing.T, userID uuid.UUID, token, primary string) *model.LinkedBank {
	t.Helper()
	b, err := model.NewLinkedBank(userID, "item-"+token, token, "ins_109508", primary)
	require.NoError(t, err)
	return b
}

func TestCreateLinkToken(t *testing.T) {
	exp := time.Now().Add(4 * time.Hour)
	uc := usecase.NewCreateLinkToken(&mockPlaid{linkToken: openbanking.LinkTokenResponse{LinkToken: "link-sandbox-1", Expiration: exp}})

	resp, err := uc.Execute(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "link-sandbox-1", resp.LinkToken)
	assert.Equal(t, exp, resp.Expiration)

	uc = usecase.NewCreateLinkToken(&mockPlaid{err: errors.New("not configured")})
	_, err = uc.Execute(context.Background(), uuid.New())
	require.ErrorIs(t, err, usecase.ErrAggregatorUnavailable)
}

func TestExchangePublicToken(t *testing.T) {
	plaid := &mockPlaid{
		item: openbanking.ItemAccessResponse{AccessToken: "access-1", ItemID: "item-1"},
		accounts: map[string]openbanking.AccountsResult{
			"access-1": {InstitutionID: "ins_1", Accounts: []openbanking.BankAccount{account("acc-1", "100"), account("acc-2", "5")}},
		},
	}
	banks := &mockBankRepository{}
	uc := usecase.NewExchangePublicToken(plaid, banks)
	userID := uuid.New()

	resp, err := uc.Execute(context.Background(), dto.ExchangePublicTokenRequest{UserID: userID, PublicToken: "public-1"})
	require.NoError(t, err)
	assert.Equal(t, "public-1", plaid.exchangeSeen)
	assert.Equal(t, "ins_1", resp.InstitutionID)
	assert.Equal(t, "acc-1", resp.AccountID)

	require.Len(t, banks.banks, 1)
	assert.Equal(t, "access-1", banks.banks[0].AccessToken())
	assert.Equal(t, userID, banks.banks[0].UserID())

	_, err = uc.Execute(context.Background(), dto.ExchangePublicTokenRequest{UserID: userID})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestGetAccounts_TotalsBalances(t *testing.T) {
	userID := uuid.New()
	banks := &mockBankRepository{banks: []*model.LinkedBank{
		linkedBank(t, userID, "tok-a", "a"),
		linkedBank(t, userID, "tok-b", "b2"),
	}}
	plaid := &mockPlaid{
		accounts: map[string]openbanking.AccountsResult{
			"tok-a": {InstitutionID: "ins_1", Accounts: []openbanking.BankAccount{account("a", "100.25")}},
			"tok-b": {InstitutionID: "ins_2", Accounts: []openbanking.BankAccount{account("b1", "1"), account("b2", "50.50")}},
		},
		institution: openbanking.Institution{InstitutionID: "ins_1", Name: "First Platypus Bank"},
	}

	resp, err := usecase.NewAccountReader(plaid, banks, &mockTransferRepository{}, slog.Default()).GetAccounts(context.Background(), userID)
	require.NoError(t, err)

	assert.False(t, resp.Demo)
	assert.Equal(t, 2, resp.TotalBanks)
	assert.True(t, decimal.RequireFromString("150.75").Equal(resp.TotalCurrentBalance))
	assert.Equal(t, "b2", resp.Data[1].ID, "primary account is preferred")
	assert.Equal(t, "First Platypus Bank", resp.Data[0].InstitutionName)
}

func TestGetAccounts_NoBanks(t *testing.T) {
	resp, err := usecase.NewAccountReader(&mockPlaid{}, &mockBankRepository{}, &mockTransferRepository{}, slog.Default()).
		GetAccounts(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, resp.TotalBanks)
	assert.NotNil(t, resp.Data)
	assert.False(t, resp.Demo)
}

func TestGetAccounts_AggregatorFailureUsesDemo(t *testing.T) {
	userID := uuid.New()
	banks := &mockBankRepository{banks: []*model.LinkedBank{linkedBank(t, userID, "tok", "")}}
	plaid := &mockPlaid{accountsErr: errors.New("plaid: not configured")}

	resp, err := usecase.NewAccountReader(plaid, banks, &mockTransferRepository{}, slog.Default()).GetAccounts(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, resp.Demo)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "demo-account-123", resp.Data[0].ID)
	assert.True(t, decimal.RequireFromString("25450.75").Equal(resp.TotalCurrentBalance))
}

func TestGetAccounts_RepositoryFailureSurfaces(t *testing.T) {
	_, err := usecase.NewAccountReader(&mockPlaid{}, &mockBankRepository{listErr: errors.New("db down")}, &mockTransferRepository{}, slog.Default()).
		GetAccounts(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestGetAccount_SortsAndPaginatesTransactions(t *testing.T) {
	userID := uuid.New()
	bank := linkedBank(t, userID, "tok", "a")
	day := func(d int) time.Time { return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC) }
	plaid := &mockPlaid{
		accounts: map[string]openbanking.AccountsResult{
			"tok": {InstitutionID: "ins_1", Accounts: []openbanking.BankAccount{account("a", "10")}},
		},
		instErr: errors.New("institution lookup failed"),
		pages: []openbanking.TransactionSyncResult{
			{Added: []openbanking.Transaction{{TransactionID: "t1", Date: day(1)}, {TransactionID: "t3", Date: day(3)}}, HasMore: true, NextCursor: "c1"},
			{Added: []openbanking.Transaction{{TransactionID: "t2", Date: day(2)}}},
		},
	}

	resp, err := usecase.NewAccountReader(plaid, &mockBankRepository{banks: []*model.LinkedBank{bank}}, &mockTransferRepository{}, slog.Default()).
		GetAccount(context.Background(), userID, bank.ID())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "c1"}, plaid.syncCursors)
	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, "t3", resp.Transactions[0].ID)
	assert.Equal(t, "t2", resp.Transactions[1].ID)
	assert.Equal(t, "t1", resp.Transactions[2].ID)
	assert.Equal(t, "mock-institution", resp.Data.InstitutionID, "institution falls back to demo")
	assert.False(t, resp.Demo)
}

func TestGetAccount_TransactionFallbackIsIndependent(t *testing.T) {
	userID := uuid.New()
	bank := linkedBank(t, userID, "tok", "a")
	plaid := &mockPlaid{
		accounts: map[string]openbanking.AccountsResult{
			"tok": {Accounts: []openbanking.BankAccount{account("a", "10")}},
		},
		syncErr: errors.New("sync failed"),
	}

	resp, err := usecase.NewAccountReader(plaid, &mockBankRepository{banks: []*model.LinkedBank{bank}}, &mockTransferRepository{}, slog.Default()).
		GetAccount(context.Background(), userID, bank.ID())
	require.NoError(t, err)

	assert.Equal(t, "a", resp.Data.ID, "real account kept")
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, "mock-tx-1", resp.Transactions[0].ID)
	assert.Equal(t, "mock-tx-2", resp.Transactions[1].ID)
}

func TestGetAccount_AccountFailureUsesDemo(t *testing.T) {
	userID := uuid.New()
	bank := linkedBank(t, userID, "tok", "a")
	plaid := &mockPlaid{accountsErr: errors.New("boom")}

	resp, err := usecase.NewAccountReader(plaid, &mockBankRepository{banks: []*model.LinkedBank{bank}}, &mockTransferRepository{}, slog.Default()).
		GetAccount(context.Background(), userID, bank.ID())
	require.NoError(t, err)
	assert.True(t, resp.Demo)
	assert.Equal(t, "demo-account-123", resp.Data.ID)
	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, "demo-tx-1", resp.Transactions[0].ID)
}

func TestGetAccount_UnknownBank(t *testing.T) {
	_, err := usecase.NewAccountReader(&mockPlaid{}, &mockBankRepository{}, &mockTransferRepository{}, slog.Default()).
		GetAccount(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestGetAccount_MergesTransfers(t *testing.T) {
	userID := uuid.New()
	bank := linkedBank(t, userID, "tok", "a")
	other := linkedBank(t, uuid.New(), "tok-other", "z")
	day := func(d int) time.Time { return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC) }
	plaid := &mockPlaid{
		accounts: map[string]openbanking.AccountsResult{
			"tok": {Accounts: []openbanking.BankAccount{account("a", "10")}},
		},
		pages: []openbanking.TransactionSyncResult{
			{Added: []openbanking.Transaction{{TransactionID: "t2", Date: day(2)}}},
		},
	}
	sent := model.ReconstructTransfer(uuid.New(), userID, bank.ID(), other.UserID(), other.ID(),
		decimal.RequireFromString("40"), "USD", "Rent", "", valueobject.TransferSubmitted, "ref-1", day(3))
	received := model.ReconstructTransfer(uuid.New(), other.UserID(), other.ID(), userID, bank.ID(),
		decimal.RequireFromString("15"), "USD", "Dinner", "", valueobject.TransferSimulated, "mock-transfer-1", day(1))
	transfers := &mockTransferRepository{saved: []*model.Transfer{sent, received}}

	resp, err := usecase.NewAccountReader(plaid, &mockBankRepository{banks: []*model.LinkedBank{bank}}, transfers, slog.Default()).
		GetAccount(context.Background(), userID, bank.ID())
	require.NoError(t, err)

	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, sent.ID().String(), resp.Transactions[0].ID)
	assert.Equal(t, "debit", resp.Transactions[0].Type)
	assert.Equal(t, "Transfer", resp.Transactions[0].Category)
	assert.Equal(t, "online", resp.Transactions[0].PaymentChannel)
	assert.Equal(t, "a", resp.Transactions[0].AccountID)
	assert.Equal(t, "t2", resp.Transactions[1].ID)
	assert.Equal(t, received.ID().String(), resp.Transactions[2].ID)
	assert.Equal(t, "credit", resp.Transactions[2].Type)
	assert.True(t, decimal.RequireFromString("15").Equal(resp.Transactions[2].Amount))
}

func TestGetAccount_TransferStoreFailureUsesDemoTransfer(t *testing.T) {
	userID := uuid.New()
	bank := linkedBank(t, userID, "tok", "a")
	plaid := &mockPlaid{
		accounts: map[string]openbanking.AccountsResult{
			"tok": {Accounts: []openbanking.BankAccount{account("a", "10")}},
		},
	}
	transfers := &mockTransferRepository{listErr: errors.New("db down")}

	resp, err := usecase.NewAccountReader(plaid, &mockBankRepository{banks: []*model.LinkedBank{bank}}, transfers, slog.Default()).
		GetAccount(context.Background(), userID, bank.ID())
	require.NoError(t, err)

	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "mock-transfer-1", resp.Transactions[0].ID)
	assert.Equal(t, "debit", resp.Transactions[0].Type)
	assert.False(t, resp.Demo, "account data is still real")
}
