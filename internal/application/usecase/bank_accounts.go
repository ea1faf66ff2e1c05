package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/pkg/openbanking"
)

const (
	linkClientName = "finboard"
	maxSyncPages   = 50
)

// CreateLinkToken starts the aggregator link flow for a user.
type CreateLinkToken struct {
	plaid openbanking.PlaidClient
}

// NewCreateLinkToken creates a new CreateLinkToken use case.
func NewCreateLinkToken(plaid openbanking.PlaidClient) *CreateLinkToken {
	return &CreateLinkToken{plaid: plaid}
}

// Execute returns a fresh link token for userID.
func (uc *CreateLinkToken) Execute(ctx context.Context, userID uuid.UUID) (dto.LinkTokenResponse, error) {
	resp, err := uc.plaid.CreateLinkToken(ctx, userID.String(), linkClientName)
	if err != nil {
		return dto.LinkTokenResponse{}, fmt.Errorf("%w: create link token: %v", ErrAggregatorUnavailable, err)
	}
	return dto.LinkTokenResponse{LinkToken: resp.LinkToken, Expiration: resp.Expiration}, nil
}

// ExchangePublicToken completes the link flow and stores the linked bank.
type ExchangePublicToken struct {
	plaid openbanking.PlaidClient
	banks port.BankRepository
}

// NewExchangePublicToken creates a new ExchangePublicToken use case.
func NewExchangePublicToken(plaid openbanking.PlaidClient, banks port.BankRepository) *ExchangePublicToken {
	return &ExchangePublicToken{plaid: plaid, banks: banks}
}

// Execute exchanges the public token and records the item's first account.
func (uc *ExchangePublicToken) Execute(ctx context.Context, req dto.ExchangePublicTokenRequest) (dto.LinkedBankResponse, error) {
	if req.PublicToken == "" {
		return dto.LinkedBankResponse{}, fmt.Errorf("%w: public token is required", ErrInvalidInput)
	}

	item, err := uc.plaid.ExchangePublicToken(ctx, req.PublicToken)
	if err != nil {
		return dto.LinkedBankResponse{}, fmt.Errorf("%w: exchange public token: %v", ErrAggregatorUnavailable, err)
	}

	accounts, err := uc.plaid.GetAccounts(ctx, item.AccessToken)
	if err != nil {
		return dto.LinkedBankResponse{}, fmt.Errorf("%w: get accounts: %v", ErrAggregatorUnavailable, err)
	}
	var primary string
	if len(accounts.Accounts) > 0 {
		primary = accounts.Accounts[0].AccountID
	}

	bank, err := model.NewLinkedBank(req.UserID, item.ItemID, item.AccessToken, accounts.InstitutionID, primary)
	if err != nil {
		return dto.LinkedBankResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := uc.banks.Save(ctx, bank); err != nil {
		return dto.LinkedBankResponse{}, fmt.Errorf("failed to save linked bank: %w", err)
	}

	return dto.LinkedBankResponse{
		ID:            bank.ID(),
		InstitutionID: bank.InstitutionID(),
		AccountID:     bank.PrimaryAccountID(),
		ShareableID:   bank.ShareableID(),
		CreatedAt:     bank.CreatedAt(),
	}, nil
}

// AccountReader serves balances and history for linked banks. Aggregator
// and transfer-store failures degrade to demo data instead of failing the
// request.
type AccountReader struct {
	plaid     openbanking.PlaidClient
	banks     port.BankRepository
	transfers port.TransferRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewAccountReader creates an AccountReader.
func NewAccountReader(
	plaid openbanking.PlaidClient,
	banks port.BankRepository,
	transfers port.TransferRepository,
	logger *slog.Logger,
) *AccountReader {
	return &AccountReader{plaid: plaid, banks: banks, transfers: transfers, logger: logger, now: time.Now}
}

// GetAccounts returns every linked account with the total current balance.
func (uc *AccountReader) GetAccounts(ctx context.Context, userID uuid.UUID) (dto.AccountsResponse, error) {
	banks, err := uc.banks.ListByUser(ctx, userID)
	if err != nil {
		return dto.AccountsResponse{}, fmt.Errorf("failed to list linked banks: %w", err)
	}

	accounts := make([]dto.Account, 0, len(banks))
	for _, bank := range banks {
		account, err := uc.account(ctx, bank)
		if err != nil {
			uc.logger.WarnContext(ctx, "aggregator accounts lookup failed, using demo data",
				slog.String("bank_id", bank.ID().String()),
				"error", err,
			)
			return accountsResponse([]dto.Account{demoAccount()}, true), nil
		}
		accounts = append(accounts, account)
	}

	return accountsResponse(accounts, false), nil
}

// GetAccount returns one linked account with its aggregator transactions and
// the transfers into or out of it, newest first.
func (uc *AccountReader) GetAccount(ctx context.Context, userID, bankID uuid.UUID) (dto.AccountDetailResponse, error) {
	bank, err := uc.banks.FindByID(ctx, userID, bankID)
	if err != nil {
		return dto.AccountDetailResponse{}, fmt.Errorf("failed to find linked bank %s: %w", bankID, err)
	}

	account, err := uc.account(ctx, bank)
	if err != nil {
		uc.logger.WarnContext(ctx, "aggregator account lookup failed, using demo data",
			slog.String("bank_id", bankID.String()),
			"error", err,
		)
		return dto.AccountDetailResponse{
			Data:         demoAccount(),
			Transactions: demoAccountTransactions(uc.now()),
			Demo:         true,
		}, nil
	}

	transactions := append(uc.transferHistory(ctx, bank), uc.transactions(ctx, bank)...)
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	return dto.AccountDetailResponse{Data: account, Transactions: transactions}, nil
}

func (uc *AccountReader) account(ctx context.Context, bank *model.LinkedBank) (dto.Account, error) {
	result, err := uc.plaid.GetAccounts(ctx, bank.AccessToken())
	if err != nil {
		return dto.Account{}, err
	}
	if len(result.Accounts) == 0 {
		return dto.Account{}, errors.New("item has no accounts")
	}

	acc := result.Accounts[0]
	for _, a := range result.Accounts {
		if a.AccountID == bank.PrimaryAccountID() {
			acc = a
			break
		}
	}

	institutionID := result.InstitutionID
	if institutionID == "" {
		institutionID = bank.InstitutionID()
	}
	institution := uc.institution(ctx, institutionID)

	return dto.Account{
		ID:               acc.AccountID,
		AvailableBalance: acc.Balances.Available,
		CurrentBalance:   acc.Balances.Current,
		InstitutionID:    institution.InstitutionID,
		InstitutionName:  institution.Name,
		Name:             acc.Name,
		OfficialName:     acc.OfficialName,
		Mask:             acc.Mask,
		Type:             acc.Type,
		Subtype:          acc.Subtype,
		BankID:           bank.ID().String(),
		ShareableID:      bank.ShareableID().String(),
	}, nil
}

func (uc *AccountReader) institution(ctx context.Context, institutionID string) openbanking.Institution {
	inst, err := uc.plaid.GetInstitution(ctx, institutionID)
	if err != nil {
		uc.logger.WarnContext(ctx, "institution lookup failed, using demo institution",
			slog.String("institution_id", institutionID),
			"error", err,
		)
		return demoInstitution()
	}
	return inst
}

// transactions drains the sync cursor. A failure on any page falls back to
// demo transactions, independently of the account lookup.
func (uc *AccountReader) transactions(ctx context.Context, bank *model.LinkedBank) []dto.Transaction {
	var (
		out    []dto.Transaction
		cursor string
	)
	for pages := 0; pages < maxSyncPages; pages++ {
		page, err := uc.plaid.SyncTransactions(ctx, bank.AccessToken(), cursor)
		if err != nil {
			uc.logger.WarnContext(ctx, "transaction sync failed, using demo transactions",
				slog.String("bank_id", bank.ID().String()),
				"error", err,
			)
			return demoTransactions(uc.now())
		}
		for _, tx := range page.Added {
			out = append(out, dto.Transaction{
				ID:             tx.TransactionID,
				Name:           tx.Name,
				PaymentChannel: tx.PaymentChannel,
				Type:           tx.PaymentChannel,
				AccountID:      tx.AccountID,
				Amount:         tx.Amount,
				Pending:        tx.Pending,
				Category:       tx.Category,
				Date:           tx.Date,
				Image:          tx.LogoURL,
			})
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	if out == nil {
		out = []dto.Transaction{}
	}
	return out
}

// transferHistory lists stored transfers as debits or credits of bank.
func (uc *AccountReader) transferHistory(ctx context.Context, bank *model.LinkedBank) []dto.Transaction {
	transfers, err := uc.transfers.ListByBank(ctx, bank.ID())
	if err != nil {
		uc.logger.WarnContext(ctx, "transfer lookup failed, using demo transfer",
			slog.String("bank_id", bank.ID().String()),
			"error", err,
		)
		return []dto.Transaction{demoTransfer(bank.PrimaryAccountID(), uc.now())}
	}

	out := make([]dto.Transaction, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, dto.Transaction{
			ID:             t.ID().String(),
			Name:           t.Name(),
			PaymentChannel: model.TransferChannel,
			Type:           t.Direction(bank.ID()),
			AccountID:      bank.PrimaryAccountID(),
			Amount:         t.Amount(),
			Category:       model.TransferCategory,
			Date:           t.CreatedAt(),
		})
	}
	return out
}

func accountsResponse(accounts []dto.Account, demo bool) dto.AccountsResponse {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.CurrentBalance)
	}
	return dto.AccountsResponse{
		Data:                accounts,
		TotalBanks:          len(accounts),
		TotalCurrentBalance: total,
		Demo:                demo,
	}
}
