package usecase_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/pkg/events"
	"github.com/bibbank/finboard/pkg/openbanking"
)

type mockAssessmentRepository struct {
	mu       sync.Mutex
	saved    []*model.Assessment
	saveErr  error
	listErr  error
	lastList [2]int
}

func (m *mockAssessmentRepository) Save(_ context.Context, a *model.Assessment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*model.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.saved {
		if a.ID() == id && a.UserID() == userID {
			return a, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockAssessmentRepository) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*model.Assessment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastList = [2]int{limit, offset}
	var out []*model.Assessment
	for _, a := range m.saved {
		if a.UserID() == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockEventPublisher struct {
	published []events.DomainEvent
	err       error
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, evts...)
	return nil
}

type mockBankRepository struct {
	banks   []*model.LinkedBank
	listErr error
}

func (m *mockBankRepository) FindByShareableID(_ context.Context, shareableID uuid.UUID) (*model.LinkedBank, error) {
	for _, b := range m.banks {
		if b.ShareableID() == shareableID {
			return b, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockBankRepository) Save(_ context.Context, b *model.LinkedBank) error {
	m.banks = append(m.banks, b)
	return nil
}

func (m *mockBankRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*model.LinkedBank, error) {
	for _, b := range m.banks {
		if b.ID() == id && b.UserID() == userID {
			return b, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockBankRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.LinkedBank, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.LinkedBank
	for _, b := range m.banks {
		if b.UserID() == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockPlaid struct {
	linkToken    openbanking.LinkTokenResponse
	item         openbanking.ItemAccessResponse
	accounts     map[string]openbanking.AccountsResult
	institution  openbanking.Institution
	pages        []openbanking.TransactionSyncResult
	err          error
	accountsErr  error
	instErr      error
	syncErr      error
	syncCursors  []string
	exchangeSeen string
}

func (m *mockPlaid) CreateLinkToken(_ context.Context, _, _ string) (openbanking.LinkTokenResponse, error) {
	return m.linkToken, m.err
}

func (m *mockPlaid) ExchangePublicToken(_ context.Context, publicToken string) (openbanking.ItemAccessResponse, error) {
	m.exchangeSeen = publicToken
	return m.item, m.err
}

func (m *mockPlaid) GetAccounts(_ context.Context, accessToken string) (openbanking.AccountsResult, error) {
	if m.accountsErr != nil {
		return openbanking.AccountsResult{}, m.accountsErr
	}
	return m.accounts[accessToken], nil
}

func (m *mockPlaid) GetInstitution(_ context.Context, _ string) (openbanking.Institution, error) {
	return m.institution, m.instErr
}

func (m *mockPlaid) SyncTransactions(_ context.Context, _, cursor string) (openbanking.TransactionSyncResult, error) {
	m.syncCursors = append(m.syncCursors, cursor)
	if m.syncErr != nil {
		return openbanking.TransactionSyncResult{}, m.syncErr
	}
	idx := len(m.syncCursors) - 1
	if idx >= len(m.pages) {
		return openbanking.TransactionSyncResult{}, nil
	}
	return m.pages[idx], nil
}

type mockTransferRepository struct {
	saved   []*model.Transfer
	saveErr error
	listErr error
}

func (m *mockTransferRepository) Save(_ context.Context, t *model.Transfer) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, t)
	return nil
}

func (m *mockTransferRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*model.Transfer, error) {
	for _, t := range m.saved {
		if t.ID() == id && t.VisibleTo(userID) {
			return t, nil
		}
	}
	return nil, port.ErrNotFound
}

func (m *mockTransferRepository) ListByBank(_ context.Context, bankID uuid.UUID) ([]*model.Transfer, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.Transfer
	for _, t := range m.saved {
		if t.SenderBankID() == bankID || t.ReceiverBankID() == bankID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

type mockRails struct {
	reference string
	err       error
	orders    []openbanking.TransferOrder
}

func (m *mockRails) CreateTransfer(_ context.Context, order openbanking.TransferOrder) (string, error) {
	m.orders = append(m.orders, order)
	return m.reference, m.err
}
