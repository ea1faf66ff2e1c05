package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
)

// BankRepository is a mutex-guarded map of linked banks.
type BankRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*model.LinkedBank
}

var _ port.BankRepository = (*BankRepository)(nil)

// NewBankRepository creates an empty BankRepository.
func NewBankRepository() *BankRepository {
	return &BankRepository{items: make(map[uuid.UUID]*model.LinkedBank)}
}

// Save stores b. Re-linking an item the user already linked replaces the
// existing record's token and keeps its id.
func (r *BankRepository) Save(_ context.Context, b *model.LinkedBank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.items {
		if existing.UserID() == b.UserID() && existing.ItemID() == b.ItemID() {
			b.AdoptIdentity(existing)
			r.items[id] = b
			return nil
		}
	}
	r.items[b.ID()] = b
	return nil
}

func (r *BankRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*model.LinkedBank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok || b.UserID() != userID {
		return nil, port.ErrNotFound
	}
	return b, nil
}

func (r *BankRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.LinkedBank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	banks := make([]*model.LinkedBank, 0)
	for _, b := range r.items {
		if b.UserID() == userID {
			banks = append(banks, b)
		}
	}
	sort.Slice(banks, func(i, j int) bool {
		if banks[i].CreatedAt().Equal(banks[j].CreatedAt()) {
			return banks[i].ID().String() < banks[j].ID().String()
		}
		return banks[i].CreatedAt().Before(banks[j].CreatedAt())
	})
	return banks, nil
}

func (r *BankRepository) FindByShareableID(_ context.Context, shareableID uuid.UUID) (*model.LinkedBank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.ShareableID() == shareableID {
			return b, nil
		}
	}
	return nil, port.ErrNotFound
}
