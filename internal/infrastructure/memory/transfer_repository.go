package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
)

// TransferRepository is a mutex-guarded map of transfers.
type TransferRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*model.Transfer
}

var _ port.TransferRepository = (*TransferRepository)(nil)

// NewTransferRepository creates an empty TransferRepository.
func NewTransferRepository() *TransferRepository {
	return &TransferRepository{items: make(map[uuid.UUID]*model.Transfer)}
}

func (r *TransferRepository) Save(_ context.Context, t *model.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.ID()] = t
	return nil
}

func (r *TransferRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*model.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok || !t.VisibleTo(userID) {
		return nil, port.ErrNotFound
	}
	return t, nil
}

func (r *TransferRepository) ListByBank(_ context.Context, bankID uuid.UUID) ([]*model.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Transfer, 0)
	for _, t := range r.items {
		if t.SenderBankID() == bankID || t.ReceiverBankID() == bankID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID().String() < out[j].ID().String()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}
