// Package memory provides in-process repositories used when no database is
// configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
)

// AssessmentRepository is a mutex-guarded map of assessments.
type AssessmentRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*model.Assessment
}

var _ port.AssessmentRepository = (*AssessmentRepository)(nil)

// NewAssessmentRepository creates an empty AssessmentRepository.
func NewAssessmentRepository() *AssessmentRepository {
	return &AssessmentRepository{items: make(map[uuid.UUID]*model.Assessment)}
}

func (r *AssessmentRepository) Save(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[a.ID()] = a
	return nil
}

func (r *AssessmentRepository) FindByID(_ context.Context, userID, id uuid.UUID) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok || a.UserID() != userID {
		return nil, port.ErrNotFound
	}
	return a, nil
}

func (r *AssessmentRepository) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*model.Assessment, error) {
	r.mu.RLock()
	owned := make([]*model.Assessment, 0)
	for _, a := range r.items {
		if a.UserID() == userID {
			owned = append(owned, a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt().Equal(owned[j].CreatedAt()) {
			return owned[i].ID().String() < owned[j].ID().String()
		}
		return owned[i].CreatedAt().After(owned[j].CreatedAt())
	})

	if offset >= len(owned) {
		return []*model.Assessment{}, nil
	}
	end := len(owned)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return owned[offset:end], nil
}
