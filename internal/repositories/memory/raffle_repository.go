// Package memory provides in-process repository implementations used by
// default and by tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
)

var _ repositories.RaffleRepository = (*RaffleRepository)(nil)

// RaffleRepository keeps raffles in a map keyed by id
type RaffleRepository struct {
	mu      sync.RWMutex
	raffles map[string]*models.Raffle
}

// NewRaffleRepository creates an empty in-memory raffle repository
func NewRaffleRepository() *RaffleRepository {
	return &RaffleRepository{raffles: make(map[string]*models.Raffle)}
}

// Insert stores a new raffle
func (r *RaffleRepository) Insert(ctx context.Context, raffle *models.Raffle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.raffles[raffle.ID]; ok {
		return repositories.ErrDuplicate
	}
	c := raffle.Clone()
	r.raffles[raffle.ID] = &c
	return nil
}

// FindByID returns a copy of the raffle with the given id
func (r *RaffleRepository) FindByID(ctx context.Context, id string) (*models.Raffle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raffle, ok := r.raffles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := raffle.Clone()
	return &c, nil
}

// FindAll returns every raffle matching filter, newest first
func (r *RaffleRepository) FindAll(ctx context.Context, filter models.RaffleFilter) ([]*models.Raffle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Raffle, 0, len(r.raffles))
	for _, raffle := range r.raffles {
		if !filter.Matches(raffle) {
			continue
		}
		c := raffle.Clone()
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Replace overwrites the stored raffle when its version matches expectedVersion
func (r *RaffleRepository) Replace(ctx context.Context, raffle *models.Raffle, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.raffles[raffle.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if current.Version != expectedVersion {
		return repositories.ErrVersionConflict
	}
	c := raffle.Clone()
	r.raffles[raffle.ID] = &c
	return nil
}
