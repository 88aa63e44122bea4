package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
)

var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository keeps accounts in a map keyed by address
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

// NewAccountRepository creates an empty in-memory account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]models.Account)}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Address]; ok {
		return repositories.ErrDuplicate
	}
	r.accounts[account.Address] = *account
	return nil
}

func (r *AccountRepository) FindByAddress(ctx context.Context, address string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[address]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &a, nil
}

func (r *AccountRepository) UpdateRole(ctx context.Context, address string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[address]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Role = role
	a.UpdatedAt = time.Now().UTC()
	r.accounts[address] = a
	return nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}
