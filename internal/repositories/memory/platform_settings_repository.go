package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
)

var _ repositories.PlatformSettingsRepository = (*PlatformSettingsRepository)(nil)

// PlatformSettingsRepository holds the single settings document in memory
type PlatformSettingsRepository struct {
	mu       sync.RWMutex
	settings models.PlatformSettings
}

// NewPlatformSettingsRepository creates settings with the given initial fee account
func NewPlatformSettingsRepository(feeAccount string) *PlatformSettingsRepository {
	return &PlatformSettingsRepository{
		settings: models.PlatformSettings{FeeAccount: feeAccount, UpdatedAt: time.Now().UTC()},
	}
}

func (r *PlatformSettingsRepository) GetSettings(ctx context.Context) (*models.PlatformSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.settings
	return &s, nil
}

func (r *PlatformSettingsRepository) UpdateFeeAccount(ctx context.Context, feeAccount string, updatedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings.FeeAccount = feeAccount
	r.settings.UpdatedBy = updatedBy
	r.settings.UpdatedAt = time.Now().UTC()
	return nil
}
