package sqlite

import (
	"context"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const platformSettingsID = "platform"

var _ repositories.PlatformSettingsRepository = (*PlatformSettingsRepository)(nil)

// PlatformSettingsRepository keeps the single settings row
type PlatformSettingsRepository struct {
	db                *gorm.DB
	defaultFeeAccount string
}

// NewPlatformSettingsRepository creates the repository; defaultFeeAccount seeds the row on first read
func NewPlatformSettingsRepository(db *gorm.DB, defaultFeeAccount string) *PlatformSettingsRepository {
	return &PlatformSettingsRepository{db: db, defaultFeeAccount: defaultFeeAccount}
}

func (r *PlatformSettingsRepository) GetSettings(ctx context.Context) (*models.PlatformSettings, error) {
	row := PlatformSettingsRow{ID: platformSettingsID}
	err := r.db.WithContext(ctx).
		Attrs(PlatformSettingsRow{FeeAccount: r.defaultFeeAccount, UpdatedAt: time.Now().UTC()}).
		FirstOrCreate(&row, PlatformSettingsRow{ID: platformSettingsID}).Error
	if err != nil {
		return nil, err
	}
	return &models.PlatformSettings{
		FeeAccount: row.FeeAccount,
		UpdatedAt:  row.UpdatedAt,
		UpdatedBy:  row.UpdatedBy,
	}, nil
}

func (r *PlatformSettingsRepository) UpdateFeeAccount(ctx context.Context, feeAccount string, updatedBy string) error {
	row := PlatformSettingsRow{
		ID:         platformSettingsID,
		FeeAccount: feeAccount,
		UpdatedAt:  time.Now().UTC(),
		UpdatedBy:  updatedBy,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fee_account", "updated_at", "updated_by"}),
	}).Create(&row).Error
}
