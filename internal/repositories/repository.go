package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
)

// ErrNotFound is returned by every backend when the requested record does not exist
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict is returned by Replace when the stored version no longer matches
var ErrVersionConflict = errors.New("version conflict")

// ErrDuplicate is returned when inserting a record whose key already exists
var ErrDuplicate = errors.New("duplicate key")

// RaffleRepository defines the interface for raffle persistence.
// A raffle is stored together with its tickets as one aggregate.
type RaffleRepository interface {
	Insert(ctx context.Context, raffle *models.Raffle) error
	FindByID(ctx context.Context, id string) (*models.Raffle, error)
	FindAll(ctx context.Context, filter models.RaffleFilter) ([]*models.Raffle, error)
	// Replace stores raffle if the persisted version equals expectedVersion
	Replace(ctx context.Context, raffle *models.Raffle, expectedVersion int64) error
}

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByAddress(ctx context.Context, address string) (*models.Account, error)
	UpdateRole(ctx context.Context, address string, role models.Role) error
	FindAll(ctx context.Context) ([]*models.Account, error)
}

// PlatformSettingsRepository defines the interface for platform settings operations
type PlatformSettingsRepository interface {
	GetSettings(ctx context.Context) (*models.PlatformSettings, error)
	UpdateFeeAccount(ctx context.Context, feeAccount string, updatedBy string) error
}
