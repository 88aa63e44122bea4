package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"gorm.io/gorm"
)

var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository stores accounts in the accounts table
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an AccountRepository on db
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	row := AccountRow{
		Address:      account.Address,
		Role:         string(account.Role),
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repositories.ErrDuplicate
	}
	return err
}

func (r *AccountRepository) FindByAddress(ctx context.Context, address string) (*models.Account, error) {
	var row AccountRow
	if err := r.db.WithContext(ctx).First(&row, "address = ?", address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *AccountRepository) UpdateRole(ctx context.Context, address string, role models.Role) error {
	res := r.db.WithContext(ctx).Model(&AccountRow{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{"role": string(role), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]*models.Account, error) {
	var rows []AccountRow
	if err := r.db.WithContext(ctx).Order("address asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]*models.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toModel())
	}
	return accounts, nil
}

func (row *AccountRow) toModel() *models.Account {
	return &models.Account{
		Address:      row.Address,
		Role:         models.Role(row.Role),
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
