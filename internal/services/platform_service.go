package services

import (
	"context"
	"strings"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"go.uber.org/zap"
)

var _ PlatformService = (*PlatformServiceImpl)(nil)

// PlatformServiceImpl implements PlatformService
type PlatformServiceImpl struct {
	settingsRepo repositories.PlatformSettingsRepository
	authorizer   Authorizer
}

// NewPlatformService creates a new PlatformServiceImpl
func NewPlatformService(settingsRepo repositories.PlatformSettingsRepository, authorizer Authorizer) *PlatformServiceImpl {
	return &PlatformServiceImpl{
		settingsRepo: settingsRepo,
		authorizer:   authorizer,
	}
}

// GetSettings retrieves the current platform settings
func (s *PlatformServiceImpl) GetSettings(ctx context.Context) (*models.PlatformSettings, error) {
	return s.settingsRepo.GetSettings(ctx)
}

// SetFeeAccount changes the recipient of platform fees. Tickets already issued keep their recorded fee account.
func (s *PlatformServiceImpl) SetFeeAccount(ctx context.Context, requester, feeAccount string) (*models.PlatformSettings, error) {
	feeAccount = strings.TrimSpace(feeAccount)
	if feeAccount == "" {
		return nil, apperrors.NewError(apperrors.KindInvalidInput, "fee account is required")
	}
	isAdmin, err := s.authorizer.IsAdmin(ctx, requester)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperrors.NewError(apperrors.KindUnauthorized, "%s may not change platform settings", requester)
	}

	if err := s.settingsRepo.UpdateFeeAccount(ctx, feeAccount, requester); err != nil {
		return nil, err
	}
	logger.Info("platform fee account updated", zap.String("feeAccount", feeAccount), zap.String("by", requester))
	return s.settingsRepo.GetSettings(ctx)
}
