package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl keeps accounts and their roles and issues access tokens
type AuthServiceImpl struct {
	accountRepo  repositories.AccountRepository
	tokens       *jwt.TokenService
	admins       map[string]bool
	openCreation bool
}

// NewAuthService creates an AuthServiceImpl. Addresses in admins are treated
// as administrators whether or not their stored role says so.
func NewAuthService(accountRepo repositories.AccountRepository, tokens *jwt.TokenService, admins []string, openCreation bool) *AuthServiceImpl {
	set := make(map[string]bool, len(admins))
	for _, a := range admins {
		if a = strings.TrimSpace(a); a != "" {
			set[a] = true
		}
	}
	return &AuthServiceImpl{
		accountRepo:  accountRepo,
		tokens:       tokens,
		admins:       set,
		openCreation: openCreation,
	}
}

// Register creates an account with a bcrypt password hash
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, apperrors.NewError(apperrors.KindInvalidInput, "address is required")
	}
	// Configured admin addresses are seeded by the operator, never claimed through sign-up
	if s.admins[address] {
		return nil, apperrors.NewError(apperrors.KindUnauthorized, "address %s is reserved for an administrator", address)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleParticipant
	now := time.Now().UTC()
	account := &models.Account{
		Address:      address,
		Role:         role,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewError(apperrors.KindAccountExists, "account %s already registered", address)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	logger.Info("account registered", zap.String("address", address), zap.String("role", string(role)))
	return account, nil
}

// SeedAdmins creates an account holding passwordHash for every configured
// admin address that has none yet. Existing accounts are left untouched.
func (s *AuthServiceImpl) SeedAdmins(ctx context.Context, passwordHash string) (int, error) {
	if passwordHash == "" {
		return 0, nil
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return 0, apperrors.WrapError(apperrors.KindInvalidInput, err, "admin password hash is not a bcrypt hash")
	}

	seeded := 0
	for address := range s.admins {
		now := time.Now().UTC()
		err := s.accountRepo.Create(ctx, &models.Account{
			Address:      address,
			Role:         models.RoleAdmin,
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, repositories.ErrDuplicate) {
			continue
		}
		if err != nil {
			return seeded, fmt.Errorf("failed to seed admin %s: %w", address, err)
		}
		seeded++
		logger.Info("admin account seeded", zap.String("address", address))
	}
	return seeded, nil
}

// ListAccounts returns every account with its effective role. Only admins may call it.
func (s *AuthServiceImpl) ListAccounts(ctx context.Context, requester string) ([]*models.Account, error) {
	isAdmin, err := s.IsAdmin(ctx, requester)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperrors.NewError(apperrors.KindUnauthorized, "%s may not list accounts", requester)
	}

	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, account := range accounts {
		account.Role = s.effectiveRole(account)
	}
	return accounts, nil
}

// Login verifies the password and returns a signed token
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	account, err := s.accountRepo.FindByAddress(ctx, strings.TrimSpace(req.Address))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewError(apperrors.KindInvalidCredentials, "invalid credentials")
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.NewError(apperrors.KindInvalidCredentials, "invalid credentials")
	}

	role := s.effectiveRole(account)
	token, expiresAt, err := s.tokens.Issue(account.Address, string(role))
	if err != nil {
		return nil, err
	}
	account.Role = role
	return &models.TokenResponse{Token: token, ExpiresAt: expiresAt, Account: *account}, nil
}

// IsAdmin reports whether address holds the admin role
func (s *AuthServiceImpl) IsAdmin(ctx context.Context, address string) (bool, error) {
	if s.admins[address] {
		return true, nil
	}
	account, err := s.accountRepo.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return account.Role == models.RoleAdmin, nil
}

// CanCreate reports whether address may create raffles
func (s *AuthServiceImpl) CanCreate(ctx context.Context, address string) (bool, error) {
	if address == "" {
		return false, nil
	}
	if s.openCreation || s.admins[address] {
		return true, nil
	}
	account, err := s.accountRepo.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return account.Role == models.RoleOrganizer || account.Role == models.RoleAdmin, nil
}

// AssignRole changes the role of address. Only admins may call it.
func (s *AuthServiceImpl) AssignRole(ctx context.Context, requester, address string, role models.Role) (*models.Account, error) {
	if !role.Valid() {
		return nil, apperrors.NewError(apperrors.KindInvalidInput, "unknown role %q", role)
	}
	isAdmin, err := s.IsAdmin(ctx, requester)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, apperrors.NewError(apperrors.KindUnauthorized, "%s may not assign roles", requester)
	}

	if err := s.accountRepo.UpdateRole(ctx, address, role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewError(apperrors.KindNotFound, "account %s not found", address)
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	logger.Info("role assigned",
		zap.String("address", address),
		zap.String("role", string(role)),
		zap.String("by", requester))
	return s.accountRepo.FindByAddress(ctx, address)
}

func (s *AuthServiceImpl) effectiveRole(account *models.Account) models.Role {
	if s.admins[account.Address] {
		return models.RoleAdmin
	}
	return account.Role
}
