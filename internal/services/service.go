package services

import (
	"context"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
)

// RaffleService defines raffle creation, lookup and reporting
type RaffleService interface {
	CreateRaffle(ctx context.Context, organizer string, req *models.CreateRaffleRequest) (*models.Raffle, error)
	GetRaffle(ctx context.Context, id string) (*models.Raffle, error)
	ListRaffles(ctx context.Context, filter models.RaffleFilter) ([]models.Raffle, error)
	// Split previews the payment split of one ticket
	Split(ctx context.Context, id string) (money.PaymentSplit, error)
	Stats(ctx context.Context) (*models.LedgerStats, error)
}

// TicketService defines ticket issuance and ticket queries
type TicketService interface {
	BuyTicket(ctx context.Context, raffleID, buyer string, opts models.PurchaseOptions) (*models.Ticket, error)
	ListTickets(ctx context.Context, raffleID string) ([]models.Ticket, error)
	ListTicketsByOwner(ctx context.Context, owner string) ([]models.Ticket, error)
	HasParticipated(ctx context.Context, raffleID, account string) (bool, error)
	Participants(ctx context.Context, raffleID string) ([]string, error)
}

// DrawService defines closing a raffle and claiming its prize
type DrawService interface {
	CloseRaffle(ctx context.Context, raffleID, requester string) (*models.CloseResult, error)
	ClaimPrize(ctx context.Context, raffleID, requester string) (*models.ClaimResult, error)
}

// AuthService defines account registration, login and role capabilities
type AuthService interface {
	Authorizer
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
	AssignRole(ctx context.Context, requester, address string, role models.Role) (*models.Account, error)
	ListAccounts(ctx context.Context, requester string) ([]*models.Account, error)
}

// Authorizer answers capability questions about an account
type Authorizer interface {
	IsAdmin(ctx context.Context, address string) (bool, error)
	CanCreate(ctx context.Context, address string) (bool, error)
}

// PlatformService defines access to platform-wide settings
type PlatformService interface {
	GetSettings(ctx context.Context) (*models.PlatformSettings, error)
	SetFeeAccount(ctx context.Context, requester, feeAccount string) (*models.PlatformSettings, error)
}
