package services

import (
	"context"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"github.com/shopspring/decimal"
)

var _ RaffleService = (*RaffleServiceImpl)(nil)

// RaffleServiceImpl handles raffle creation and read access
type RaffleServiceImpl struct {
	store                *store.RaffleStore
	authorizer           Authorizer
	defaultOnePerAccount bool
}

// NewRaffleService creates a new RaffleServiceImpl
func NewRaffleService(raffleStore *store.RaffleStore, authorizer Authorizer, defaultOnePerAccount bool) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		store:                raffleStore,
		authorizer:           authorizer,
		defaultOnePerAccount: defaultOnePerAccount,
	}
}

// CreateRaffle creates an Active raffle owned by organizer
func (s *RaffleServiceImpl) CreateRaffle(ctx context.Context, organizer string, req *models.CreateRaffleRequest) (*models.Raffle, error) {
	allowed, err := s.authorizer.CanCreate(ctx, organizer)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NewError(apperrors.KindUnauthorized, "%s may not create raffles", organizer)
	}

	price, err := money.ParseAmount(req.TicketPrice)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.KindInvalidRaffleSpec, err, "invalid ticket price")
	}

	onePerAccount := s.defaultOnePerAccount
	if req.OnePerAccount != nil {
		onePerAccount = *req.OnePerAccount
	}

	raffle, err := s.store.Create(ctx, models.RaffleSpec{
		Title:         req.Title,
		MaxTickets:    req.MaxTickets,
		TicketPrice:   price,
		FeePercent:    req.FeePercent,
		StakePercent:  req.StakePercent,
		Organizer:     organizer,
		OnePerAccount: onePerAccount,
	})
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

// GetRaffle retrieves a raffle by id
func (s *RaffleServiceImpl) GetRaffle(ctx context.Context, id string) (*models.Raffle, error) {
	raffle, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

// ListRaffles returns raffles matching filter, newest first
func (s *RaffleServiceImpl) ListRaffles(ctx context.Context, filter models.RaffleFilter) ([]models.Raffle, error) {
	return s.store.List(ctx, filter)
}

// Split returns the payment split of one ticket of the raffle
func (s *RaffleServiceImpl) Split(ctx context.Context, id string) (money.PaymentSplit, error) {
	raffle, err := s.store.Get(ctx, id)
	if err != nil {
		return money.PaymentSplit{}, err
	}
	return raffle.Split()
}

// Stats aggregates totals across all raffles
func (s *RaffleServiceImpl) Stats(ctx context.Context) (*models.LedgerStats, error) {
	raffles, err := s.store.List(ctx, models.RaffleFilter{})
	if err != nil {
		return nil, err
	}

	stats := &models.LedgerStats{
		TotalRaised: decimal.Zero,
		TotalFees:   decimal.Zero,
		TotalStake:  decimal.Zero,
	}
	accounts := make(map[string]struct{})
	for _, r := range raffles {
		stats.TotalRaffles++
		if r.IsActive() {
			stats.ActiveRaffles++
		} else {
			stats.ClosedRaffles++
		}
		stats.TicketsSold += r.TicketsIssued
		stats.TotalRaised = stats.TotalRaised.Add(r.TotalRaised)
		stats.TotalFees = stats.TotalFees.Add(r.TotalFees)
		stats.TotalStake = stats.TotalStake.Add(r.TotalStake)
		for _, p := range r.Participants {
			accounts[p] = struct{}{}
		}
	}
	stats.UniqueAccounts = len(accounts)
	return stats, nil
}
