package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/ArowuTest/raffle-ledger-backend/internal/metrics"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/randomness"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"go.uber.org/zap"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl closes raffles and pays out the stake pool
type DrawServiceImpl struct {
	store      *store.RaffleStore
	authorizer Authorizer
	source     randomness.Source
}

// NewDrawService creates a new DrawServiceImpl drawing winners from source
func NewDrawService(raffleStore *store.RaffleStore, authorizer Authorizer, source randomness.Source) *DrawServiceImpl {
	return &DrawServiceImpl{
		store:      raffleStore,
		authorizer: authorizer,
		source:     source,
	}
}

// CloseRaffle draws a winner and closes the raffle. Only the organizer or an
// admin may close, and a raffle closes exactly once.
func (s *DrawServiceImpl) CloseRaffle(ctx context.Context, raffleID, requester string) (*models.CloseResult, error) {
	isAdmin, err := s.authorizer.IsAdmin(ctx, requester)
	if err != nil {
		return nil, err
	}

	raffle, err := s.store.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		// 1. Authorization
		if requester == "" || (r.Organizer != requester && !isAdmin) {
			return apperrors.NewError(apperrors.KindUnauthorized, "%s may not close raffle %s", requester, r.ID)
		}
		// 2. Lifecycle
		if !r.IsActive() {
			return apperrors.NewError(apperrors.KindAlreadyClosed, "raffle %s is already closed", r.ID)
		}
		if r.TicketsIssued == 0 {
			return apperrors.NewError(apperrors.KindNoParticipants, "raffle %s has no participants", r.ID)
		}

		// 3. Draw
		index, err := s.source.NextIndex(r.ID, r.TicketsIssued)
		if err != nil {
			return fmt.Errorf("failed to draw winner for raffle %s: %w", r.ID, err)
		}
		if index < 0 || index >= r.TicketsIssued {
			return fmt.Errorf("failed to draw winner for raffle %s: %w", r.ID,
				fmt.Errorf("source %s returned index %d outside [0, %d)", randomness.Describe(s.source), index, r.TicketsIssued))
		}

		now := time.Now().UTC()
		r.State = models.RaffleStateClosed
		r.Winner = r.Participants[index]
		r.ClosedAt = &now
		r.Draw = &models.DrawRecord{
			Index:        index,
			Participants: r.TicketsIssued,
			Source:       randomness.Describe(s.source),
			DrawnAt:      now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RafflesClosed.Inc()
	logger.Info("raffle closed",
		zap.String("raffleId", raffle.ID),
		zap.String("winner", raffle.Winner),
		zap.Int("index", raffle.Draw.Index),
		zap.Int("participants", raffle.Draw.Participants),
		zap.String("closedBy", requester))
	return &models.CloseResult{Raffle: raffle, Winner: raffle.Winner}, nil
}

// ClaimPrize marks the stake pool of a closed raffle as paid to its winner
func (s *DrawServiceImpl) ClaimPrize(ctx context.Context, raffleID, requester string) (*models.ClaimResult, error) {
	raffle, err := s.store.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		if r.IsActive() {
			return apperrors.NewError(apperrors.KindRaffleNotClosed, "raffle %s has not been drawn yet", r.ID)
		}
		if r.Winner != requester {
			return apperrors.NewError(apperrors.KindNotWinner, "%s is not the winner of raffle %s", requester, r.ID)
		}
		if r.PrizeClaimed {
			return apperrors.NewError(apperrors.KindPrizeAlreadyClaimed, "prize of raffle %s was already claimed", r.ID)
		}
		if !r.TotalStake.IsPositive() {
			return apperrors.NewError(apperrors.KindNoPrize, "raffle %s has an empty stake pool", r.ID)
		}

		now := time.Now().UTC()
		r.PrizeClaimed = true
		r.ClaimedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PrizesClaimed.Inc()
	logger.Info("prize claimed",
		zap.String("raffleId", raffle.ID),
		zap.String("winner", raffle.Winner),
		zap.String("amount", raffle.TotalStake.String()))
	return &models.ClaimResult{
		RaffleID:  raffle.ID,
		Winner:    raffle.Winner,
		Amount:    raffle.TotalStake,
		ClaimedAt: *raffle.ClaimedAt,
	}, nil
}
