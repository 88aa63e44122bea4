package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/ArowuTest/raffle-ledger-backend/internal/metrics"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ TicketService = (*TicketServiceImpl)(nil)

// TicketServiceImpl issues tickets against the raffle store
type TicketServiceImpl struct {
	store    *store.RaffleStore
	platform PlatformService
}

// NewTicketService creates a new TicketServiceImpl
func NewTicketService(raffleStore *store.RaffleStore, platform PlatformService) *TicketServiceImpl {
	return &TicketServiceImpl{
		store:    raffleStore,
		platform: platform,
	}
}

// BuyTicket issues the next ticket of a raffle to buyer. All checks and the
// issuance itself run inside one store mutation, so a failed purchase leaves
// the raffle untouched.
func (s *TicketServiceImpl) BuyTicket(ctx context.Context, raffleID, buyer string, opts models.PurchaseOptions) (*models.Ticket, error) {
	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		return nil, apperrors.NewError(apperrors.KindUnauthorized, "a buyer account is required")
	}

	feeAccount := ""
	if s.platform != nil {
		settings, err := s.platform.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		feeAccount = settings.FeeAccount
	}

	var ticket models.Ticket
	replayed := false
	_, err := s.store.Mutate(ctx, raffleID, func(r *models.Raffle) error {
		if existing, ok := r.TicketByIdempotencyKey(buyer, opts.IdempotencyKey); ok {
			ticket = existing
			replayed = true
			return store.ErrUnchanged
		}
		if !r.IsActive() {
			return apperrors.NewError(apperrors.KindRaffleNotActive, "raffle %s is closed", r.ID)
		}
		if r.SoldOut() {
			return apperrors.NewError(apperrors.KindRaffleSoldOut, "raffle %s sold all %d tickets", r.ID, r.MaxTickets)
		}
		if r.OnePerAccount && r.HasParticipant(buyer) {
			return apperrors.NewError(apperrors.KindDuplicateParticipant, "%s already holds a ticket in raffle %s", buyer, r.ID)
		}

		split, err := r.Split()
		if err != nil {
			return err
		}

		r.TicketsIssued++
		r.Participants = append(r.Participants, buyer)
		r.TotalRaised = r.TotalRaised.Add(r.TicketPrice)
		r.TotalFees = r.TotalFees.Add(split.Fee)
		r.TotalStake = r.TotalStake.Add(split.Stake)
		r.OrganizerProceeds = r.OrganizerProceeds.Add(split.OrganizerShare)

		ticket = models.Ticket{
			ID:             uuid.New().String(),
			RaffleID:       r.ID,
			TicketNumber:   r.TicketsIssued,
			Owner:          buyer,
			PurchasePrice:  r.TicketPrice,
			Split:          split,
			FeeAccount:     feeAccount,
			IdempotencyKey: opts.IdempotencyKey,
			IssuedAt:       time.Now().UTC(),
		}
		r.Tickets = append(r.Tickets, ticket)
		return nil
	})
	if err != nil {
		metrics.TicketRejections.WithLabelValues(rejectionLabel(err)).Inc()
		return nil, err
	}

	if !replayed {
		metrics.TicketsIssued.Inc()
		logger.Info("ticket issued",
			zap.String("raffleId", raffleID),
			zap.String("owner", buyer),
			zap.Int("ticketNumber", ticket.TicketNumber))
	}
	return &ticket, nil
}

// ListTickets returns every ticket of a raffle in issuance order
func (s *TicketServiceImpl) ListTickets(ctx context.Context, raffleID string) ([]models.Ticket, error) {
	raffle, err := s.store.Get(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	return raffle.Tickets, nil
}

// ListTicketsByOwner returns the tickets of owner across all raffles, newest first
func (s *TicketServiceImpl) ListTicketsByOwner(ctx context.Context, owner string) ([]models.Ticket, error) {
	raffles, err := s.store.List(ctx, models.RaffleFilter{})
	if err != nil {
		return nil, err
	}
	tickets := []models.Ticket{}
	for _, r := range raffles {
		for _, t := range r.Tickets {
			if t.Owner == owner {
				tickets = append(tickets, t)
			}
		}
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].IssuedAt.After(tickets[j].IssuedAt)
	})
	return tickets, nil
}

// HasParticipated reports whether account holds a ticket in the raffle
func (s *TicketServiceImpl) HasParticipated(ctx context.Context, raffleID, account string) (bool, error) {
	raffle, err := s.store.Get(ctx, raffleID)
	if err != nil {
		return false, err
	}
	return raffle.HasParticipant(account), nil
}

// Participants returns the ordered participant list of the raffle
func (s *TicketServiceImpl) Participants(ctx context.Context, raffleID string) ([]string, error) {
	raffle, err := s.store.Get(ctx, raffleID)
	if err != nil {
		return nil, err
	}
	return raffle.Participants, nil
}

func rejectionLabel(err error) string {
	if kind := apperrors.KindOf(err); kind != "" {
		return string(kind)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "Canceled"
	}
	return "Internal"
}
