// Package store is the authoritative raffle record keeper. Every change to a
// raffle goes through Mutate, which serializes writers per raffle and refuses
// any result that breaks the ledger invariants.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/ArowuTest/raffle-ledger-backend/internal/metrics"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrUnchanged may be returned by a Mutate callback to finish without writing
var ErrUnchanged = errors.New("raffle unchanged")

// Limits are platform-wide bounds applied when a raffle is created. Zero values disable a bound.
type Limits struct {
	MaxTickets      int
	MaxFeePercent   int
	MaxStakePercent int
	MinTicketPrice  decimal.Decimal
}

// RaffleStore owns raffle records on top of a repository backend
type RaffleStore struct {
	repo   repositories.RaffleRepository
	limits Limits
	locks  *keyedLocks

	qmu         sync.RWMutex
	quarantined map[string]error

	now func() time.Time
}

// NewRaffleStore creates a store over repo
func NewRaffleStore(repo repositories.RaffleRepository, limits Limits) *RaffleStore {
	return &RaffleStore{
		repo:        repo,
		limits:      limits,
		locks:       newKeyedLocks(),
		quarantined: make(map[string]error),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func invalidSpec(format string, args ...interface{}) error {
	return apperrors.NewError(apperrors.KindInvalidRaffleSpec, format, args...)
}

func (s *RaffleStore) validate(spec models.RaffleSpec) error {
	if strings.TrimSpace(spec.Title) == "" {
		return invalidSpec("title must not be empty")
	}
	if strings.TrimSpace(spec.Organizer) == "" {
		return invalidSpec("organizer must not be empty")
	}
	if spec.MaxTickets <= 0 {
		return invalidSpec("maxTickets must be positive (got %d)", spec.MaxTickets)
	}
	if s.limits.MaxTickets > 0 && spec.MaxTickets > s.limits.MaxTickets {
		return invalidSpec("maxTickets %d exceeds the platform limit of %d", spec.MaxTickets, s.limits.MaxTickets)
	}
	if err := money.ValidatePrice(spec.TicketPrice); err != nil {
		return apperrors.WrapError(apperrors.KindInvalidRaffleSpec, err, "invalid ticket price")
	}
	if s.limits.MinTicketPrice.IsPositive() && spec.TicketPrice.LessThan(s.limits.MinTicketPrice) {
		return invalidSpec("ticket price %s is below the platform minimum of %s", spec.TicketPrice, s.limits.MinTicketPrice)
	}
	if err := money.ValidatePercentages(spec.FeePercent, spec.StakePercent); err != nil {
		return apperrors.WrapError(apperrors.KindInvalidRaffleSpec, err, "invalid percentages")
	}
	if s.limits.MaxFeePercent > 0 && spec.FeePercent > s.limits.MaxFeePercent {
		return invalidSpec("fee %d%% exceeds the platform limit of %d%%", spec.FeePercent, s.limits.MaxFeePercent)
	}
	if s.limits.MaxStakePercent > 0 && spec.StakePercent > s.limits.MaxStakePercent {
		return invalidSpec("stake %d%% exceeds the platform limit of %d%%", spec.StakePercent, s.limits.MaxStakePercent)
	}
	return nil
}

// Create validates spec and stores a new Active raffle
func (s *RaffleStore) Create(ctx context.Context, spec models.RaffleSpec) (models.Raffle, error) {
	if err := s.validate(spec); err != nil {
		return models.Raffle{}, err
	}

	now := s.now()
	raffle := models.Raffle{
		ID:                uuid.New().String(),
		Title:             strings.TrimSpace(spec.Title),
		TicketPrice:       spec.TicketPrice,
		MaxTickets:        spec.MaxTickets,
		Organizer:         spec.Organizer,
		FeePercent:        spec.FeePercent,
		StakePercent:      spec.StakePercent,
		OnePerAccount:     spec.OnePerAccount,
		TotalRaised:       decimal.Zero,
		TotalFees:         decimal.Zero,
		TotalStake:        decimal.Zero,
		OrganizerProceeds: decimal.Zero,
		Participants:      []string{},
		Tickets:           []models.Ticket{},
		State:             models.RaffleStateActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := models.CheckInvariants(&raffle); err != nil {
		return models.Raffle{}, err
	}
	if err := s.repo.Insert(ctx, &raffle); err != nil {
		return models.Raffle{}, fmt.Errorf("failed to insert raffle: %w", err)
	}

	metrics.RafflesCreated.Inc()
	logger.Info("raffle created",
		zap.String("raffleId", raffle.ID),
		zap.String("organizer", raffle.Organizer),
		zap.Int("maxTickets", raffle.MaxTickets),
		zap.String("ticketPrice", raffle.TicketPrice.String()))
	return raffle.Clone(), nil
}

// Get returns a copy of the raffle with the given id
func (s *RaffleStore) Get(ctx context.Context, id string) (models.Raffle, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Raffle{}, s.lookupError(id, err)
	}
	return *r, nil
}

// List returns raffles matching filter, newest first
func (s *RaffleStore) List(ctx context.Context, filter models.RaffleFilter) ([]models.Raffle, error) {
	rs, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}
	out := make([]models.Raffle, 0, len(rs))
	for _, r := range rs {
		out = append(out, *r)
	}
	return out, nil
}

// Mutate applies fn to a copy of the raffle while holding its lock and stores
// the result if it passes the invariant and transition checks. When fn returns
// an error nothing is written and that error is returned.
func (s *RaffleStore) Mutate(ctx context.Context, id string, fn func(r *models.Raffle) error) (models.Raffle, error) {
	if err := s.quarantineError(id); err != nil {
		return models.Raffle{}, err
	}

	unlock, err := s.locks.lock(ctx, id)
	if err != nil {
		return models.Raffle{}, err
	}
	defer unlock()

	if err := s.quarantineError(id); err != nil {
		return models.Raffle{}, err
	}

	before, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Raffle{}, s.lookupError(id, err)
	}

	after := before.Clone()
	if err := fn(&after); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return before.Clone(), nil
		}
		return models.Raffle{}, err
	}
	after.Version = before.Version + 1
	after.UpdatedAt = s.now()

	if err := models.CheckInvariants(&after); err != nil {
		return models.Raffle{}, s.quarantine(id, err)
	}
	if err := models.CheckTransition(before, &after); err != nil {
		return models.Raffle{}, s.quarantine(id, err)
	}

	if err := s.repo.Replace(ctx, &after, before.Version); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			return models.Raffle{}, s.quarantine(id, apperrors.WrapError(apperrors.KindInvariantViolation, err, "concurrent modification of raffle %s", id))
		}
		return models.Raffle{}, fmt.Errorf("failed to store raffle %s: %w", id, err)
	}
	return after.Clone(), nil
}

// Quarantined reports whether the raffle has been frozen after an invariant violation
func (s *RaffleStore) Quarantined(id string) bool {
	return s.quarantineError(id) != nil
}

func (s *RaffleStore) quarantine(id string, cause error) error {
	s.qmu.Lock()
	s.quarantined[id] = cause
	s.qmu.Unlock()

	metrics.InvariantViolations.Inc()
	logger.Error("raffle quarantined after invariant violation",
		zap.String("raffleId", id),
		zap.Error(cause))
	return cause
}

func (s *RaffleStore) quarantineError(id string) error {
	s.qmu.RLock()
	cause, ok := s.quarantined[id]
	s.qmu.RUnlock()
	if !ok {
		return nil
	}
	return apperrors.WrapError(apperrors.KindInvariantViolation, cause, "raffle %s is quarantined", id)
}

func (s *RaffleStore) lookupError(id string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewError(apperrors.KindNotFound, "raffle %s not found", id)
	}
	return fmt.Errorf("failed to load raffle %s: %w", id, err)
}
