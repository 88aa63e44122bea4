package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ repositories.RaffleRepository = (*RaffleRepository)(nil)

// RaffleRepository stores raffles in the raffles table and their tickets in tickets
type RaffleRepository struct {
	db *gorm.DB
}

// NewRaffleRepository creates a RaffleRepository on db
func NewRaffleRepository(db *gorm.DB) *RaffleRepository {
	return &RaffleRepository{db: db}
}

// Insert stores a new raffle and any tickets it already carries
func (r *RaffleRepository) Insert(ctx context.Context, raffle *models.Raffle) error {
	row, tickets := toRows(raffle)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(tickets) > 0 {
			return tx.CreateInBatches(tickets, 100).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByID loads a raffle with its tickets in issuance order
func (r *RaffleRepository) FindByID(ctx context.Context, id string) (*models.Raffle, error) {
	db := r.db.WithContext(ctx)

	var row RaffleRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	var tickets []TicketRow
	if err := db.Where("raffle_id = ?", id).Order("ticket_number asc").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return fromRows(&row, tickets)
}

// FindAll returns raffles matching filter, newest first
func (r *RaffleRepository) FindAll(ctx context.Context, filter models.RaffleFilter) ([]*models.Raffle, error) {
	db := r.db.WithContext(ctx)

	query := db.Model(&RaffleRow{})
	if filter.Active != nil {
		if *filter.Active {
			query = query.Where("state = ?", string(models.RaffleStateActive))
		} else {
			query = query.Where("state <> ?", string(models.RaffleStateActive))
		}
	}

	var rows []RaffleRow
	if err := query.Order("created_at desc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*models.Raffle{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var tickets []TicketRow
	if err := db.Where("raffle_id IN ?", ids).Order("raffle_id, ticket_number asc").Find(&tickets).Error; err != nil {
		return nil, err
	}
	byRaffle := make(map[string][]TicketRow, len(rows))
	for _, t := range tickets {
		byRaffle[t.RaffleID] = append(byRaffle[t.RaffleID], t)
	}

	raffles := make([]*models.Raffle, 0, len(rows))
	for i := range rows {
		raffle, err := fromRows(&rows[i], byRaffle[rows[i].ID])
		if err != nil {
			return nil, err
		}
		raffles = append(raffles, raffle)
	}
	return raffles, nil
}

// Replace updates the raffle row and appends newly issued tickets in one
// transaction, provided the stored version equals expectedVersion
func (r *RaffleRepository) Replace(ctx context.Context, raffle *models.Raffle, expectedVersion int64) error {
	row, tickets := toRows(raffle)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&RaffleRow{}).
			Where("id = ? AND version = ?", raffle.ID, expectedVersion).
			Select("*").
			Updates(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&RaffleRow{}).Where("id = ?", raffle.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return repositories.ErrNotFound
			}
			return repositories.ErrVersionConflict
		}

		var stored int64
		if err := tx.Model(&TicketRow{}).Where("raffle_id = ?", raffle.ID).Count(&stored).Error; err != nil {
			return err
		}
		if int(stored) > len(tickets) {
			return fmt.Errorf("raffle %s would drop %d stored tickets", raffle.ID, int(stored)-len(tickets))
		}
		if fresh := tickets[stored:]; len(fresh) > 0 {
			return tx.CreateInBatches(fresh, 100).Error
		}
		return nil
	})
}

func toRows(r *models.Raffle) (RaffleRow, []TicketRow) {
	row := RaffleRow{
		ID:                r.ID,
		Title:             r.Title,
		TicketPrice:       r.TicketPrice.String(),
		MaxTickets:        r.MaxTickets,
		TicketsIssued:     r.TicketsIssued,
		Organizer:         r.Organizer,
		FeePercent:        r.FeePercent,
		StakePercent:      r.StakePercent,
		OnePerAccount:     r.OnePerAccount,
		TotalRaised:       r.TotalRaised.String(),
		TotalFees:         r.TotalFees.String(),
		TotalStake:        r.TotalStake.String(),
		OrganizerProceeds: r.OrganizerProceeds.String(),
		State:             string(r.State),
		Winner:            r.Winner,
		PrizeClaimed:      r.PrizeClaimed,
		ClaimedAt:         r.ClaimedAt,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		ClosedAt:          r.ClosedAt,
	}
	if r.Draw != nil {
		index := r.Draw.Index
		drawnAt := r.Draw.DrawnAt
		row.DrawIndex = &index
		row.DrawParticipants = r.Draw.Participants
		row.DrawSource = r.Draw.Source
		row.DrawnAt = &drawnAt
	}

	tickets := make([]TicketRow, 0, len(r.Tickets))
	for _, t := range r.Tickets {
		tickets = append(tickets, TicketRow{
			ID:             t.ID,
			RaffleID:       r.ID,
			TicketNumber:   t.TicketNumber,
			Owner:          t.Owner,
			PurchasePrice:  t.PurchasePrice.String(),
			Fee:            t.Split.Fee.String(),
			Stake:          t.Split.Stake.String(),
			OrganizerShare: t.Split.OrganizerShare.String(),
			FeeAccount:     t.FeeAccount,
			IdempotencyKey: t.IdempotencyKey,
			IssuedAt:       t.IssuedAt,
		})
	}
	return row, tickets
}

func fromRows(row *RaffleRow, tickets []TicketRow) (*models.Raffle, error) {
	var err error
	dec := func(s string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		var d decimal.Decimal
		d, err = decimal.NewFromString(s)
		return d
	}

	r := &models.Raffle{
		ID:                row.ID,
		Title:             row.Title,
		TicketPrice:       dec(row.TicketPrice),
		MaxTickets:        row.MaxTickets,
		TicketsIssued:     row.TicketsIssued,
		Organizer:         row.Organizer,
		FeePercent:        row.FeePercent,
		StakePercent:      row.StakePercent,
		OnePerAccount:     row.OnePerAccount,
		TotalRaised:       dec(row.TotalRaised),
		TotalFees:         dec(row.TotalFees),
		TotalStake:        dec(row.TotalStake),
		OrganizerProceeds: dec(row.OrganizerProceeds),
		Participants:      make([]string, 0, len(tickets)),
		Tickets:           make([]models.Ticket, 0, len(tickets)),
		State:             models.RaffleState(row.State),
		Winner:            row.Winner,
		PrizeClaimed:      row.PrizeClaimed,
		ClaimedAt:         row.ClaimedAt,
		Version:           row.Version,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		ClosedAt:          row.ClosedAt,
	}
	if row.DrawIndex != nil {
		r.Draw = &models.DrawRecord{
			Index:        *row.DrawIndex,
			Participants: row.DrawParticipants,
			Source:       row.DrawSource,
		}
		if row.DrawnAt != nil {
			r.Draw.DrawnAt = *row.DrawnAt
		}
	}
	for _, t := range tickets {
		r.Participants = append(r.Participants, t.Owner)
		r.Tickets = append(r.Tickets, models.Ticket{
			ID:            t.ID,
			RaffleID:      t.RaffleID,
			TicketNumber:  t.TicketNumber,
			Owner:         t.Owner,
			PurchasePrice: dec(t.PurchasePrice),
			Split: money.PaymentSplit{
				Fee:            dec(t.Fee),
				Stake:          dec(t.Stake),
				OrganizerShare: dec(t.OrganizerShare),
			},
			FeeAccount:     t.FeeAccount,
			IdempotencyKey: t.IdempotencyKey,
			IssuedAt:       t.IssuedAt,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode raffle %s: %w", row.ID, err)
	}
	return r, nil
}
