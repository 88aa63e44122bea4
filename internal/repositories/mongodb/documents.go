package mongodb

import (
	"fmt"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// raffleDocument is the stored shape of a raffle. Amounts are Decimal128 so
// they stay exact and remain queryable as numbers.
type raffleDocument struct {
	ID                string               `bson:"_id"`
	Title             string               `bson:"title"`
	TicketPrice       primitive.Decimal128 `bson:"ticketPrice"`
	MaxTickets        int                  `bson:"maxTickets"`
	TicketsIssued     int                  `bson:"ticketsIssued"`
	Organizer         string               `bson:"organizer"`
	FeePercent        int                  `bson:"feePercent"`
	StakePercent      int                  `bson:"stakePercent"`
	OnePerAccount     bool                 `bson:"onePerAccount"`
	TotalRaised       primitive.Decimal128 `bson:"totalRaised"`
	TotalFees         primitive.Decimal128 `bson:"totalFees"`
	TotalStake        primitive.Decimal128 `bson:"totalStake"`
	OrganizerProceeds primitive.Decimal128 `bson:"organizerProceeds"`
	Participants      []string             `bson:"participants"`
	Tickets           []ticketDocument     `bson:"tickets"`
	State             string               `bson:"state"`
	Winner            string               `bson:"winner,omitempty"`
	Draw              *drawDocument        `bson:"draw,omitempty"`
	PrizeClaimed      bool                 `bson:"prizeClaimed"`
	ClaimedAt         *time.Time           `bson:"claimedAt,omitempty"`
	Version           int64                `bson:"version"`
	CreatedAt         time.Time            `bson:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt"`
	ClosedAt          *time.Time           `bson:"closedAt,omitempty"`
}

type ticketDocument struct {
	ID             string               `bson:"id"`
	TicketNumber   int                  `bson:"ticketNumber"`
	Owner          string               `bson:"owner"`
	PurchasePrice  primitive.Decimal128 `bson:"purchasePrice"`
	Fee            primitive.Decimal128 `bson:"fee"`
	Stake          primitive.Decimal128 `bson:"stake"`
	OrganizerShare primitive.Decimal128 `bson:"organizerShare"`
	FeeAccount     string               `bson:"feeAccount,omitempty"`
	IdempotencyKey string               `bson:"idempotencyKey,omitempty"`
	IssuedAt       time.Time            `bson:"issuedAt"`
}

type drawDocument struct {
	Index        int       `bson:"index"`
	Participants int       `bson:"participants"`
	Source       string    `bson:"source"`
	DrawnAt      time.Time `bson:"drawnAt"`
}

type accountDocument struct {
	Address      string    `bson:"_id"`
	Role         string    `bson:"role"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type settingsDocument struct {
	ID         string    `bson:"_id"`
	FeeAccount string    `bson:"feeAccount"`
	UpdatedAt  time.Time `bson:"updatedAt"`
	UpdatedBy  string    `bson:"updatedBy"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(v.String())
}

func newRaffleDocument(r *models.Raffle) (*raffleDocument, error) {
	var err error
	enc := func(d decimal.Decimal) primitive.Decimal128 {
		if err != nil {
			return primitive.Decimal128{}
		}
		var v primitive.Decimal128
		v, err = toDecimal128(d)
		return v
	}

	doc := &raffleDocument{
		ID:                r.ID,
		Title:             r.Title,
		TicketPrice:       enc(r.TicketPrice),
		MaxTickets:        r.MaxTickets,
		TicketsIssued:     r.TicketsIssued,
		Organizer:         r.Organizer,
		FeePercent:        r.FeePercent,
		StakePercent:      r.StakePercent,
		OnePerAccount:     r.OnePerAccount,
		TotalRaised:       enc(r.TotalRaised),
		TotalFees:         enc(r.TotalFees),
		TotalStake:        enc(r.TotalStake),
		OrganizerProceeds: enc(r.OrganizerProceeds),
		Participants:      append([]string{}, r.Participants...),
		Tickets:           make([]ticketDocument, 0, len(r.Tickets)),
		State:             string(r.State),
		Winner:            r.Winner,
		PrizeClaimed:      r.PrizeClaimed,
		ClaimedAt:         r.ClaimedAt,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		ClosedAt:          r.ClosedAt,
	}
	for _, t := range r.Tickets {
		doc.Tickets = append(doc.Tickets, ticketDocument{
			ID:             t.ID,
			TicketNumber:   t.TicketNumber,
			Owner:          t.Owner,
			PurchasePrice:  enc(t.PurchasePrice),
			Fee:            enc(t.Split.Fee),
			Stake:          enc(t.Split.Stake),
			OrganizerShare: enc(t.Split.OrganizerShare),
			FeeAccount:     t.FeeAccount,
			IdempotencyKey: t.IdempotencyKey,
			IssuedAt:       t.IssuedAt,
		})
	}
	if r.Draw != nil {
		doc.Draw = &drawDocument{
			Index:        r.Draw.Index,
			Participants: r.Draw.Participants,
			Source:       r.Draw.Source,
			DrawnAt:      r.Draw.DrawnAt,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode raffle %s: %w", r.ID, err)
	}
	return doc, nil
}

func (doc *raffleDocument) toModel() (*models.Raffle, error) {
	var err error
	dec := func(v primitive.Decimal128) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		var d decimal.Decimal
		d, err = fromDecimal128(v)
		return d
	}

	r := &models.Raffle{
		ID:                doc.ID,
		Title:             doc.Title,
		TicketPrice:       dec(doc.TicketPrice),
		MaxTickets:        doc.MaxTickets,
		TicketsIssued:     doc.TicketsIssued,
		Organizer:         doc.Organizer,
		FeePercent:        doc.FeePercent,
		StakePercent:      doc.StakePercent,
		OnePerAccount:     doc.OnePerAccount,
		TotalRaised:       dec(doc.TotalRaised),
		TotalFees:         dec(doc.TotalFees),
		TotalStake:        dec(doc.TotalStake),
		OrganizerProceeds: dec(doc.OrganizerProceeds),
		Participants:      append([]string{}, doc.Participants...),
		Tickets:           make([]models.Ticket, 0, len(doc.Tickets)),
		State:             models.RaffleState(doc.State),
		Winner:            doc.Winner,
		PrizeClaimed:      doc.PrizeClaimed,
		ClaimedAt:         doc.ClaimedAt,
		Version:           doc.Version,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
		ClosedAt:          doc.ClosedAt,
	}
	for _, t := range doc.Tickets {
		r.Tickets = append(r.Tickets, models.Ticket{
			ID:            t.ID,
			RaffleID:      doc.ID,
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
	if doc.Draw != nil {
		r.Draw = &models.DrawRecord{
			Index:        doc.Draw.Index,
			Participants: doc.Draw.Participants,
			Source:       doc.Draw.Source,
			DrawnAt:      doc.Draw.DrawnAt,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode raffle %s: %w", doc.ID, err)
	}
	return r, nil
}
