package models

import (
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
	"github.com/shopspring/decimal"
)

// RaffleState represents the lifecycle state of a raffle
type RaffleState string

const (
	RaffleStateActive RaffleState = "ACTIVE"
	RaffleStateClosed RaffleState = "CLOSED"
)

// CanTransition reports whether a raffle may move from s to next.
// Staying in the same state is always allowed; Active -> Closed is the only move.
func (s RaffleState) CanTransition(next RaffleState) bool {
	if s == next {
		return s == RaffleStateActive || s == RaffleStateClosed
	}
	return s == RaffleStateActive && next == RaffleStateClosed
}

// Raffle is the authoritative ledger record of a single raffle
type Raffle struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	TicketPrice       decimal.Decimal `json:"ticketPrice"`
	MaxTickets        int             `json:"maxTickets"`
	TicketsIssued     int             `json:"ticketsIssued"`
	Organizer         string          `json:"organizer"`
	FeePercent        int             `json:"feePercent"`
	StakePercent      int             `json:"stakePercent"`
	OnePerAccount     bool            `json:"onePerAccount"`
	TotalRaised       decimal.Decimal `json:"totalRaised"`
	TotalFees         decimal.Decimal `json:"totalFees"`
	TotalStake        decimal.Decimal `json:"totalStake"`
	OrganizerProceeds decimal.Decimal `json:"organizerProceeds"`
	Participants      []string        `json:"participants"`
	Tickets           []Ticket        `json:"-"`
	State             RaffleState     `json:"state"`
	Winner            string          `json:"winner,omitempty"`
	Draw              *DrawRecord     `json:"draw,omitempty"`
	PrizeClaimed      bool            `json:"prizeClaimed"`
	ClaimedAt         *time.Time      `json:"claimedAt,omitempty"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	ClosedAt          *time.Time      `json:"closedAt,omitempty"`
}

// DrawRecord is the audit trail of a winner draw
type DrawRecord struct {
	Index        int       `json:"index"`
	Participants int       `json:"participants"`
	Source       string    `json:"source"`
	DrawnAt      time.Time `json:"drawnAt"`
}

// SoldOut reports whether every ticket has been issued. It is a condition of
// an Active raffle, not a stored state.
func (r *Raffle) SoldOut() bool {
	return r.TicketsIssued >= r.MaxTickets
}

// IsActive reports whether the raffle still accepts purchases in principle
func (r *Raffle) IsActive() bool {
	return r.State == RaffleStateActive
}

// HasParticipant reports whether account holds at least one ticket
func (r *Raffle) HasParticipant(account string) bool {
	for _, p := range r.Participants {
		if p == account {
			return true
		}
	}
	return false
}

// TicketByIdempotencyKey finds a ticket from an earlier purchase attempt by the same owner
func (r *Raffle) TicketByIdempotencyKey(owner, key string) (Ticket, bool) {
	if key == "" {
		return Ticket{}, false
	}
	for _, t := range r.Tickets {
		if t.Owner == owner && t.IdempotencyKey == key {
			return t, true
		}
	}
	return Ticket{}, false
}

// Split returns the payment split for a single ticket of this raffle
func (r *Raffle) Split() (money.PaymentSplit, error) {
	return money.Split(r.TicketPrice, r.FeePercent, r.StakePercent)
}

// Clone returns a deep copy so callers never share slices with the store
func (r *Raffle) Clone() Raffle {
	c := *r
	if r.Participants != nil {
		c.Participants = append([]string(nil), r.Participants...)
	}
	if r.Tickets != nil {
		c.Tickets = append([]Ticket(nil), r.Tickets...)
	}
	if r.Draw != nil {
		d := *r.Draw
		c.Draw = &d
	}
	if r.ClaimedAt != nil {
		t := *r.ClaimedAt
		c.ClaimedAt = &t
	}
	if r.ClosedAt != nil {
		t := *r.ClosedAt
		c.ClosedAt = &t
	}
	return c
}

// RaffleSpec is the creation input for a raffle
type RaffleSpec struct {
	Title         string
	MaxTickets    int
	TicketPrice   decimal.Decimal
	FeePercent    int
	StakePercent  int
	Organizer     string
	OnePerAccount bool
}

// RaffleFilter narrows a raffle listing
type RaffleFilter struct {
	Active *bool
}

// Matches reports whether r satisfies the filter
func (f RaffleFilter) Matches(r *Raffle) bool {
	if f.Active != nil && r.IsActive() != *f.Active {
		return false
	}
	return true
}

// CreateRaffleRequest is the HTTP body for POST /raffles. Field rules are
// enforced by the raffle store so every violation reports InvalidRaffleSpec.
type CreateRaffleRequest struct {
	Title         string `json:"title"`
	MaxTickets    int    `json:"maxTickets"`
	TicketPrice   string `json:"ticketPrice"`
	FeePercent    int    `json:"feePercent"`
	StakePercent  int    `json:"stakePercent"`
	OnePerAccount *bool  `json:"onePerAccount"`
}

// RaffleView is the API representation of a raffle with derived fields
type RaffleView struct {
	Raffle
	SoldOut          bool `json:"soldOut"`
	TicketsRemaining int  `json:"ticketsRemaining"`
}

// NewRaffleView derives the presentation fields of r
func NewRaffleView(r Raffle) RaffleView {
	return RaffleView{
		Raffle:           r,
		SoldOut:          r.SoldOut(),
		TicketsRemaining: r.MaxTickets - r.TicketsIssued,
	}
}

// LedgerStats aggregates totals across every raffle
type LedgerStats struct {
	TotalRaffles   int             `json:"totalRaffles"`
	ActiveRaffles  int             `json:"activeRaffles"`
	ClosedRaffles  int             `json:"closedRaffles"`
	TicketsSold    int             `json:"ticketsSold"`
	TotalRaised    decimal.Decimal `json:"totalRaised"`
	TotalFees      decimal.Decimal `json:"totalFees"`
	TotalStake     decimal.Decimal `json:"totalStake"`
	UniqueAccounts int             `json:"uniqueAccounts"`
}
