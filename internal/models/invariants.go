package models

import (
	"strings"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
)

func violation(format string, args ...interface{}) error {
	return apperrors.NewError(apperrors.KindInvariantViolation, format, args...)
}

// CheckInvariants verifies the structural and accounting invariants of a raffle record
func CheckInvariants(r *Raffle) error {
	if strings.TrimSpace(r.Title) == "" {
		return violation("raffle %s has an empty title", r.ID)
	}
	if r.MaxTickets <= 0 {
		return violation("raffle %s has non-positive capacity %d", r.ID, r.MaxTickets)
	}
	if err := money.ValidatePrice(r.TicketPrice); err != nil {
		return violation("raffle %s: %v", r.ID, err)
	}
	if err := money.ValidatePercentages(r.FeePercent, r.StakePercent); err != nil {
		return violation("raffle %s: %v", r.ID, err)
	}
	if r.TicketsIssued < 0 || r.TicketsIssued > r.MaxTickets {
		return violation("raffle %s issued %d of %d tickets", r.ID, r.TicketsIssued, r.MaxTickets)
	}
	if len(r.Participants) != r.TicketsIssued {
		return violation("raffle %s has %d participants for %d tickets", r.ID, len(r.Participants), r.TicketsIssued)
	}
	if len(r.Tickets) != r.TicketsIssued {
		return violation("raffle %s has %d ticket records for %d tickets", r.ID, len(r.Tickets), r.TicketsIssued)
	}
	if want := money.Multiply(r.TicketPrice, r.TicketsIssued); !r.TotalRaised.Equal(want) {
		return violation("raffle %s raised %s, expected %s", r.ID, r.TotalRaised, want)
	}
	if sum := r.TotalFees.Add(r.TotalStake).Add(r.OrganizerProceeds); !sum.Equal(r.TotalRaised) {
		return violation("raffle %s distributed %s of %s raised", r.ID, sum, r.TotalRaised)
	}

	seen := make(map[string]bool, len(r.Participants))
	for i, t := range r.Tickets {
		if t.TicketNumber != i+1 {
			return violation("raffle %s ticket at position %d has number %d", r.ID, i, t.TicketNumber)
		}
		if t.Owner != r.Participants[i] {
			return violation("raffle %s ticket %d owner %s does not match participant %s", r.ID, t.TicketNumber, t.Owner, r.Participants[i])
		}
		if t.RaffleID != r.ID {
			return violation("raffle %s holds ticket %d of raffle %s", r.ID, t.TicketNumber, t.RaffleID)
		}
		if r.OnePerAccount && seen[t.Owner] {
			return violation("raffle %s issued more than one ticket to %s", r.ID, t.Owner)
		}
		seen[t.Owner] = true
	}

	switch r.State {
	case RaffleStateActive:
		if r.Winner != "" || r.Draw != nil {
			return violation("active raffle %s already has a winner", r.ID)
		}
		if r.PrizeClaimed {
			return violation("active raffle %s has a claimed prize", r.ID)
		}
	case RaffleStateClosed:
		if r.TicketsIssued == 0 {
			return violation("raffle %s closed without participants", r.ID)
		}
		if !seen[r.Winner] {
			return violation("raffle %s winner %q is not a participant", r.ID, r.Winner)
		}
		if r.Draw == nil || r.Draw.Index < 0 || r.Draw.Index >= len(r.Participants) || r.Participants[r.Draw.Index] != r.Winner {
			return violation("raffle %s draw record does not match winner", r.ID)
		}
	default:
		return violation("raffle %s has unknown state %q", r.ID, r.State)
	}
	return nil
}

// CheckTransition verifies that after is a legal successor of before
func CheckTransition(before, after *Raffle) error {
	if before.ID != after.ID ||
		before.Organizer != after.Organizer ||
		before.MaxTickets != after.MaxTickets ||
		!before.TicketPrice.Equal(after.TicketPrice) ||
		before.FeePercent != after.FeePercent ||
		before.StakePercent != after.StakePercent ||
		before.OnePerAccount != after.OnePerAccount ||
		!before.CreatedAt.Equal(after.CreatedAt) {
		return violation("raffle %s immutable field changed", before.ID)
	}
	if !before.State.CanTransition(after.State) {
		return violation("raffle %s cannot move from %s to %s", before.ID, before.State, after.State)
	}
	if after.TicketsIssued < before.TicketsIssued {
		return violation("raffle %s ticket count decreased from %d to %d", before.ID, before.TicketsIssued, after.TicketsIssued)
	}
	for i := 0; i < before.TicketsIssued; i++ {
		if before.Participants[i] != after.Participants[i] || before.Tickets[i].ID != after.Tickets[i].ID {
			return violation("raffle %s rewrote issued ticket %d", before.ID, i+1)
		}
	}
	if before.State == RaffleStateClosed {
		if after.TicketsIssued != before.TicketsIssued {
			return violation("closed raffle %s issued a ticket", before.ID)
		}
		if after.Winner != before.Winner {
			return violation("closed raffle %s changed winner", before.ID)
		}
		if before.PrizeClaimed && !after.PrizeClaimed {
			return violation("raffle %s prize claim reverted", before.ID)
		}
	}
	return nil
}
