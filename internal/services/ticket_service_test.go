package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuyTicket_FirstPurchase(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()
	r := h.demoRaffle(t, "org", 2)

	ticket, err := h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, ticket.TicketNumber)
	assert.True(t, ticket.PurchasePrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "A", ticket.Owner)
	assert.Equal(t, "fee-vault", ticket.FeeAccount)
	assert.True(t, ticket.Split.Fee.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, ticket.Split.Stake.Equal(decimal.RequireFromString("1")))
	assert.True(t, ticket.Split.OrganizerShare.Equal(decimal.RequireFromString("8.5")))

	got, err := h.raffles.GetRaffle(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TicketsIssued)
	assert.True(t, got.TotalRaised.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, []string{"A"}, got.Participants)

	split, err := h.raffles.Split(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, split.Total().Equal(decimal.NewFromInt(10)))
}

func TestBuyTicket_SoldOut(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()
	r := h.demoRaffle(t, "org", 2)

	_, err := h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{})
	require.NoError(t, err)
	_, err = h.tickets.BuyTicket(ctx, r.ID, "B", models.PurchaseOptions{})
	require.NoError(t, err)

	got, _ := h.raffles.GetRaffle(ctx, r.ID)
	assert.Equal(t, 2, got.TicketsIssued)
	assert.True(t, got.SoldOut())

	_, err = h.tickets.BuyTicket(ctx, r.ID, "C", models.PurchaseOptions{})
	assert.ErrorIs(t, err, apperrors.ErrRaffleSoldOut)

	after, _ := h.raffles.GetRaffle(ctx, r.ID)
	assert.Equal(t, got.Version, after.Version, "failed purchase must not write")
}

func TestBuyTicket_DuplicateParticipant(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()
	r := h.demoRaffle(t, "org", 2)

	_, err := h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{})
	require.NoError(t, err)
	_, err = h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateParticipant)

	got, _ := h.raffles.GetRaffle(ctx, r.ID)
	assert.Equal(t, 1, got.TicketsIssued)
}

func TestBuyTicket_MultipleTicketsWhenAllowed(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()
	r, err := h.raffles.CreateRaffle(ctx, "org", &models.CreateRaffleRequest{
		Title: "Open", MaxTickets: 3, TicketPrice: "2", OnePerAccount: boolPtr(false),
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		ticket, err := h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{})
		require.NoError(t, err)
		assert.Equal(t, i+1, ticket.TicketNumber)
	}

	mine, err := h.tickets.ListTicketsByOwner(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestBuyTicket_Idempotent(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()
	r := h.demoRaffle(t, "org", 1)

	first, err := h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{IdempotencyKey: "k1"})
	require.NoError(t, err)
	again, err := h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{IdempotencyKey: "k1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	got, _ := h.raffles.GetRaffle(ctx, r.ID)
	assert.Equal(t, 1, got.TicketsIssued)

	_, err = h.tickets.BuyTicket(ctx, r.ID, "B", models.PurchaseOptions{IdempotencyKey: "k1"})
	assert.ErrorIs(t, err, apperrors.ErrRaffleSoldOut, "keys are scoped to the buyer")
}

func TestBuyTicket_Errors(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()

	_, err := h.tickets.BuyTicket(ctx, "missing", "A", models.PurchaseOptions{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	r := h.demoRaffle(t, "org", 2)
	_, err = h.tickets.BuyTicket(ctx, r.ID, "", models.PurchaseOptions{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = h.tickets.BuyTicket(ctx, r.ID, "A", models.PurchaseOptions{})
	require.NoError(t, err)
	_, err = h.draws.CloseRaffle(ctx, r.ID, "org")
	require.NoError(t, err)

	_, err = h.tickets.BuyTicket(ctx, r.ID, "B", models.PurchaseOptions{})
	assert.ErrorIs(t, err, apperrors.ErrRaffleNotActive)
}

func TestBuyTicket_NoOversellUnderConcurrency(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()
	const capacity, buyers = 25, 100
	r := h.demoRaffle(t, "org", capacity)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		sold    int
		soldOut int
		numbers = map[int]bool{}
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ticket, err := h.tickets.BuyTicket(ctx, r.ID, fmt.Sprintf("acct-%d", i), models.PurchaseOptions{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sold++
				numbers[ticket.TicketNumber] = true
			case apperrors.KindOf(err) == apperrors.KindRaffleSoldOut:
				soldOut++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, sold)
	assert.Equal(t, buyers-capacity, soldOut)
	assert.Len(t, numbers, capacity)
	for n := 1; n <= capacity; n++ {
		assert.True(t, numbers[n], "ticket number %d missing", n)
	}

	got, _ := h.raffles.GetRaffle(ctx, r.ID)
	assert.Equal(t, capacity, got.TicketsIssued)
	assert.True(t, got.TotalRaised.Equal(decimal.NewFromInt(10*capacity)))
	assert.True(t, got.TotalFees.Add(got.TotalStake).Add(got.OrganizerProceeds).Equal(got.TotalRaised))
	assert.False(t, h.store.Quarantined(r.ID))
}

func TestTicketQueries(t *testing.T) {
	h := newHarness(t, "seed")
	ctx := context.Background()
	r := h.demoRaffle(t, "org", 3)

	for _, acct := range []string{"A", "B"} {
		_, err := h.tickets.BuyTicket(ctx, r.ID, acct, models.PurchaseOptions{})
		require.NoError(t, err)
	}

	tickets, err := h.tickets.ListTickets(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "A", tickets[0].Owner)
	assert.Equal(t, 2, tickets[1].TicketNumber)

	participants, err := h.tickets.Participants(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, participants)

	ok, err := h.tickets.HasParticipated(ctx, r.ID, "B")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = h.tickets.HasParticipated(ctx, r.ID, "C")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.tickets.ListTickets(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
