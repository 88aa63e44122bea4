package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaffleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRaffleRepository()

	now := time.Now()
	older := &models.Raffle{ID: "a", Title: "A", TicketPrice: decimal.NewFromInt(1), MaxTickets: 1, State: models.RaffleStateActive, CreatedAt: now.Add(-time.Minute)}
	newer := &models.Raffle{ID: "b", Title: "B", TicketPrice: decimal.NewFromInt(1), MaxTickets: 1, State: models.RaffleStateClosed, CreatedAt: now}

	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))
	assert.ErrorIs(t, repo.Insert(ctx, older), repositories.ErrDuplicate)

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	all, err := repo.FindAll(ctx, models.RaffleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)

	active := true
	onlyActive, err := repo.FindAll(ctx, models.RaffleFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "a", onlyActive[0].ID)

	got, err := repo.FindByID(ctx, "a")
	require.NoError(t, err)
	got.Participants = append(got.Participants, "mutated")
	again, _ := repo.FindByID(ctx, "a")
	assert.Empty(t, again.Participants, "repository must hand out copies")

	got.Version = 1
	require.NoError(t, repo.Replace(ctx, got, 0))
	assert.ErrorIs(t, repo.Replace(ctx, got, 0), repositories.ErrVersionConflict)
}
