package utils

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories/memory"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImporter(t *testing.T) (*CSVImporter, *services.RaffleServiceImpl) {
	t.Helper()
	auth := services.NewAuthService(memory.NewAccountRepository(), jwt.NewTokenService("s", time.Hour), nil, true)
	raffleStore := store.NewRaffleStore(memory.NewRaffleRepository(), store.Limits{MaxTickets: 1000})
	raffles := services.NewRaffleService(raffleStore, auth, true)
	return NewCSVImporter(raffles, "importer"), raffles
}

func TestCSVImporter_ImportRaffles(t *testing.T) {
	importer, raffles := newImporter(t)

	input := strings.Join([]string{
		"Title,Capacity,Price,Fee,Stake,Organizer,One Per Account",
		"Spring Draw,100,2.5,5,10,alice,no",
		"Summer Draw,10,1,,,,",
		"Broken,ten,1,0,0,bob,",
		"Greedy,10,1,60,50,bob,",
	}, "\n")

	report, err := importer.ImportRaffles(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalRows)
	require.Len(t, report.Created, 2)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, 4, report.Failures[0].Line)
	assert.Equal(t, 5, report.Failures[1].Line)

	first, err := raffles.GetRaffle(context.Background(), report.Created[0])
	require.NoError(t, err)
	assert.Equal(t, "Spring Draw", first.Title)
	assert.Equal(t, "alice", first.Organizer)
	assert.False(t, first.OnePerAccount)
	assert.Equal(t, models.RaffleStateActive, first.State)

	second, err := raffles.GetRaffle(context.Background(), report.Created[1])
	require.NoError(t, err)
	assert.Equal(t, "importer", second.Organizer)
	assert.True(t, second.OnePerAccount)
	assert.Equal(t, 0, second.FeePercent)
}

func TestCSVImporter_MissingColumns(t *testing.T) {
	importer, _ := newImporter(t)

	_, err := importer.ImportRaffles(context.Background(), strings.NewReader("Title,Fee\nA,1\n"))
	assert.Error(t, err)

	_, err = importer.ImportRaffles(context.Background(), strings.NewReader(""))
	assert.Error(t, err)
}
