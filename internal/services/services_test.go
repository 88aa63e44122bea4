package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/randomness"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories/memory"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
	"github.com/stretchr/testify/require"
)

type harness struct {
	accounts *memory.AccountRepository
	store    *store.RaffleStore
	auth     *AuthServiceImpl
	platform *PlatformServiceImpl
	raffles  *RaffleServiceImpl
	tickets  *TicketServiceImpl
	draws    *DrawServiceImpl
}

func newHarness(t *testing.T, seed string) *harness {
	t.Helper()

	accounts := memory.NewAccountRepository()
	auth := NewAuthService(accounts, jwt.NewTokenService("test-secret", time.Hour), []string{"root"}, true)
	platform := NewPlatformService(memory.NewPlatformSettingsRepository("fee-vault"), auth)
	raffleStore := store.NewRaffleStore(memory.NewRaffleRepository(), store.Limits{MaxTickets: 10000})

	return &harness{
		accounts: accounts,
		store:    raffleStore,
		auth:     auth,
		platform: platform,
		raffles:  NewRaffleService(raffleStore, auth, true),
		tickets:  NewTicketService(raffleStore, platform),
		draws:    NewDrawService(raffleStore, auth, randomness.NewHashChain([]byte(seed))),
	}
}

func boolPtr(b bool) *bool { return &b }

func (h *harness) demoRaffle(t *testing.T, organizer string, maxTickets int) *models.Raffle {
	t.Helper()
	r, err := h.raffles.CreateRaffle(context.Background(), organizer, &models.CreateRaffleRequest{
		Title:        "Demo",
		MaxTickets:   maxTickets,
		TicketPrice:  "10",
		FeePercent:   5,
		StakePercent: 10,
	})
	require.NoError(t, err)
	return r
}
