package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/config"
	"github.com/ArowuTest/raffle-ledger-backend/internal/handlers"
	"github.com/ArowuTest/raffle-ledger-backend/internal/randomness"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories/memory"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Server: config.ServerConfig{AllowedHosts: []string{"*"}}}
	tokens := jwt.NewTokenService("test-secret", time.Hour)

	authService := services.NewAuthService(memory.NewAccountRepository(), tokens, []string{"root"}, true)
	rootHash, err := bcrypt.GenerateFromPassword([]byte("secret-root"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = authService.SeedAdmins(context.Background(), string(rootHash))
	require.NoError(t, err)
	platformService := services.NewPlatformService(memory.NewPlatformSettingsRepository("fee-vault"), authService)
	raffleStore := store.NewRaffleStore(memory.NewRaffleRepository(), store.Limits{MaxTickets: 100})

	router := SetupRouter(cfg, Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Raffles:  handlers.NewRaffleHandler(services.NewRaffleService(raffleStore, authService, true)),
		Tickets:  handlers.NewTicketHandler(services.NewTicketService(raffleStore, platformService)),
		Draws:    handlers.NewDrawHandler(services.NewDrawService(raffleStore, authService, randomness.NewHashChain([]byte("routes")))),
		Settings: handlers.NewSystemSettingsHandler(platformService),
	}, tokens)

	return &testServer{t: t, router: router, tokens: map[string]string{}}
}

func (s *testServer) do(method, path, account string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := s.tokens[account]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func (s *testServer) signUp(address string) {
	s.t.Helper()
	creds := map[string]string{"address": address, "password": "secret-" + address}

	w, _ := s.do(http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	s.logIn(address)
}

// logIn stores a token for an account that already exists
func (s *testServer) logIn(address string) {
	s.t.Helper()
	creds := map[string]string{"address": address, "password": "secret-" + address}

	w, body := s.do(http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	s.tokens[address] = body["token"].(string)
}

func TestRaffleLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	for _, a := range []string{"org", "alice", "bob", "carol"} {
		s.signUp(a)
	}

	create := map[string]interface{}{"title": "Demo", "maxTickets": 2, "ticketPrice": "10", "feePercent": 5, "stakePercent": 10}

	w, _ := s.do(http.MethodPost, "/api/v1/raffles", "", create)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, raffle := s.do(http.MethodPost, "/api/v1/raffles", "org", create)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := raffle["id"].(string)
	assert.Equal(t, "ACTIVE", raffle["state"])
	assert.Equal(t, float64(2), raffle["ticketsRemaining"])

	w, split := s.do(http.MethodGet, "/api/v1/raffles/"+id+"/split", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.5", split["fee"])

	// Buying
	w, ticket := s.do(http.MethodPost, "/api/v1/raffles/"+id+"/tickets", "alice", nil, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1), ticket["ticketNumber"])
	assert.Equal(t, "fee-vault", ticket["feeAccount"])

	w, replay := s.do(http.MethodPost, "/api/v1/raffles/"+id+"/tickets", "alice", nil, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, ticket["id"], replay["id"])

	w, body := s.do(http.MethodPost, "/api/v1/raffles/"+id+"/tickets", "alice", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateParticipant", body["kind"])

	w, _ = s.do(http.MethodPost, "/api/v1/raffles/"+id+"/tickets", "bob", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = s.do(http.MethodPost, "/api/v1/raffles/"+id+"/tickets", "carol", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RaffleSoldOut", body["kind"])

	w, body = s.do(http.MethodGet, "/api/v1/raffles/"+id+"/participants/bob", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["participated"])

	// Closing
	w, body = s.do(http.MethodPost, "/api/v1/raffles/"+id+"/close", "alice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", body["kind"])

	w, closed := s.do(http.MethodPost, "/api/v1/raffles/"+id+"/close", "org", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	winner := closed["winner"].(string)
	assert.Contains(t, []string{"alice", "bob"}, winner)

	w, body = s.do(http.MethodPost, "/api/v1/raffles/"+id+"/close", "org", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AlreadyClosed", body["kind"])

	w, body = s.do(http.MethodPost, "/api/v1/raffles/"+id+"/tickets", "carol", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RaffleNotActive", body["kind"])

	// Claiming
	loser := "alice"
	if winner == "alice" {
		loser = "bob"
	}
	w, body = s.do(http.MethodPost, "/api/v1/raffles/"+id+"/claim", loser, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NotWinner", body["kind"])

	w, claim := s.do(http.MethodPost, "/api/v1/raffles/"+id+"/claim", winner, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	amount, err := decimal.NewFromString(claim["amount"].(string))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(2)), amount.String())

	w, got := s.do(http.MethodGet, "/api/v1/raffles/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CLOSED", got["state"])
	assert.Equal(t, winner, got["winner"])
	assert.Equal(t, true, got["soldOut"])

	w, stats := s.do(http.MethodGet, "/api/v1/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), stats["ticketsSold"])
	assert.Equal(t, "20", stats["totalRaised"])
}

func TestListAndLookupOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.signUp("org")

	for _, title := range []string{"First", "Second"} {
		w, _ := s.do(http.MethodPost, "/api/v1/raffles", "org", map[string]interface{}{"title": title, "maxTickets": 5, "ticketPrice": "1"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/raffles?active=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)

	w, body := s.do(http.MethodGet, "/api/v1/raffles?active=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidInput", body["kind"])

	w, body = s.do(http.MethodGet, "/api/v1/raffles/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", body["kind"])

	w, body = s.do(http.MethodPost, "/api/v1/raffles", "org", map[string]interface{}{"title": "Bad", "maxTickets": 5, "ticketPrice": "1", "feePercent": 60, "stakePercent": 50})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRaffleSpec", body["kind"])

	w, _ = s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	s.logIn("root")
	s.signUp("alice")

	feeBody := map[string]string{"feeAccount": "treasury"}

	w, body := s.do(http.MethodPut, "/api/v1/admin/settings/fee-account", "alice", feeBody)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", body["kind"])

	w, body = s.do(http.MethodPut, "/api/v1/admin/settings/fee-account", "root", feeBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "treasury", body["feeAccount"])

	w, body = s.do(http.MethodGet, "/api/v1/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "treasury", body["feeAccount"])

	w, body = s.do(http.MethodPut, "/api/v1/admin/accounts/alice/role", "root", map[string]string{"role": "organizer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "organizer", body["role"])

	w, body = s.do(http.MethodPut, "/api/v1/admin/accounts/alice/role", "root", map[string]string{"role": "emperor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidInput", body["kind"])

	w, body = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"address": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "InvalidCredentials", body["kind"])

	w, body = s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"address": "alice", "password": "another-pass"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "AccountExists", body["kind"])

	w, body = s.do(http.MethodGet, "/api/v1/admin/accounts", "alice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", body["kind"])

	w, body = s.do(http.MethodGet, "/api/v1/admin/accounts", "root", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(2), body["count"])
	accounts := body["accounts"].([]interface{})
	roles := map[string]string{}
	for _, a := range accounts {
		account := a.(map[string]interface{})
		roles[account["address"].(string)] = account["role"].(string)
		assert.NotContains(t, account, "passwordHash")
	}
	assert.Equal(t, map[string]string{"alice": "organizer", "root": "admin"}, roles)
}

func TestRegister_ReservedAdminAddress(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"address": "root", "password": "attacker-pass"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", body["kind"])

	w, body = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"address": "root", "password": "attacker-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, body, "token")

	s.logIn("root")
	assert.NotEmpty(t, s.tokens["root"])
}

func TestCreateRaffle_InvalidSpecKinds(t *testing.T) {
	s := newTestServer(t)
	s.signUp("org")

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty title", map[string]interface{}{"title": "", "maxTickets": 5, "ticketPrice": "1"}},
		{"missing title", map[string]interface{}{"maxTickets": 5, "ticketPrice": "1"}},
		{"zero capacity", map[string]interface{}{"title": "T", "maxTickets": 0, "ticketPrice": "1"}},
		{"negative capacity", map[string]interface{}{"title": "T", "maxTickets": -1, "ticketPrice": "1"}},
		{"zero price", map[string]interface{}{"title": "T", "maxTickets": 5, "ticketPrice": "0"}},
		{"missing price", map[string]interface{}{"title": "T", "maxTickets": 5}},
		{"percentages over 100", map[string]interface{}{"title": "T", "maxTickets": 5, "ticketPrice": "1", "feePercent": 60, "stakePercent": 50}},
		{"capacity of wrong type", map[string]interface{}{"title": "T", "maxTickets": "five", "ticketPrice": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := s.do(http.MethodPost, "/api/v1/raffles", "org", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "InvalidRaffleSpec", body["kind"])
		})
	}
}

