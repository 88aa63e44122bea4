package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/api/routes"
	"github.com/ArowuTest/raffle-ledger-backend/internal/config"
	"github.com/ArowuTest/raffle-ledger-backend/internal/handlers"
	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"github.com/ArowuTest/raffle-ledger-backend/internal/randomness"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/ArowuTest/raffle-ledger-backend/internal/storage"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(logger.Configuration{
		LogFile:   cfg.Log.File,
		ErrorFile: cfg.Log.ErrorFile,
		Level:     cfg.Log.Level,
		Console:   cfg.Log.Console,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	backend, err := storage.Open(context.Background(), cfg)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			logger.Error("error closing storage", zap.Error(err))
		}
	}()

	source, err := randomness.FromConfig(cfg.Draw.Source, cfg.Draw.Seed)
	if err != nil {
		logger.Fatal("failed to configure draw randomness", zap.Error(err))
	}
	minPrice, _ := cfg.MinTicketPrice() // validated by config.Load

	raffleStore := store.NewRaffleStore(backend.Raffles, store.Limits{
		MaxTickets:      cfg.Raffle.MaxTickets,
		MaxFeePercent:   cfg.Raffle.MaxFeePercent,
		MaxStakePercent: cfg.Raffle.MaxStakePercent,
		MinTicketPrice:  minPrice,
	})
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.TokenLifetime())

	// Initialize Services
	authService := services.NewAuthService(backend.Accounts, tokens, cfg.Auth.AdminAccounts, cfg.Auth.OpenCreation)
	if seeded, err := authService.SeedAdmins(context.Background(), cfg.Auth.AdminPasswordHash); err != nil {
		logger.Fatal("failed to seed admin accounts", zap.Error(err))
	} else if seeded > 0 {
		logger.Info("admin accounts seeded", zap.Int("count", seeded))
	} else if cfg.Auth.AdminPasswordHash == "" && len(cfg.Auth.AdminAccounts) > 0 {
		logger.Warn("ADMIN_PASSWORD_HASH is not set; configured admins without an account cannot log in")
	}
	platformService := services.NewPlatformService(backend.Settings, authService)
	raffleService := services.NewRaffleService(raffleStore, authService, cfg.Raffle.DefaultOnePerAccount)
	ticketService := services.NewTicketService(raffleStore, platformService)
	drawService := services.NewDrawService(raffleStore, authService, source)

	// Initialize Handlers
	router := routes.SetupRouter(cfg, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Raffles:  handlers.NewRaffleHandler(raffleService),
		Tickets:  handlers.NewTicketHandler(ticketService),
		Draws:    handlers.NewDrawHandler(drawService),
		Settings: handlers.NewSystemSettingsHandler(platformService),
	}, tokens)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("draw_source", randomness.Describe(source)))

	// Run server in a goroutine so that it doesn't block
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
