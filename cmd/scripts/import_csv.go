// Command import_csv bulk-creates raffles from a CSV file into the configured storage backend.
//
//	go run ./cmd/scripts raffles.csv [default-organizer]
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/config"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/ArowuTest/raffle-ledger-backend/internal/storage"
	"github.com/ArowuTest/raffle-ledger-backend/internal/store"
	"github.com/ArowuTest/raffle-ledger-backend/internal/utils"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
)

func main() {
	// Get CSV file path from command line arguments
	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]
	defaultOrganizer := ""
	if len(os.Args) > 2 {
		defaultOrganizer = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Storage.Driver == "memory" {
		log.Println("Warning: memory storage selected, imported raffles will not outlive this process")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer backend.Close(context.Background())

	minPrice, _ := cfg.MinTicketPrice()
	raffleStore := store.NewRaffleStore(backend.Raffles, store.Limits{
		MaxTickets:      cfg.Raffle.MaxTickets,
		MaxFeePercent:   cfg.Raffle.MaxFeePercent,
		MaxStakePercent: cfg.Raffle.MaxStakePercent,
		MinTicketPrice:  minPrice,
	})
	authService := services.NewAuthService(backend.Accounts, jwt.NewTokenService(cfg.JWT.Secret, cfg.TokenLifetime()), cfg.Auth.AdminAccounts, cfg.Auth.OpenCreation)
	raffleService := services.NewRaffleService(raffleStore, authService, cfg.Raffle.DefaultOnePerAccount)

	file, err := os.Open(csvFilePath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	report, err := utils.NewCSVImporter(raffleService, defaultOrganizer).ImportRaffles(ctx, file)
	if err != nil {
		log.Fatalf("Failed to import data: %v", err)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	log.Printf("Import finished: %d rows, %d created, %d failed\n%s", report.TotalRows, len(report.Created), len(report.Failures), out)
}
