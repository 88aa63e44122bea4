package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CloseResult is the outcome of closing a raffle
type CloseResult struct {
	Raffle Raffle `json:"raffle"`
	Winner string `json:"winner"`
}

// ClaimResult is the outcome of a winner claiming the stake pool
type ClaimResult struct {
	RaffleID  string          `json:"raffleId"`
	Winner    string          `json:"winner"`
	Amount    decimal.Decimal `json:"amount"`
	ClaimedAt time.Time       `json:"claimedAt"`
}
