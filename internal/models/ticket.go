package models

import (
	"time"

	"github.com/ArowuTest/raffle-ledger-backend/internal/money"
	"github.com/shopspring/decimal"
)

// Ticket is the record of one successful purchase
type Ticket struct {
	ID             string             `json:"id"`
	RaffleID       string             `json:"raffleId"`
	TicketNumber   int                `json:"ticketNumber"`
	Owner          string             `json:"owner"`
	PurchasePrice  decimal.Decimal    `json:"purchasePrice"`
	Split          money.PaymentSplit `json:"split"`
	FeeAccount     string             `json:"feeAccount,omitempty"`
	IdempotencyKey string             `json:"idempotencyKey,omitempty"`
	IssuedAt       time.Time          `json:"issuedAt"`
}

// PurchaseOptions carries optional inputs of a ticket purchase
type PurchaseOptions struct {
	IdempotencyKey string
}
