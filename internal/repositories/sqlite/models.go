package sqlite

import "time"

// Rows store amounts as decimal strings so SQLite never rounds them.

type RaffleRow struct {
	ID                string `gorm:"primaryKey"`
	Title             string `gorm:"not null"`
	TicketPrice       string `gorm:"not null"`
	MaxTickets        int    `gorm:"not null"`
	TicketsIssued     int    `gorm:"not null;default:0"`
	Organizer         string `gorm:"index;not null"`
	FeePercent        int    `gorm:"not null"`
	StakePercent      int    `gorm:"not null"`
	OnePerAccount     bool
	TotalRaised       string `gorm:"not null"`
	TotalFees         string `gorm:"not null"`
	TotalStake        string `gorm:"not null"`
	OrganizerProceeds string `gorm:"not null"`
	State             string `gorm:"index;not null"`
	Winner            string
	DrawIndex         *int
	DrawParticipants  int
	DrawSource        string
	DrawnAt           *time.Time
	PrizeClaimed      bool
	ClaimedAt         *time.Time
	Version           int64     `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false"`
	ClosedAt          *time.Time
}

func (RaffleRow) TableName() string { return "raffles" }

type TicketRow struct {
	ID             string `gorm:"primaryKey"`
	RaffleID       string `gorm:"uniqueIndex:idx_raffle_ticket_number;not null"`
	TicketNumber   int    `gorm:"uniqueIndex:idx_raffle_ticket_number;not null"`
	Owner          string `gorm:"index;not null"`
	PurchasePrice  string `gorm:"not null"`
	Fee            string `gorm:"not null"`
	Stake          string `gorm:"not null"`
	OrganizerShare string `gorm:"not null"`
	FeeAccount     string
	IdempotencyKey string
	IssuedAt       time.Time
}

func (TicketRow) TableName() string { return "tickets" }

type AccountRow struct {
	Address      string    `gorm:"primaryKey"`
	Role         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (AccountRow) TableName() string { return "accounts" }

type PlatformSettingsRow struct {
	ID         string `gorm:"primaryKey"`
	FeeAccount string
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false"`
	UpdatedBy  string
}

func (PlatformSettingsRow) TableName() string { return "platform_settings" }
