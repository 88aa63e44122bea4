// Package sqlite implements the repositories on a SQLite file through GORM.
package sqlite

import (
	"fmt"

	"github.com/ArowuTest/raffle-ledger-backend/internal/logger"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open opens (creating if needed) the database at path and migrates the schema
func Open(path string) (*gorm.DB, error) {
	logger.Debug("initializing database...", zap.String("path", path))

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows one writer at a time
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&RaffleRow{},
		&TicketRow{},
		&AccountRow{},
		&PlatformSettingsRow{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	logger.Debug("initializing database...done")
	return db, nil
}
