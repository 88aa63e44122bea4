// Package storage opens the repository backend selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/ArowuTest/raffle-ledger-backend/internal/config"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories"
	"github.com/ArowuTest/raffle-ledger-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/raffle-ledger-backend/internal/repositories/mongodb"
	sqliterepo "github.com/ArowuTest/raffle-ledger-backend/internal/repositories/sqlite"
	mongodb "github.com/ArowuTest/raffle-ledger-backend/pkg/mongodb"
)

// Backend bundles the repositories of one driver with its shutdown hook
type Backend struct {
	Driver   string
	Raffles  repositories.RaffleRepository
	Accounts repositories.AccountRepository
	Settings repositories.PlatformSettingsRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Open connects to the backend named by cfg.Storage.Driver
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Driver {
	case "mongodb":
		connectCtx, cancel := context.WithTimeout(ctx, cfg.MongoConnectTimeout())
		defer cancel()

		mongoClient, err := mongodb.NewClient(connectCtx, cfg.MongoDB.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := mongoClient.Database(cfg.MongoDB.Database)
		return &Backend{
			Driver:   cfg.Storage.Driver,
			Raffles:  mongorepo.NewRaffleRepository(db),
			Accounts: mongorepo.NewAccountRepository(db),
			Settings: mongorepo.NewPlatformSettingsRepository(db, cfg.Platform.FeeAccount),
			close:    mongoClient.Disconnect,
		}, nil

	case "sqlite":
		db, err := sqliterepo.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		return &Backend{
			Driver:   cfg.Storage.Driver,
			Raffles:  sqliterepo.NewRaffleRepository(db),
			Accounts: sqliterepo.NewAccountRepository(db),
			Settings: sqliterepo.NewPlatformSettingsRepository(db, cfg.Platform.FeeAccount),
			close:    func(context.Context) error { return sqlDB.Close() },
		}, nil

	case "memory", "":
		return &Backend{
			Driver:   "memory",
			Raffles:  memory.NewRaffleRepository(),
			Accounts: memory.NewAccountRepository(),
			Settings: memory.NewPlatformSettingsRepository(cfg.Platform.FeeAccount),
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
