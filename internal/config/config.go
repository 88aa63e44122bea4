package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	MongoDB  MongoDBConfig
	SQLite   SQLiteConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Raffle   RaffleConfig
	Draw     DrawConfig
	Platform PlatformConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Mode         string
	AllowedHosts []string
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string // memory, mongodb or sqlite
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string
	Database       string
	ConnectTimeout int // seconds
}

// SQLiteConfig holds the SQLite database location
type SQLiteConfig struct {
	Path string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AuthConfig controls account capabilities
type AuthConfig struct {
	AdminAccounts []string
	// AdminPasswordHash is the bcrypt hash seeded for admin accounts that do not exist yet
	AdminPasswordHash string
	OpenCreation      bool
}

// RaffleConfig holds creation defaults and platform limits
type RaffleConfig struct {
	DefaultOnePerAccount bool
	MaxTickets           int
	MaxFeePercent        int
	MaxStakePercent      int
	MinTicketPrice       string
}

// DrawConfig selects the winner randomness source
type DrawConfig struct {
	Source string // crypto or hashchain
	Seed   string
}

// PlatformConfig holds the initial platform settings
type PlatformConfig struct {
	FeeAccount string
}

// LogConfig holds logger outputs
type LogConfig struct {
	Level     string
	File      string
	ErrorFile string
	Console   bool
}

// Load loads configuration from a .env file, environment variables and config files.
// Environment variables use underscores for nesting, e.g. SERVER_PORT or JWT_SECRET.
func Load(configPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{".", "./config"}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Comma separated list, e.g. ADMIN_ACCOUNTS=alice,bob
	config.Auth.AdminAccounts = GetEnvAsSlice("ADMIN_ACCOUNTS", ",", config.Auth.AdminAccounts)
	config.Auth.AdminPasswordHash = GetEnv("ADMIN_PASSWORD_HASH", config.Auth.AdminPasswordHash)
	config.Auth.OpenCreation = GetEnvAsBool("OPEN_CREATION", config.Auth.OpenCreation)
	// Hosting platforms inject PORT
	config.Server.Port = GetEnv("PORT", config.Server.Port)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.Mode", "release")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("Storage.Driver", "memory")
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "raffle-ledger")
	v.SetDefault("MongoDB.ConnectTimeout", 10)
	v.SetDefault("SQLite.Path", "raffle-ledger.db")
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Auth.AdminAccounts", []string{})
	v.SetDefault("Auth.AdminPasswordHash", "")
	v.SetDefault("Auth.OpenCreation", true)
	v.SetDefault("Raffle.DefaultOnePerAccount", true)
	v.SetDefault("Raffle.MaxTickets", 10000)
	v.SetDefault("Raffle.MaxFeePercent", 100)
	v.SetDefault("Raffle.MaxStakePercent", 100)
	v.SetDefault("Raffle.MinTicketPrice", "")
	v.SetDefault("Draw.Source", "crypto")
	v.SetDefault("Draw.Seed", "")
	v.SetDefault("Platform.FeeAccount", "")
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.File", "")
	v.SetDefault("Log.ErrorFile", "")
	v.SetDefault("Log.Console", true)
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: JWT secret is required (JWT_SECRET)")
	}
	if c.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("config: JWT expiry must be positive, got %d", c.JWT.ExpiresIn)
	}
	switch c.Storage.Driver {
	case "memory", "mongodb", "sqlite":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Draw.Source {
	case "crypto":
	case "hashchain":
		if c.Draw.Seed == "" {
			return errors.New("config: hashchain draw source needs DRAW_SEED")
		}
	default:
		return fmt.Errorf("config: unknown draw source %q", c.Draw.Source)
	}
	// The store reads a zero limit as unbounded, so zero is not a valid operator setting.
	if c.Raffle.MaxTickets < 1 {
		return fmt.Errorf("config: raffle ticket limit must be positive, got %d", c.Raffle.MaxTickets)
	}
	if c.Raffle.MaxFeePercent < 1 || c.Raffle.MaxFeePercent > 100 || c.Raffle.MaxStakePercent < 1 || c.Raffle.MaxStakePercent > 100 {
		return errors.New("config: raffle percentage limits must be between 1 and 100")
	}
	if c.Auth.AdminPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(c.Auth.AdminPasswordHash)); err != nil {
			return fmt.Errorf("config: admin password hash is not a bcrypt hash: %w", err)
		}
	}
	if _, err := c.MinTicketPrice(); err != nil {
		return err
	}
	return nil
}

// MinTicketPrice parses Raffle.MinTicketPrice; empty means no minimum
func (c *Config) MinTicketPrice() (decimal.Decimal, error) {
	if c.Raffle.MinTicketPrice == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(c.Raffle.MinTicketPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: invalid minimum ticket price %q: %w", c.Raffle.MinTicketPrice, err)
	}
	return d, nil
}

// TokenLifetime returns the JWT lifetime as a duration
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.JWT.ExpiresIn) * time.Second
}

// MongoConnectTimeout returns the MongoDB connect timeout as a duration
func (c *Config) MongoConnectTimeout() time.Duration {
	return time.Duration(c.MongoDB.ConnectTimeout) * time.Second
}
