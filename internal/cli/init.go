// Package cli provides common initialization for the cardledger commands:
// logging, .env loading, configuration, and store construction.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"cardledger/internal/backend"
	"cardledger/internal/config"
	"cardledger/internal/log"
)

// SetupLogger initializes structured logging with default settings and
// installs it as the process default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the configured persistence backend, exiting the process
// on failure.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.Result {
	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize store",
			log.FieldError, err,
			log.FieldBackend, cfg.DataBackend,
			log.FieldDBPath, cfg.SQLiteDBPath)
		os.Exit(1)
	}
	return result
}
