package repository

import (
	"context"
	"fmt"

	"storefront-library/internal/config"
	"storefront-library/internal/logger"
	"storefront-library/internal/repository/postgres"
	"storefront-library/internal/repository/sqlite"
	"storefront-library/internal/storage"
)

// OpenDocumentStore builds the backend selected by cfg.Storage.Driver.
func OpenDocumentStore(ctx context.Context, cfg *config.Config) (storage.DocumentStore, error) {
	switch cfg.Storage.Driver {
	case "file":
		logger.Info("Using file storage", "dir", cfg.Storage.Dir)
		return storage.NewFileStore(cfg.Storage.Dir)
	case "sqlite":
		logger.Info("Using sqlite storage", "path", cfg.Storage.SQLitePath)
		return sqlite.Open(ctx, cfg.Storage.SQLitePath)
	case "postgres":
		db := cfg.Storage.Postgres
		logger.Info("Using postgres storage", "host", db.Host, "port", db.Port, "database", db.Database, "user", db.User)
		return postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	case "memory":
		logger.Warn("Using in-memory storage; library data is lost on exit")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage driver '%s' not supported", cfg.Storage.Driver)
	}
}
