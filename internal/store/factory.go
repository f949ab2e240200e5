package store

import (
	"context"
	"fmt"

	"launchfeed/internal/config"
)

// Open selects a storage backend from the resolved configuration.
//
//	LAUNCHFEED_STORAGE_DRIVER: postgres|sqlite (default postgres)
//	POSTGRES_HOST/POSTGRES_DB/POSTGRES_USER/POSTGRES_PASSWORD when postgres
//	LAUNCHFEED_SQLITE_PATH when sqlite
func Open(ctx context.Context, cfg config.Config) (*SQLStore, error) {
	switch Dialect(cfg.StorageDriver) {
	case DialectPostgres, "":
		return NewPostgres(ctx, cfg.PostgresDSN())
	case DialectSQLite:
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.StorageDriver)
	}
}
