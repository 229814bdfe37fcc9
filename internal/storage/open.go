package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lingosleuth/detectivebot/internal/config"
)

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case "bucket":
		return OpenBucket(ctx, cfg.BucketURL, logger)
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
