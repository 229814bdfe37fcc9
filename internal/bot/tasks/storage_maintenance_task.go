package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/lingosleuth/detectivebot/internal/storage"
)

// newStorageMaintenanceTask runs backend housekeeping. Backends without any
// are skipped.
func newStorageMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "storage_maintenance")

	return func(ctx context.Context) error {
		m, ok := deps.Storage.(storage.Maintainer)
		if !ok {
			log.DebugContext(ctx, "Storage backend needs no maintenance")
			return nil
		}

		log.InfoContext(ctx, "Starting storage maintenance")
		start := time.Now()
		if err := m.Maintain(ctx); err != nil {
			log.ErrorContext(ctx, "Storage maintenance failed", "error", err, "duration", time.Since(start))
			return fmt.Errorf("storage maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Storage maintenance completed", "duration", time.Since(start))
		return nil
	}
}
