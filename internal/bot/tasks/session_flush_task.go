package tasks

import (
	"context"
	"time"
)

// newSessionFlushTask writes sessions changed since the last save and
// refreshes the active sessions gauge.
func newSessionFlushTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_flush")

	return func(ctx context.Context) error {
		start := time.Now()
		flushed := deps.Sessions.FlushDirty(ctx)
		active := deps.Sessions.Len()
		if deps.Metrics != nil {
			deps.Metrics.ActiveSessions.Set(float64(active))
		}

		if flushed > 0 {
			log.InfoContext(ctx, "Flushed dirty sessions", "flushed", flushed, "active", active, "duration", time.Since(start))
		} else {
			log.DebugContext(ctx, "No dirty sessions to flush", "active", active)
		}
		return ctx.Err()
	}
}
