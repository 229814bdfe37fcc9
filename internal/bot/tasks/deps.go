// Package tasks implements the periodic background jobs of the bot.
package tasks

import (
	"log/slog"

	"github.com/lingosleuth/detectivebot/internal/config"
	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/session"
	"github.com/lingosleuth/detectivebot/internal/storage"
)

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Storage  storage.Store
	Metrics  *metrics.Metrics
	Config   *config.Config
}
