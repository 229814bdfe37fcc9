// Package handlers contains the Telegram command, message and callback
// handlers of the detective game, along with their registration logic and
// middleware.
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/lingosleuth/detectivebot/internal/config"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/llm"
	"github.com/lingosleuth/detectivebot/internal/metrics"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/session"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// Gateway is the part of the LLM gateway the handlers talk to.
type Gateway interface {
	Dialogue(ctx context.Context, userID int64, userMessage, systemPrompt, characterKey string) string
	ClearHistory(userID int64)
	TutorAnalysis(ctx context.Context, userID int64, text string) llm.Analysis
	TutorExplanation(ctx context.Context, userID int64, text, original string) llm.Explanation
	TutorFinalSummary(ctx context.Context, userID int64, progress any) llm.Summary
	SpotWords(ctx context.Context, text string) []string
}

// Reminders owns the post-test reminder of each session.
type Reminders interface {
	Schedule(userID int64, at time.Time)
	Cancel(userID int64)
}

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Messenger *telegram.Messenger
	Sessions  *session.Store
	Progress  *progress.Store
	ChatLog   *progress.ChatLog
	Gateway   Gateway
	Resolver  *game.Resolver
	Content   *content.Loader
	Reminders Reminders
	Metrics   *metrics.Metrics
	Messages  *MessageCache
	Now       func() time.Time
}

func (d HandlerDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
