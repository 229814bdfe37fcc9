// Package telegram is the boundary to the Telegram Bot API: client setup,
// handler registration, message sending and keyboard building.
package telegram

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// RegisteredHandler describes one update route and its middleware.
type RegisteredHandler struct {
	HandlerType bot.HandlerType
	Pattern     string
	Handler     bot.HandlerFunc
	Middleware  []bot.Middleware
	MatchType   bot.MatchType
}

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	prefix := token
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	log.Info("Telegram bot instance created successfully", "token_prefix", prefix+"...")
	return b, nil
}

// applyMiddleware wraps handler so the first middleware in mw is the
// outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers every route with b, wrapping each in its own
// middleware.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, routes map[string]RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(routes) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	for name, route := range routes {
		if route.Handler == nil {
			log.Warn("Skipping registration for nil handler", "route", name)
			continue
		}
		b.RegisterHandler(route.HandlerType, route.Pattern, route.MatchType, applyMiddleware(route.Handler, route.Middleware))
		log.Debug("Registered handler", "route", name, "pattern", route.Pattern, "match_type", route.MatchType, "middleware_count", len(route.Middleware))
	}

	log.Info("Registered Telegram handlers successfully", "count", len(routes))
	return nil
}
