package handlers

import (
	"context"
	"runtime/debug"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/logger"
)

// Recover stops a panicking handler from taking the bot down. The panic is
// logged with its stack and the user gets the generic error message.
func Recover(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				attrs := append(logger.UpdateAttrs(update), "panic", r, "stack", string(debug.Stack()))
				deps.Logger.ErrorContext(ctx, "Recovered from handler panic", attrs...)

				if chatID := chatIDOf(update); chatID != 0 {
					if _, err := deps.Messenger.SendPlain(ctx, chatID, deps.Config.Messages.GeneralError, nil); err != nil {
						deps.Logger.ErrorContext(ctx, "Failed to send error message", "error", err, "chat_id", chatID)
					}
				}
			}()
			next(ctx, bot, update)
		}
	}
}

// PerUser serializes the updates of one user so a session is never mutated
// by two handlers at once.
func PerUser(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			userID := userIDOf(update)
			if userID == 0 {
				next(ctx, bot, update)
				return
			}
			unlock := deps.Sessions.Lock(userID)
			defer unlock()
			next(ctx, bot, update)
		}
	}
}

// CountUpdates records every update in the updates metric.
func CountUpdates(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			kind := "other"
			switch {
			case update.Message != nil:
				kind = "message"
			case update.CallbackQuery != nil:
				kind = "callback_query"
			}
			deps.Metrics.UpdatesTotal.WithLabelValues(kind).Inc()
			next(ctx, bot, update)
		}
	}
}

func userIDOf(update *models.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

func chatIDOf(update *models.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message.InaccessibleMessage != nil:
		return update.CallbackQuery.Message.InaccessibleMessage.Chat.ID
	}
	return 0
}
