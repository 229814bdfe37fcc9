package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// NewRestartHandler returns a handler for the /restart command.
func NewRestartHandler(deps HandlerDeps) bot.HandlerFunc {
	return restartHandler{deps}.Handle
}

// restartHandler wipes the current game and starts over.
type restartHandler struct {
	deps HandlerDeps
}

func (h restartHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "restart")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Restart handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID
	log.InfoContext(ctx, "Handling /restart command", "chat_id", chatID, "user_id", userID)

	restartGame(ctx, h.deps, chatID, userID)
}

func restartGame(ctx context.Context, deps HandlerDeps, chatID, userID int64) {
	resetGame(ctx, deps, userID)
	sendPlain(ctx, deps, chatID, "🎮 Game restarted! Starting from the beginning...", telegram.RemoveKeyboard())
	sendConsent(ctx, deps, chatID)
}
