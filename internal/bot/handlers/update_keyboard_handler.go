package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// NewUpdateKeyboardHandler returns a handler for /update_keyboard, which
// re-sends the persistent menu keyboard.
func NewUpdateKeyboardHandler(deps HandlerDeps) bot.HandlerFunc {
	return updateKeyboardHandler{deps}.Handle
}

type updateKeyboardHandler struct {
	deps HandlerDeps
}

func (h updateKeyboardHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	if _, ok := activeSession(ctx, h.deps, chatID, userID); !ok {
		return
	}
	send(ctx, h.deps, chatID, h.deps.Config.Messages.KeyboardUpdated, telegram.MainKeyboard())
	h.deps.Logger.InfoContext(ctx, "Keyboard updated", "user_id", userID)
}
