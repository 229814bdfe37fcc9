package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewProgressHandler returns a handler for /progress.
func NewProgressHandler(deps HandlerDeps) bot.HandlerFunc {
	return progressHandler{deps}.Handle
}

type progressHandler struct {
	deps HandlerDeps
}

func (h progressHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	sess, ok := activeSession(ctx, h.deps, chatID, userID)
	if !ok {
		return
	}
	logAction(ctx, h.deps, userID, sess, "Requested progress report")
	sendProgressReport(ctx, h.deps, chatID, userID, sess, false)
}
