package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler resumes an unfinished game or starts a new one.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", userID)

	startGame(ctx, h.deps, chatID, userID)
}

// startGame is /start: resume, or begin again when there is nothing to
// resume.
func startGame(ctx context.Context, deps HandlerDeps, chatID, userID int64) {
	sess, ok := restoreSession(ctx, deps, chatID, userID, false)
	switch {
	case ok && !sess.GameCompleted:
		sendPlain(ctx, deps, chatID, "🎮 Game resumed! You can continue from where you left off.", telegram.MainKeyboard())
		return
	case ok:
		deps.Logger.InfoContext(ctx, "Previous game was completed, starting fresh", "user_id", userID)
		resetGame(ctx, deps, userID)
		sendPlain(ctx, deps, chatID, "🎮 Starting fresh detective game!", telegram.RemoveKeyboard())
	default:
		resetGame(ctx, deps, userID)
	}
	sendConsent(ctx, deps, chatID)
}
