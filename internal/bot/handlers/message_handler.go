package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// NewMessageHandler returns the handler for free text: participant codes,
// words to explain and everything said to the suspects.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		sendPlain(ctx, h.deps, msg.Chat.ID, h.deps.Config.Messages.UnknownAction, nil)
		return
	}

	chatID, userID, text := msg.Chat.ID, msg.From.ID, msg.Text
	log := h.deps.Logger.With("handler", "message", "user_id", userID)

	if err := h.deps.Messenger.Typing(ctx, chatID); err != nil {
		log.DebugContext(ctx, "Failed to send typing action", "error", err)
	}

	sess, ok := restoreSession(ctx, h.deps, chatID, userID, true)
	if !ok {
		log.InfoContext(ctx, "No saved game, starting a new one")
		startGame(ctx, h.deps, chatID, userID)
		return
	}
	h.deps.ChatLog.Append(ctx, userID, sess.ParticipantCode, progress.RoleUser, text)

	if sess.GameCompleted {
		sendPlain(ctx, h.deps, chatID, h.deps.Config.Messages.GameCompleted, nil)
		return
	}

	if sess.WaitingForParticipantCode {
		h.participantCode(ctx, chatID, userID, sess, text)
		return
	}

	if sess.WaitingForWord {
		sess.WaitingForWord = false
		explainText(ctx, h.deps, chatID, userID, sess, strings.TrimSpace(text), "")
		h.deps.Sessions.MarkDirty(userID)
		return
	}

	if reply := msg.ReplyToMessage; reply != nil {
		if cached, ok := h.deps.Messages.Get(chatID, reply.ID); ok && cached.CharacterKey != "" {
			log.InfoContext(ctx, "Player replied to a character", "character", cached.CharacterKey)
			res := h.deps.Resolver.ReplyToCharacter(sess, cached.CharacterKey, cached.Text, text)
			playScene(ctx, h.deps, chatID, userID, sess, res.Actions)
			h.deps.Sessions.Save(ctx, userID)
			return
		}
	}

	analyzeInBackground(h.deps, userID, sess.ParticipantCode, text)
	sess.MessageCount++

	topic := sess.TopicMemory.Topic
	interrogated := len(sess.SuspectsInterrogated)

	res := h.deps.Resolver.Resolve(ctx, userID, sess, text)
	switch res.Source {
	case game.SourceShortcut:
		h.deps.Metrics.ShortcutsTotal.WithLabelValues(res.TopicKey).Inc()
	case game.SourceNone:
		log.WarnContext(ctx, "No scene for public message")
		h.deps.ChatLog.Append(ctx, userID, sess.ParticipantCode, progress.RoleDirector, "Director returned an empty scene for public conversation.")
	}
	playScene(ctx, h.deps, chatID, userID, sess, res.Actions)

	if sess.TopicMemory.Topic != topic || len(sess.SuspectsInterrogated) != interrogated {
		h.deps.Sessions.Save(ctx, userID)
		return
	}
	h.deps.Sessions.MarkDirty(userID)
}

func (h messageHandler) participantCode(ctx context.Context, chatID, userID int64, sess *game.Session, text string) {
	code, ok := game.ParseParticipantCode(text)
	if !ok {
		sendPlain(ctx, h.deps, chatID, h.deps.Config.Messages.InvalidCode, nil)
		return
	}

	sess.SetParticipantCode(code)
	h.deps.Sessions.Save(ctx, userID)
	h.deps.Logger.InfoContext(ctx, "Participant code saved, moving to language selection", "user_id", userID)

	levelText := gameText(h.deps, "onboarding_4_language_level.txt", "Great! Now let's find the right language level for you.")
	sendPlain(ctx, h.deps, chatID, levelText, telegram.Single("🎯 Find Your Language Level", callbackdata.New(callbackdata.Onboarding, "step5")))
}
