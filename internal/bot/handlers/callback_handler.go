package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/game"
)

// callback is one decoded button press.
type callback struct {
	userID    int64
	chatID    int64
	messageID int
	data      callbackdata.Data
	session   *game.Session
}

type callbackFunc func(h callbackHandler, ctx context.Context, c *callback) error

// callbackRoutes maps every callback action to its handler.
var callbackRoutes = map[callbackdata.Action]callbackFunc{
	callbackdata.Onboarding:   callbackHandler.onboarding,
	callbackdata.Language:     callbackHandler.language,
	callbackdata.CaseIntro:    callbackHandler.caseIntro,
	callbackdata.LanguageMenu: callbackHandler.languageMenu,
	callbackdata.Difficulty:   callbackHandler.difficulty,
	callbackdata.Menu:         callbackHandler.menu,
	callbackdata.Guide:        callbackHandler.guide,
	callbackdata.Clue:         callbackHandler.clue,
	callbackdata.Talk:         callbackHandler.talk,
	callbackdata.Mode:         callbackHandler.mode,
	callbackdata.Accuse:       callbackHandler.accuse,
	callbackdata.Explain:      callbackHandler.explain,
	callbackdata.Reveal:       callbackHandler.reveal,
	callbackdata.RevealCustom: callbackHandler.revealCustom,
	callbackdata.Restart:      callbackHandler.restart,
	callbackdata.Final:        callbackHandler.final,
}

// allowedAfterCompletion lists the actions a finished game still accepts.
func allowedAfterCompletion(a callbackdata.Action) bool {
	switch a {
	case callbackdata.Final, callbackdata.Reveal, callbackdata.RevealCustom, callbackdata.Restart:
		return true
	}
	return false
}

func unknownSub(c *callback) error {
	return fmt.Errorf("%w: %s", callbackdata.ErrUnknownAction, c.data)
}

// NewCallbackHandler returns the handler for every inline button press.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	q := update.CallbackQuery
	if q == nil {
		return
	}
	log := h.deps.Logger.With("handler", "callback", "user_id", q.From.ID)

	if err := h.deps.Messenger.Answer(ctx, q.ID, "", false); err != nil {
		log.DebugContext(ctx, "Failed to answer callback query", "error", err)
	}

	msg := q.Message.Message
	if msg == nil {
		log.WarnContext(ctx, "Callback on inaccessible message, ignoring")
		return
	}
	c := &callback{userID: q.From.ID, chatID: msg.Chat.ID, messageID: msg.ID}

	data, err := callbackdata.Parse(q.Data)
	if err != nil {
		log.WarnContext(ctx, "Rejected callback data", "error", err)
		edit(ctx, h.deps, c.chatID, c.messageID, h.deps.Config.Messages.UnknownAction, nil)
		return
	}
	c.data = data
	log = log.With("action", string(data.Action))

	sess, ok := restoreSession(ctx, h.deps, c.chatID, c.userID, false)
	if !ok {
		edit(ctx, h.deps, c.chatID, c.messageID, h.deps.Config.Messages.ExpiredButton, nil)
		return
	}
	c.session = sess

	if sess.GameCompleted && !allowedAfterCompletion(data.Action) {
		edit(ctx, h.deps, c.chatID, c.messageID, h.deps.Config.Messages.GameCompleted, nil)
		return
	}

	route, ok := callbackRoutes[data.Action]
	if !ok {
		log.ErrorContext(ctx, "No route for callback action")
		edit(ctx, h.deps, c.chatID, c.messageID, h.deps.Config.Messages.UnknownAction, nil)
		return
	}

	log.DebugContext(ctx, "Dispatching callback", "sub_action", data.Sub())
	if err := route(h, ctx, c); err != nil {
		if errors.Is(err, callbackdata.ErrUnknownAction) {
			log.WarnContext(ctx, "Unknown callback sub-action", "error", err)
			edit(ctx, h.deps, c.chatID, c.messageID, h.deps.Config.Messages.UnknownAction, nil)
			return
		}
		log.ErrorContext(ctx, "Callback handler failed", "error", err)
		edit(ctx, h.deps, c.chatID, c.messageID, h.deps.Config.Messages.GeneralError, nil)
		return
	}

	if h.deps.Sessions.Cached(c.userID) {
		h.deps.Sessions.MarkDirty(c.userID)
	}
}
