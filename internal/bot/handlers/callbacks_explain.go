package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const (
	originalMissing = "I couldn't find the original message."
	askForWord      = "Okay, please type the word or phrase you want me to explain."
	logPreviewRunes = 100
)

func preview(text string) string {
	r := []rune(text)
	if len(r) > logPreviewRunes {
		return string(r[:logPreviewRunes]) + "..."
	}
	return text
}

// explainKeyboard offers each spotted word, the whole sentence and free
// input. Words that would not fit in callback data are left out.
func explainKeyboard(messageID int, words []string) *models.InlineKeyboardMarkup {
	id := strconv.Itoa(messageID)
	var buttons []models.InlineKeyboardButton
	for _, w := range words {
		data := callbackdata.New(callbackdata.Explain, "word", id, w)
		if len(data.String()) > callbackdata.MaxLength {
			continue
		}
		buttons = append(buttons, telegram.Button(fmt.Sprintf("'%s'", w), data))
	}
	buttons = append(buttons,
		telegram.Button("💬 The whole sentence", callbackdata.New(callbackdata.Explain, "all", id)),
		telegram.Button("✍️ A different word...", callbackdata.New(callbackdata.Explain, "other")),
	)
	return telegram.Column(buttons...)
}

func (h callbackHandler) explain(ctx context.Context, c *callback) error {
	sess := c.session
	sub := c.data.Sub()

	if sub == "other" {
		sess.WaitingForWord = true
		logAction(ctx, h.deps, c.userID, sess, "Requested to explain a custom word/phrase")
		sendPlain(ctx, h.deps, c.chatID, askForWord, nil)
		return nil
	}

	messageID, err := c.data.IntArg(1)
	if err != nil {
		return fmt.Errorf("%w: %w", callbackdata.ErrUnknownAction, err)
	}
	original := originalMissing
	if cached, ok := h.deps.Messages.Get(c.chatID, messageID); ok {
		original = cached.Text
	}

	switch sub {
	case "init":
		logAction(ctx, h.deps, c.userID, sess, "Clicked 'Explain' button for message: "+preview(original))
		words := h.deps.Gateway.SpotWords(ctx, original)
		if err := h.deps.Messenger.EditKeyboard(ctx, c.chatID, c.messageID, explainKeyboard(messageID, words)); err != nil {
			h.deps.Logger.WarnContext(ctx, "Failed to show explain options", "error", err, "user_id", c.userID)
		}

	case "word":
		word := strings.TrimSpace(c.data.Arg(2))
		if word == "" {
			return unknownSub(c)
		}
		surrounding := ""
		if original != originalMissing {
			surrounding = original
		}
		logAction(ctx, h.deps, c.userID, sess, fmt.Sprintf("Requested explanation for word: '%s' from message: %s", word, preview(surrounding)))
		explainText(ctx, h.deps, c.chatID, c.userID, sess, word, surrounding)

	case "all":
		logAction(ctx, h.deps, c.userID, sess, "Requested explanation for entire sentence: "+preview(original))
		explainText(ctx, h.deps, c.chatID, c.userID, sess, original, original)

	default:
		return unknownSub(c)
	}
	return nil
}
