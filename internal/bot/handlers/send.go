package handlers

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const explainButton = "💡 Explain..."

func send(ctx context.Context, deps HandlerDeps, chatID int64, text string, markup models.ReplyMarkup) *models.Message {
	msg, err := deps.Messenger.Send(ctx, chatID, text, markup)
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
		return nil
	}
	return msg
}

func sendPlain(ctx context.Context, deps HandlerDeps, chatID int64, text string, markup models.ReplyMarkup) {
	if _, err := deps.Messenger.SendPlain(ctx, chatID, text, markup); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

func edit(ctx context.Context, deps HandlerDeps, chatID int64, messageID int, text string, markup *models.InlineKeyboardMarkup) {
	if err := deps.Messenger.Edit(ctx, chatID, messageID, text, markup); err != nil {
		deps.Logger.WarnContext(ctx, "Failed to edit message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func clearKeyboard(ctx context.Context, deps HandlerDeps, chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	if err := deps.Messenger.ClearKeyboard(ctx, chatID, messageID); err != nil {
		deps.Logger.DebugContext(ctx, "Failed to clear keyboard", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

func deleteMessage(ctx context.Context, deps HandlerDeps, chatID int64, messageID int) {
	if err := deps.Messenger.Delete(ctx, chatID, messageID); err != nil {
		deps.Logger.DebugContext(ctx, "Failed to delete message", "error", err, "chat_id", chatID, "message_id", messageID)
	}
}

// sendExplainable sends text and attaches the explain button, remembering
// raw as the text to explain. characterKey marks character lines so a reply
// to them reaches the same character.
func sendExplainable(ctx context.Context, deps HandlerDeps, chatID int64, text, raw, characterKey string) *models.Message {
	msg := send(ctx, deps, chatID, text, nil)
	if msg == nil {
		return nil
	}
	deps.Messages.Put(chatID, msg.ID, CachedMessage{Text: raw, CharacterKey: characterKey})

	kb := telegram.Single(explainButton, callbackdata.New(callbackdata.Explain, "init", strconv.Itoa(msg.ID)))
	if err := deps.Messenger.EditKeyboard(ctx, chatID, msg.ID, kb); err != nil {
		deps.Logger.WarnContext(ctx, "Failed to attach explain button", "error", err, "chat_id", chatID, "message_id", msg.ID)
	}
	return msg
}

// sendImage sends an image from the content tree with a caption. When the
// image is missing or Telegram rejects it, the caption is sent as text with
// fallbackPrefix in front.
func sendImage(ctx context.Context, deps HandlerDeps, chatID int64, image, caption, fallbackPrefix string, markup models.ReplyMarkup) {
	name := content.Image(image)
	data, err := deps.Content.File(name)
	if err == nil {
		if _, err = deps.Messenger.SendPhoto(ctx, chatID, image, data, caption, markup); err == nil {
			return
		}
	}
	deps.Logger.WarnContext(ctx, "Sending image failed, falling back to text", "path", name, "error", err, "chat_id", chatID)
	if caption == "" {
		return
	}
	send(ctx, deps, chatID, fallbackPrefix+caption, markup)
}
