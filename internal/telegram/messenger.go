package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrEmptyMessage is returned when there is no text to send.
var ErrEmptyMessage = errors.New("message text is empty")

// Messenger sends and edits messages. Markdown that Telegram refuses to
// parse is resent as plain text, and long text is split into chunks.
type Messenger struct {
	api        API
	log        *slog.Logger
	maxLen     int
	chunkDelay time.Duration
}

// NewMessenger wraps api. maxLen is the chunk size in runes.
func NewMessenger(api API, maxLen int, chunkDelay time.Duration, logger *slog.Logger) *Messenger {
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}
	return &Messenger{
		api:        api,
		log:        logger.With("component", "messenger"),
		maxLen:     maxLen,
		chunkDelay: chunkDelay,
	}
}

func isParseError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "can't parse entities")
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// Send delivers Markdown text. markup, if any, is attached to the last
// chunk, which is the message returned.
func (m *Messenger) Send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	return m.send(ctx, chatID, text, models.ParseModeMarkdownV1, markup)
}

// SendHTML delivers HTML text.
func (m *Messenger) SendHTML(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	return m.send(ctx, chatID, text, models.ParseModeHTML, markup)
}

// SendPlain delivers text without formatting.
func (m *Messenger) SendPlain(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (*models.Message, error) {
	return m.send(ctx, chatID, text, "", markup)
}

func (m *Messenger) send(ctx context.Context, chatID int64, text string, mode models.ParseMode, markup models.ReplyMarkup) (*models.Message, error) {
	chunks := SplitMessage(text, m.maxLen)
	if len(chunks) == 0 {
		return nil, ErrEmptyMessage
	}

	var last *models.Message
	for i, chunk := range chunks {
		if i > 0 && m.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return last, ctx.Err()
			case <-time.After(m.chunkDelay):
			}
		}

		params := &bot.SendMessageParams{ChatID: chatID, Text: chunk, ParseMode: mode}
		if i == len(chunks)-1 && markup != nil {
			params.ReplyMarkup = markup
		}

		msg, err := m.api.SendMessage(ctx, params)
		if isParseError(err) && mode != "" {
			m.log.WarnContext(ctx, "Formatted send rejected, retrying as plain text", "chat_id", chatID, "parse_mode", mode)
			params.ParseMode = ""
			msg, err = m.api.SendMessage(ctx, params)
		}
		if err != nil {
			return last, fmt.Errorf("failed to send message chunk %d/%d: %w", i+1, len(chunks), err)
		}
		last = msg
	}
	return last, nil
}

// Edit replaces a message's Markdown text and inline keyboard. A nil
// markup removes the keyboard.
func (m *Messenger) Edit(ctx context.Context, chatID int64, messageID int, text string, markup *models.InlineKeyboardMarkup) error {
	params := &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdownV1,
		ReplyMarkup: keyboardOrEmpty(markup),
	}

	_, err := m.api.EditMessageText(ctx, params)
	if isParseError(err) {
		m.log.WarnContext(ctx, "Formatted edit rejected, retrying as plain text", "chat_id", chatID, "message_id", messageID)
		params.ParseMode = ""
		_, err = m.api.EditMessageText(ctx, params)
	}
	if err != nil && !isNotModified(err) {
		return fmt.Errorf("failed to edit message %d: %w", messageID, err)
	}
	return nil
}

// EditKeyboard replaces a message's inline keyboard.
func (m *Messenger) EditKeyboard(ctx context.Context, chatID int64, messageID int, markup *models.InlineKeyboardMarkup) error {
	_, err := m.api.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: keyboardOrEmpty(markup),
	})
	if err != nil && !isNotModified(err) {
		return fmt.Errorf("failed to edit keyboard of message %d: %w", messageID, err)
	}
	return nil
}

// ClearKeyboard removes a message's inline keyboard.
func (m *Messenger) ClearKeyboard(ctx context.Context, chatID int64, messageID int) error {
	return m.EditKeyboard(ctx, chatID, messageID, nil)
}

// Delete removes a message.
func (m *Messenger) Delete(ctx context.Context, chatID int64, messageID int) error {
	if _, err := m.api.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: messageID}); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}
	return nil
}

// Answer acknowledges a callback query, optionally with a toast or alert.
func (m *Messenger) Answer(ctx context.Context, callbackID, text string, alert bool) error {
	_, err := m.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	return nil
}

// Typing shows the typing indicator once.
func (m *Messenger) Typing(ctx context.Context, chatID int64) error {
	if _, err := m.api.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil {
		return fmt.Errorf("failed to send typing action: %w", err)
	}
	return nil
}

// SendPhoto uploads an image with an optional Markdown caption.
func (m *Messenger) SendPhoto(ctx context.Context, chatID int64, filename string, data []byte, caption string, markup models.ReplyMarkup) (*models.Message, error) {
	if len(data) == 0 {
		return nil, errors.New("empty photo")
	}
	params := &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(data)},
		Caption: caption,
	}
	if caption != "" {
		params.ParseMode = models.ParseModeMarkdownV1
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	msg, err := m.api.SendPhoto(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to send photo %s: %w", filename, err)
	}
	return msg, nil
}

// Pin pins a message without notifying the user.
func (m *Messenger) Pin(ctx context.Context, chatID int64, messageID int) error {
	_, err := m.api.PinChatMessage(ctx, &bot.PinChatMessageParams{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
	if err != nil {
		return fmt.Errorf("failed to pin message %d: %w", messageID, err)
	}
	return nil
}

// SetCommands publishes the command list shown in the client menu.
func (m *Messenger) SetCommands(ctx context.Context, commands []models.BotCommand) error {
	if _, err := m.api.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

func keyboardOrEmpty(markup *models.InlineKeyboardMarkup) models.ReplyMarkup {
	if markup == nil {
		return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{}}
	}
	return markup
}
