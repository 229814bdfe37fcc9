package telegram

import (
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
)

// Persistent reply keyboard labels.
const (
	GameMenuLabel     = "🔍 Game Menu"
	LearningMenuLabel = "✍️ Learning Menu"
	// LegacyProgressLabel is still on the keyboards of older sessions.
	LegacyProgressLabel = "📊 Language Progress"
)

// Button is an inline button carrying callback data.
func Button(text string, data callbackdata.Data) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: data.String()}
}

// Row groups buttons on one line.
func Row(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// Inline builds a keyboard from rows.
func Inline(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// Column builds a keyboard with one button per row.
func Column(buttons ...models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []models.InlineKeyboardButton{b})
	}
	return Inline(rows...)
}

// Single is a keyboard with one button.
func Single(text string, data callbackdata.Data) *models.InlineKeyboardMarkup {
	return Column(Button(text, data))
}

// MainKeyboard is the persistent keyboard shown during the investigation.
func MainKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: GameMenuLabel}, {Text: LearningMenuLabel}},
		},
		ResizeKeyboard: true,
		IsPersistent:   true,
	}
}

// RemoveKeyboard hides the persistent keyboard.
func RemoveKeyboard() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}
