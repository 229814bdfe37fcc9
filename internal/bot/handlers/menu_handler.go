package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// NewMenuHandler returns a handler for /menu and the Game Menu button.
func NewMenuHandler(deps HandlerDeps) bot.HandlerFunc {
	return menuHandler{deps}.Handle
}

type menuHandler struct {
	deps HandlerDeps
}

func (h menuHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	sess, ok := activeSession(ctx, h.deps, chatID, userID)
	if !ok {
		return
	}
	logAction(ctx, h.deps, userID, sess, "Clicked 'Game Menu' button")
	showMainMenu(ctx, h.deps, chatID, 0)
}

// NewLearningMenuHandler returns a handler for the Learning Menu button and
// its legacy Language Progress label.
func NewLearningMenuHandler(deps HandlerDeps) bot.HandlerFunc {
	return learningMenuHandler{deps}.Handle
}

type learningMenuHandler struct {
	deps HandlerDeps
}

func (h learningMenuHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	sess, ok := activeSession(ctx, h.deps, chatID, userID)
	if !ok {
		return
	}
	logAction(ctx, h.deps, userID, sess, "Clicked '✍️ Learning Menu' button")
	showLearningMenu(ctx, h.deps, chatID, 0, sess.LanguageLevel)

	// Players who still have the old keyboard get the current one.
	if update.Message.Text == telegram.LegacyProgressLabel {
		sendPlain(ctx, h.deps, chatID, h.deps.Config.Messages.KeyboardUpdated, telegram.MainKeyboard())
	}
}

func mainMenuKeyboard() *models.InlineKeyboardMarkup {
	return telegram.Column(
		telegram.Button("💬 Talk to Suspects", callbackdata.New(callbackdata.Menu, "talk")),
		telegram.Button("🗂️ Case Materials", callbackdata.New(callbackdata.Menu, "evidence")),
		telegram.Button("☝️ Make an Accusation", callbackdata.New(callbackdata.Accuse, "init")),
	)
}

// showMainMenu edits messageID into the game menu, or sends a new menu when
// messageID is zero.
func showMainMenu(ctx context.Context, deps HandlerDeps, chatID int64, messageID int) {
	const text = "What would you like to do?"
	if messageID != 0 {
		edit(ctx, deps, chatID, messageID, text, mainMenuKeyboard())
		return
	}
	sendPlain(ctx, deps, chatID, text, mainMenuKeyboard())
}

func learningMenuText(level game.Level) string {
	return fmt.Sprintf("📚 *✍️ Learning Menu*\n\nCurrent difficulty level: *%s*\n\n"+
		"• *Language Progress* - View your learning statistics and feedback\n"+
		"• *Text Difficulty* - Adjust how complex the game text should be (Light/Balanced/Advanced)", level)
}

func learningMenuKeyboard(level game.Level) *models.InlineKeyboardMarkup {
	return telegram.Column(
		telegram.Button("📊 Language Progress", callbackdata.New(callbackdata.LanguageMenu, "progress")),
		telegram.Button("⚙️ Text Difficulty: "+string(level), callbackdata.New(callbackdata.LanguageMenu, "difficulty")),
	)
}

func showLearningMenu(ctx context.Context, deps HandlerDeps, chatID int64, messageID int, level game.Level) {
	if messageID != 0 {
		edit(ctx, deps, chatID, messageID, learningMenuText(level), learningMenuKeyboard(level))
		return
	}
	send(ctx, deps, chatID, learningMenuText(level), learningMenuKeyboard(level))
}
