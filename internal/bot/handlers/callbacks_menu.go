package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const (
	guideImage    = "detective_guide.png"
	backToMainBtn = "⬅️ Back to Main Menu"
)

func (h callbackHandler) languageMenu(ctx context.Context, c *callback) error {
	sess := c.session

	switch c.data.Sub() {
	case "progress":
		logAction(ctx, h.deps, c.userID, sess, "Clicked 'Language Progress' button in ✍️ Learning Menu")
		sendProgressReport(ctx, h.deps, c.chatID, c.userID, sess, true)
	case "difficulty":
		edit(ctx, h.deps, c.chatID, c.messageID, difficultyText(sess.LanguageLevel), difficultyKeyboard(sess.LanguageLevel))
	case "back":
		showLearningMenu(ctx, h.deps, c.chatID, c.messageID, sess.LanguageLevel)
	default:
		return unknownSub(c)
	}
	return nil
}

func difficultyText(level game.Level) string {
	return fmt.Sprintf("⚙️ *Text Difficulty Settings*\n\nCurrent level: *%s*\n\nChoose your preferred difficulty level:\n\n"+
		"🌱 *Light (A2)* - Simple vocabulary and grammar\n"+
		"⚖️ *Balanced (B1)* - Intermediate level, balanced complexity\n"+
		"🚀 *Advanced (B2)* - More complex structures and vocabulary", level)
}

func difficultyKeyboard(level game.Level) *models.InlineKeyboardMarkup {
	var buttons []models.InlineKeyboardButton
	if level != game.LevelA2 {
		buttons = append(buttons, telegram.Button("🌱 Light", callbackdata.New(callbackdata.Difficulty, "set", string(game.LevelA2))))
	}
	buttons = append(buttons, telegram.Button("⚖️ Balanced", callbackdata.New(callbackdata.Difficulty, "set", string(game.LevelB1))))
	if level != game.LevelB2 {
		buttons = append(buttons, telegram.Button("🚀 Advanced", callbackdata.New(callbackdata.Difficulty, "set", string(game.LevelB2))))
	}
	buttons = append(buttons, telegram.Button(backToLanguageBtn, callbackdata.New(callbackdata.LanguageMenu, "back")))
	return telegram.Column(buttons...)
}

func (h callbackHandler) difficulty(ctx context.Context, c *callback) error {
	if c.data.Sub() != "set" {
		return unknownSub(c)
	}
	next := game.Level(c.data.Arg(1))
	if !next.Valid() {
		return unknownSub(c)
	}

	sess := c.session
	old := sess.LanguageLevel
	sess.LanguageLevel = next
	h.deps.Sessions.Save(ctx, c.userID)

	logAction(ctx, h.deps, c.userID, sess, fmt.Sprintf("Changed text difficulty from %s to %s", old, next))
	h.deps.Logger.InfoContext(ctx, "Changed text difficulty", "user_id", c.userID, "from", old, "to", next)

	text := fmt.Sprintf("✅ *Difficulty Updated!*\n\nYour text difficulty has been changed from *%s* to *%s*.\n\n"+
		"This setting will apply to all new conversations and character interactions. "+
		"You can change it anytime from the ✍️ Learning Menu.", old, next)
	edit(ctx, h.deps, c.chatID, c.messageID, text, backToLanguageMenu())
	return nil
}

func (h callbackHandler) menu(ctx context.Context, c *callback) error {
	switch c.data.Sub() {
	case "main":
		showMainMenu(ctx, h.deps, c.chatID, c.messageID)

	case "talk":
		buttons := []models.InlineKeyboardButton{
			telegram.Button("💬 Talk to Everyone (Public)", callbackdata.New(callbackdata.Mode, "public")),
		}
		for _, s := range game.Suspects() {
			buttons = append(buttons, telegram.Button(fmt.Sprintf("%s Talk to %s", s.Emoji, s.FullName), callbackdata.New(callbackdata.Talk, s.Key)))
		}
		buttons = append(buttons, telegram.Button(backToMainBtn, callbackdata.New(callbackdata.Menu, "main")))
		edit(ctx, h.deps, c.chatID, c.messageID, "Choose your conversation partner:", telegram.Column(buttons...))

	case "evidence":
		kb := telegram.Column(
			telegram.Button("💡 Detective Guide", callbackdata.New(callbackdata.Guide, "detective")),
			telegram.Button("Initial Report", callbackdata.New(callbackdata.Clue, "1")),
			telegram.Button("The Weapon", callbackdata.New(callbackdata.Clue, "2")),
			telegram.Button("The Note", callbackdata.New(callbackdata.Clue, "3")),
			telegram.Button("The Apartment", callbackdata.New(callbackdata.Clue, "4")),
			telegram.Button(backToMainBtn, callbackdata.New(callbackdata.Menu, "main")),
		)
		edit(ctx, h.deps, c.chatID, c.messageID, "What would you like to examine?", kb)

	default:
		return unknownSub(c)
	}
	return nil
}

func (h callbackHandler) guide(ctx context.Context, c *callback) error {
	if c.data.Sub() != "detective" {
		return unknownSub(c)
	}
	logAction(ctx, h.deps, c.userID, c.session, "Viewed Detective Guide")

	caption := "💡 *Detective Guide*\n\nHere are some ideas to get your investigation started!\n\n" +
		"💬 *Pro tip*: People reveal more in private conversations than in group settings!"
	sendImage(ctx, h.deps, c.chatID, guideImage, caption, "", nil)
	return nil
}
