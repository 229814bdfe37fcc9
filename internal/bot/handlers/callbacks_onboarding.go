package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const (
	atmosphereImage = "aric-cheng-7Bv9MrBan9s-unsplash.jpg"
	suspectsImage   = "suspects.png"
)

func (h callbackHandler) onboarding(ctx context.Context, c *callback) error {
	sess := c.session

	switch c.data.Sub() {
	case "step2":
		clearKeyboard(ctx, h.deps, c.chatID, c.messageID)
		links := gameText(h.deps, "onboarding_2_links.txt", "📋 The study links are pinned at the top of this chat.")
		msg := send(ctx, h.deps, c.chatID, links, telegram.Single("📝 First questionnaire done, let's go!", callbackdata.New(callbackdata.Onboarding, "step4")))
		if msg != nil {
			if err := h.deps.Messenger.Pin(ctx, c.chatID, msg.ID); err != nil {
				h.deps.Logger.WarnContext(ctx, "Could not pin links message", "error", err, "user_id", c.userID)
			}
		}
		sess.OnboardingStep = game.StepLinksShown

	case "step4":
		clearKeyboard(ctx, h.deps, c.chatID, c.messageID)
		send(ctx, h.deps, c.chatID, gameText(h.deps, "onboarding_2_code.txt", "🔑 Please type your participant code (e.g. AN0842)."), nil)
		sess.WaitingForParticipantCode = true
		sess.OnboardingStep = game.StepWaitingForCode

	case "step5":
		if sess.ParticipantCode == "" {
			sendPlain(ctx, h.deps, c.chatID, "❌ Please enter your participant code first!", nil)
			return nil
		}
		clearKeyboard(ctx, h.deps, c.chatID, c.messageID)

		sess.LanguageLevel = game.DefaultLevel
		msg := send(ctx, h.deps, c.chatID, introText(h.deps, sess.LanguageLevel), languageKeyboard(sess.LanguageLevel))
		if msg != nil {
			sess.CurrentIntroMessageID = msg.ID
		}
		sess.OnboardingStep = game.StepLanguageSelection
		h.deps.Logger.InfoContext(ctx, "Reached language selection", "user_id", c.userID)

	default:
		return unknownSub(c)
	}
	return nil
}

func introText(deps HandlerDeps, level game.Level) string {
	return gameText(deps, "intro-"+string(level)+".txt", "🕵️ A detective story is waiting for you.")
}

// languageKeyboard offers the moves still possible from level.
func languageKeyboard(level game.Level) *models.InlineKeyboardMarkup {
	var buttons []models.InlineKeyboardButton
	if level != game.LevelA2 {
		buttons = append(buttons, telegram.Button("Easier", callbackdata.New(callbackdata.Language, "easier")))
	}
	buttons = append(buttons, telegram.Button("Perfect!", callbackdata.New(callbackdata.Language, "perfect")))
	if level != game.LevelB2 {
		buttons = append(buttons, telegram.Button("More Advanced", callbackdata.New(callbackdata.Language, "more_advanced")))
	}
	return telegram.Column(buttons...)
}

func (h callbackHandler) language(ctx context.Context, c *callback) error {
	sess := c.session
	current := sess.LanguageLevel

	var next game.Level
	switch c.data.Sub() {
	case "perfect":
		h.confirmLevel(ctx, c)
		return nil
	case "easier":
		next = current.Easier()
	case "more_advanced":
		next = current.Harder()
	default:
		return unknownSub(c)
	}

	if next == current {
		return nil
	}
	introID := sess.CurrentIntroMessageID
	if introID == 0 {
		h.deps.Logger.ErrorContext(ctx, "No intro message to adjust", "user_id", c.userID)
		return nil
	}

	edit(ctx, h.deps, c.chatID, introID, "🔄 Adjusting text difficulty...", nil)
	pause(ctx, h.deps.Config.Game.StepDelay)
	edit(ctx, h.deps, c.chatID, introID, introText(h.deps, next), languageKeyboard(next))

	sess.LanguageLevel = next
	h.deps.Logger.InfoContext(ctx, "Changed language level", "user_id", c.userID, "from", current, "to", next)
	return nil
}

func (h callbackHandler) confirmLevel(ctx context.Context, c *callback) {
	sess := c.session
	level := string(sess.LanguageLevel)

	clearKeyboard(ctx, h.deps, c.chatID, sess.CurrentIntroMessageID)

	confirmation := gameText(h.deps, "level_confirmed.txt", "✅ Your level is set to [LEVEL].")
	send(ctx, h.deps, c.chatID, strings.ReplaceAll(confirmation, "[LEVEL]", level), nil)

	atmosphere := gameText(h.deps, "atmospheric_start.txt", "It is a cold December night in the city.")
	start := telegram.Single("🕵️ Start Investigation!", callbackdata.New(callbackdata.CaseIntro, "begin"))
	sendImage(ctx, h.deps, c.chatID, atmosphereImage, atmosphere, "🌃 ", start)

	logAction(ctx, h.deps, c.userID, sess, "Confirmed language level "+level)
}

func (h callbackHandler) caseIntro(ctx context.Context, c *callback) error {
	sess := c.session

	switch c.data.Sub() {
	case "begin":
		clearKeyboard(ctx, h.deps, c.chatID, c.messageID)
		sess.StartInvestigation(h.deps.now())
		scheduleReminder(h.deps, c.userID, sess)
		h.deps.Sessions.Save(ctx, c.userID)

		call := gameText(h.deps, "case_intro_1_call.txt", "📞 THE EMERGENCY CALL\n\nFiona called 911 in a panic about Alex being unconscious.")
		send(ctx, h.deps, c.chatID, call, telegram.Single("What happened?", callbackdata.New(callbackdata.CaseIntro, "situation")))

	case "situation":
		situation := gameText(h.deps, "case_intro_2_situation.txt", "📍 THE SITUATION\n\nAlex was found unconscious in his bathroom after a Christmas party.")
		send(ctx, h.deps, c.chatID, situation, telegram.Single("Who was there?", callbackdata.New(callbackdata.CaseIntro, "suspects")))
		clearKeyboard(ctx, h.deps, c.chatID, c.messageID)

	case "suspects":
		suspects := gameText(h.deps, "case_intro_3_suspects.txt", "👥 FOUR PEOPLE ARE IN THE APARTMENT\n\nNobody can leave until you complete your investigation.")
		sendImage(ctx, h.deps, c.chatID, suspectsImage, suspects, "", nil)
		clearKeyboard(ctx, h.deps, c.chatID, c.messageID)
		sendPlain(ctx, h.deps, c.chatID, "🧩 Ready to start the game?", telegram.Single("🎮 How to play?", callbackdata.New(callbackdata.CaseIntro, "how_to_play")))

	case "how_to_play":
		clearKeyboard(ctx, h.deps, c.chatID, c.messageID)
		send(ctx, h.deps, c.chatID, gameText(h.deps, "onboarding_3_howtoplay.txt", "💬 Type questions to the suspects and use the menus below."), nil)
		sendPlain(ctx, h.deps, c.chatID, "Game menu and language learning options are now available on the panel below 👇", telegram.MainKeyboard())
		sess.OnboardingStep = game.StepInvestigation

	default:
		return unknownSub(c)
	}
	return nil
}
