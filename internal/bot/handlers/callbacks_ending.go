package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const caseClosed = "🎭 The case is now closed. Thank you for playing!"

// revealStep is one page of the case solution.
type revealStep struct {
	file   string
	button string
}

var revealSteps = []revealStep{
	{file: "reveal_1_truth.txt", button: "So was it Pauline?"},
	{file: "reveal_2_killer.txt", button: "Show me the evidence"},
	{file: "reveal_3_evidence.txt", button: "How it happened?"},
	{file: "reveal_4_timeline.txt", button: "Ok, but why?"},
	{file: "reveal_5_motive.txt"},
}

func finalReportKeyboard() *models.InlineKeyboardMarkup {
	return telegram.Single(finalReportBtn, callbackdata.New(callbackdata.Final, "report"))
}

func (h callbackHandler) reveal(ctx context.Context, c *callback) error {
	sess := c.session
	switch c.data.Sub() {
	case "next":
		sess.RevealStep++
	default:
		sess.RevealStep = 0
	}
	if sess.RevealStep == 0 {
		logAction(ctx, h.deps, c.userID, sess, "Started case reveal")
	}
	defer h.deps.Sessions.Save(ctx, c.userID)

	if sess.RevealStep >= len(revealSteps) {
		edit(ctx, h.deps, c.chatID, c.messageID, caseClosed, nil)
		return nil
	}

	step := revealSteps[sess.RevealStep]
	text, err := h.deps.Content.Load(content.GameText(step.file))
	if err != nil || strings.TrimSpace(text) == "" {
		h.deps.Logger.ErrorContext(ctx, "Failed to load reveal text", "file", step.file, "error", err)
		edit(ctx, h.deps, c.chatID, c.messageID, caseClosed, nil)
		return nil
	}

	if step.button != "" {
		edit(ctx, h.deps, c.chatID, c.messageID, text, telegram.Single(step.button, callbackdata.New(callbackdata.Reveal, "next")))
		return nil
	}

	edit(ctx, h.deps, c.chatID, c.messageID, text, nil)
	questionnaire := gameText(h.deps, "outro_questionnaire.txt", "📝 Please take a moment to fill in the final questionnaire.")
	send(ctx, h.deps, c.chatID, questionnaire, finalReportKeyboard())
	return nil
}

func (h callbackHandler) revealCustom(ctx context.Context, c *callback) error {
	sess := c.session
	sess.CustomRevealStep = 0
	logAction(ctx, h.deps, c.userID, sess, "Started short case reveal")

	truth, err := h.deps.Content.Load(content.GameText(revealSteps[0].file))
	if err != nil || strings.TrimSpace(truth) == "" {
		h.deps.Logger.ErrorContext(ctx, "Failed to load reveal text", "file", revealSteps[0].file, "error", err)
		edit(ctx, h.deps, c.chatID, c.messageID, caseClosed, finalReportKeyboard())
		h.deps.Sessions.Save(ctx, c.userID)
		return nil
	}
	edit(ctx, h.deps, c.chatID, c.messageID, truth, nil)

	pause(ctx, h.deps.Config.Game.StepDelay)

	sess.CustomRevealStep = 1
	motive := gameText(h.deps, revealSteps[len(revealSteps)-1].file, caseClosed)
	send(ctx, h.deps, c.chatID, motive, finalReportKeyboard())
	h.deps.Sessions.Save(ctx, c.userID)
	return nil
}

func (h callbackHandler) restart(ctx context.Context, c *callback) error {
	if c.data.Sub() != "game" {
		return unknownSub(c)
	}
	clearKeyboard(ctx, h.deps, c.chatID, c.messageID)
	restartGame(ctx, h.deps, c.chatID, c.userID)
	return nil
}

// final sends the closing report and then forgets the player entirely.
func (h callbackHandler) final(ctx context.Context, c *callback) error {
	if c.data.Sub() != "report" {
		return unknownSub(c)
	}
	sess := c.session
	logAction(ctx, h.deps, c.userID, sess, "Requested final English report")

	rec := h.deps.Progress.Get(ctx, c.userID, sess.ParticipantCode)

	stop := h.deps.Messenger.KeepTyping(ctx, c.chatID)
	summary := h.deps.Gateway.TutorFinalSummary(ctx, c.userID, rec)
	stop()

	if _, err := h.deps.Messenger.SendHTML(ctx, c.chatID, FinalReport(summary.Summary, rec), nil); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send final report", "error", err, "user_id", c.userID)
	}

	h.deps.Reminders.Cancel(c.userID)
	h.deps.Sessions.Delete(ctx, c.userID)
	h.deps.Progress.Clear(ctx, c.userID, sess.ParticipantCode)
	h.deps.Gateway.ClearHistory(c.userID)
	h.deps.Logger.InfoContext(ctx, "Game data cleared after final report", "user_id", c.userID, "outcome", outcomeOf(sess))

	edit(ctx, h.deps, c.chatID, c.messageID, h.deps.Config.Messages.Farewell, nil)
	return nil
}

func outcomeOf(sess *game.Session) string {
	if sess.AccusedCharacter == game.Culprit {
		return game.OutcomeWin.String()
	}
	return game.OutcomeLose.String()
}
