package handlers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const commonSpaceFallback = "You are in the main room. Everyone is present."

func (h callbackHandler) clue(ctx context.Context, c *callback) error {
	n, err := c.data.IntArg(0)
	if err != nil || n < 1 || n > game.TotalClues {
		return unknownSub(c)
	}
	id := c.data.Sub()
	sess := c.session

	logAction(ctx, h.deps, c.userID, sess, "Examined clue "+id)
	sess.ExamineClue(id)
	if sess.CheckUnlockAccuse() {
		h.deps.Logger.InfoContext(ctx, "Accusation unlocked", "user_id", c.userID)
	}
	h.deps.Sessions.Save(ctx, c.userID)

	sendImage(ctx, h.deps, c.chatID, "clue"+id+".png", "", "", nil)

	text := gameText(h.deps, "Clue"+id+".txt", "🗂️ The file for this clue is empty.")
	sendExplainable(ctx, h.deps, c.chatID, text, text, "")
	return nil
}

func (h callbackHandler) talk(ctx context.Context, c *callback) error {
	key := c.data.Sub()
	if !game.IsSuspect(key) {
		return unknownSub(c)
	}
	character, _ := game.LookupCharacter(key)
	sess := c.session

	sess.EnterPrivate(key)
	logAction(ctx, h.deps, c.userID, sess, "Started private talk with "+character.FullName)

	stop := h.deps.Messenger.KeepTyping(ctx, c.chatID)
	prompt := h.deps.Content.CharacterPrompt(game.Narrator, string(sess.LanguageLevel))
	description := h.deps.Gateway.Dialogue(ctx, c.userID, fmt.Sprintf("Describe taking %s aside for a private talk.", character.FullName), prompt, game.Narrator)
	stop()

	deleteMessage(ctx, h.deps, c.chatID, c.messageID)
	sendExplainable(ctx, h.deps, c.chatID, telegram.NarratorLine(description), description, "")
	h.deps.ChatLog.Append(ctx, c.userID, sess.ParticipantCode, game.Narrator, description)
	h.deps.Sessions.Save(ctx, c.userID)
	return nil
}

func (h callbackHandler) mode(ctx context.Context, c *callback) error {
	if c.data.Sub() != "public" {
		return unknownSub(c)
	}
	sess := c.session
	sess.EnterPublic()

	phrase := commonSpaceFallback
	if lines, err := h.deps.Content.Lines(content.GameText("common_space.txt")); err == nil && len(lines) > 0 {
		phrase = lines[rand.IntN(len(lines))]
	} else if err != nil {
		h.deps.Logger.WarnContext(ctx, "Common space phrases unavailable", "error", err)
	}

	sendExplainable(ctx, h.deps, c.chatID, telegram.NarratorLine(phrase), phrase, "")
	h.deps.ChatLog.Append(ctx, c.userID, sess.ParticipantCode, game.Narrator, phrase)
	deleteMessage(ctx, h.deps, c.chatID, c.messageID)
	return nil
}

func accuseKeyboard() *models.InlineKeyboardMarkup {
	var buttons []models.InlineKeyboardButton
	for _, s := range game.Suspects() {
		buttons = append(buttons, telegram.Button(fmt.Sprintf("%s Accuse %s", s.Emoji, s.FullName), callbackdata.New(callbackdata.Accuse, "confirm", s.Key)))
	}
	buttons = append(buttons, telegram.Button("⬅️ Nevermind, go back", callbackdata.New(callbackdata.Menu, "main")))
	return telegram.Column(buttons...)
}

func (h callbackHandler) accuse(ctx context.Context, c *callback) error {
	sess := c.session
	unlocked := gameText(h.deps, "accuse_unlocked.txt", "☝️ Who attacked Alex?")

	switch c.data.Sub() {
	case "init":
		logAction(ctx, h.deps, c.userID, sess, "Clicked 'Make an Accusation' button")
		ready, missing := sess.ReadyToAccuse()
		if ready {
			edit(ctx, h.deps, c.chatID, c.messageID, unlocked, accuseKeyboard())
			return nil
		}
		warning := gameText(h.deps, "accuse_warning.txt", "⚠️ Are you sure? {missing_info}")
		kb := telegram.Column(
			telegram.Button("Yes, I'm sure - Make Accusation", callbackdata.New(callbackdata.Accuse, "force")),
			telegram.Button("You're right, let me investigate more", callbackdata.New(callbackdata.Menu, "main")),
		)
		edit(ctx, h.deps, c.chatID, c.messageID, strings.ReplaceAll(warning, "{missing_info}", missing), kb)

	case "force":
		logAction(ctx, h.deps, c.userID, sess, "Insisted on making accusation despite warning")
		edit(ctx, h.deps, c.chatID, c.messageID, unlocked, accuseKeyboard())

	case "confirm":
		return h.confirmAccusation(ctx, c, c.data.Arg(1))

	default:
		return unknownSub(c)
	}
	return nil
}

func (h callbackHandler) confirmAccusation(ctx context.Context, c *callback, key string) error {
	if !game.IsSuspect(key) {
		return unknownSub(c)
	}
	sess := c.session
	accused, _ := game.LookupCharacter(key)
	logAction(ctx, h.deps, c.userID, sess, "Confirmed accusation against "+accused.FullName)

	attempt := ""
	if n := sess.AccusationAttempts + 1; n > 1 {
		attempt = fmt.Sprintf(" (Attempt %d/%d)", n, game.MaxAccusations)
	}
	edit(ctx, h.deps, c.chatID, c.messageID, fmt.Sprintf("🎙️ _All eyes turn to %s, the person you've just accused of attacking Alex.%s_", accused.FullName, attempt), nil)

	outcome, err := sess.Accuse(key)
	if err != nil {
		return fmt.Errorf("accuse %s: %w", key, err)
	}
	h.deps.Sessions.Save(ctx, c.userID)
	h.deps.Logger.InfoContext(ctx, "Accusation resolved", "user_id", c.userID, "accused", key, "outcome", outcome.String(), "attempts", sess.AccusationAttempts)

	pause(ctx, h.deps.Config.Game.StepDelay)

	if outcome == game.OutcomeWin {
		h.deps.Reminders.Cancel(c.userID)
		h.deps.Metrics.GamesFinished.WithLabelValues(outcome.String()).Inc()
		kb := telegram.Column(
			telegram.Button("🕵️ Find out more", callbackdata.New(callbackdata.RevealCustom, "start")),
			telegram.Button(finalReportBtn, callbackdata.New(callbackdata.Final, "report")),
		)
		send(ctx, h.deps, c.chatID, gameText(h.deps, "outro_win.txt", "🎉 You solved the case!"), kb)
		return nil
	}

	send(ctx, h.deps, c.chatID, gameText(h.deps, "defense_"+key+".txt", fmt.Sprintf("%s %s insists they are innocent.", accused.Emoji, accused.FullName)), nil)

	if outcome == game.OutcomeLose {
		h.deps.Reminders.Cancel(c.userID)
		h.deps.Metrics.GamesFinished.WithLabelValues(outcome.String()).Inc()
		pause(ctx, 2*h.deps.Config.Game.StepDelay)
		kb := telegram.Column(
			telegram.Button("📖 Yes, show me", callbackdata.New(callbackdata.Reveal, "start")),
			telegram.Button("🔄 Start again", callbackdata.New(callbackdata.Restart, "game")),
		)
		send(ctx, h.deps, c.chatID, gameText(h.deps, "outro_lose.txt", "❌ The case remains unsolved. Do you want to know what really happened?"), kb)
		return nil
	}

	pause(ctx, h.deps.Config.Game.StepDelay)
	kb := telegram.Column(
		telegram.Button("🔄 Make Another Accusation", callbackdata.New(callbackdata.Accuse, "init")),
		telegram.Button("🔍 Continue Investigation", callbackdata.New(callbackdata.Menu, "main")),
	)
	sendPlain(ctx, h.deps, c.chatID, "What would you like to do next?", kb)
	return nil
}
