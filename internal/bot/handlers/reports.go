package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const (
	noProgressYet     = "You don't have any saved progress yet!"
	backToLanguageBtn = "⬅️ Back to Language Menu"
	finalReportBtn    = "📊 See Your Final English Report"
)

func writeWords(sb *strings.Builder, entries []progress.Entry) {
	for _, e := range entries {
		fmt.Fprintf(sb, "• <code>%s</code>: <tg-spoiler>%s</tg-spoiler>\n", html.EscapeString(e.Query), html.EscapeString(e.Feedback))
	}
	sb.WriteString("\n")
}

func writeFeedback(sb *strings.Builder, entries []progress.Entry) {
	for _, e := range entries {
		fmt.Fprintf(sb, "📖 <i>You wrote:</i> %s\n", html.EscapeString(e.Query))
		fmt.Fprintf(sb, "✅ <b>My suggestion:</b> %s\n\n", html.EscapeString(e.Feedback))
	}
}

// ProgressReport renders the in-game progress report as Telegram HTML.
func ProgressReport(rec progress.Record) string {
	var sb strings.Builder
	sb.WriteString("--- \n<b>Your Progress Report</b>\n---\n\n")
	if len(rec.WordsLearned) > 0 {
		sb.WriteString("<b>Words You've Learned:</b>\n")
		writeWords(&sb, rec.WordsLearned)
	}
	if len(rec.WritingFeedback) > 0 {
		sb.WriteString("<b>My Feedback on Your Phrases:</b>\n")
		writeFeedback(&sb, rec.WritingFeedback)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FinalReport renders the end-of-game report: the tutor's summary followed
// by everything recorded.
func FinalReport(summary string, rec progress.Record) string {
	var sb strings.Builder
	sb.WriteString("--- \n<b>🎓 Your Final English Report</b>\n---\n\n")
	sb.WriteString("<b>📝 Your Teacher's Summary:</b>\n")
	fmt.Fprintf(&sb, "<i>%s</i>\n\n", html.EscapeString(summary))
	sb.WriteString("<b>📊 Detailed Progress:</b>\n\n")

	if rec.Empty() {
		sb.WriteString("🎯 <b>Excellent Performance!</b>\n")
		sb.WriteString("• No grammar errors that needed correction\n")
		sb.WriteString("• No unfamiliar words encountered\n")
		sb.WriteString("• Demonstrated strong English comprehension\n")
		return sb.String()
	}

	if len(rec.WordsLearned) > 0 {
		fmt.Fprintf(&sb, "<b>🔤 Words You've Learned (%d):</b>\n", len(rec.WordsLearned))
		writeWords(&sb, rec.WordsLearned)
	}
	if len(rec.WritingFeedback) > 0 {
		fmt.Fprintf(&sb, "<b>✍️ My Feedback on Your Phrases (%d):</b>\n", len(rec.WritingFeedback))
		writeFeedback(&sb, rec.WritingFeedback)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// sendProgressReport shows the player's progress. From the learning menu a
// back button follows the report.
func sendProgressReport(ctx context.Context, deps HandlerDeps, chatID, userID int64, sess *game.Session, withBack bool) {
	rec := deps.Progress.Get(ctx, userID, sess.ParticipantCode)
	if rec.Empty() {
		if withBack {
			sendPlain(ctx, deps, chatID, noProgressYet, backToLanguageMenu())
		} else {
			sendPlain(ctx, deps, chatID, noProgressYet, nil)
		}
		return
	}

	if _, err := deps.Messenger.SendHTML(ctx, chatID, ProgressReport(rec), nil); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send progress report", "error", err, "user_id", userID)
		return
	}
	if withBack {
		sendPlain(ctx, deps, chatID, "What's next?", backToLanguageMenu())
	}
}

func backToLanguageMenu() *models.InlineKeyboardMarkup {
	return telegram.Single(backToLanguageBtn, callbackdata.New(callbackdata.LanguageMenu, "back"))
}
