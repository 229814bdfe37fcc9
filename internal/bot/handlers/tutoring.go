package handlers

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const noDefinition = "Sorry, I couldn't get a definition for that."

// explainText sends the tutor's explanation of subject and records it as a
// learned word.
func explainText(ctx context.Context, deps HandlerDeps, chatID, userID int64, sess *game.Session, subject, original string) {
	stop := deps.Messenger.KeepTyping(ctx, chatID)
	e := deps.Gateway.TutorExplanation(ctx, userID, subject, original)
	stop()

	if strings.TrimSpace(e.Definition) == "" {
		sendPlain(ctx, deps, chatID, noDefinition, nil)
		return
	}

	tutor, _ := game.LookupCharacter(game.Tutor)
	send(ctx, deps, chatID, telegram.TutorExplanation(tutor, subject, e.Definition, e.Examples, e.ContextualExplanation), nil)
	deps.Progress.AddWord(ctx, userID, sess.ParticipantCode, subject, e.Definition)
}

// analyzeInBackground has the tutor check text for mistakes without holding
// up the reply. Findings only go to the progress record.
func analyzeInBackground(deps HandlerDeps, userID int64, code, text string) {
	go func() {
		log := deps.Logger.With("user_id", userID, "task", "writing_analysis")
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from writing analysis panic", "panic", r, "stack", string(debug.Stack()))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Game.AnalysisTimeout)
		defer cancel()

		a := deps.Gateway.TutorAnalysis(ctx, userID, text)
		if !a.ImprovementNeeded || strings.TrimSpace(a.Feedback) == "" {
			return
		}
		deps.ChatLog.Append(ctx, userID, code, progress.RoleTutor, fmt.Sprintf("Logged feedback for: '%s'", text))
		deps.Progress.AddFeedback(ctx, userID, code, text, a.Feedback)
		log.DebugContext(ctx, "Recorded writing feedback")
	}()
}
