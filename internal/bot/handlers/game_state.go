package handlers

import (
	"context"
	"time"

	"github.com/lingosleuth/detectivebot/internal/callbackdata"
	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

const consentButton = "📝 Questionnaire done, let's get started!"

// restoreSession returns the user's session, loading it from storage when it
// is not in memory. With notify set, a short notice is shown while storage
// is read. A restored session gets its pending reminder back.
func restoreSession(ctx context.Context, deps HandlerDeps, chatID, userID int64, notify bool) (*game.Session, bool) {
	if deps.Sessions.Cached(userID) {
		return deps.Sessions.Get(ctx, userID)
	}

	var notice int
	if notify {
		if msg, err := deps.Messenger.SendPlain(ctx, chatID, deps.Config.Messages.Restoring, nil); err == nil {
			notice = msg.ID
		}
	}

	sess, ok := deps.Sessions.Get(ctx, userID)

	if notice != 0 {
		if err := deps.Messenger.Delete(ctx, chatID, notice); err != nil {
			deps.Logger.DebugContext(ctx, "Failed to delete restoring notice", "error", err, "chat_id", chatID)
		}
	}
	if !ok {
		return nil, false
	}

	deps.Logger.InfoContext(ctx, "Restored game state from storage", "user_id", userID)
	scheduleReminder(deps, userID, sess)
	return sess, true
}

// activeSession is restoreSession for menu entry points: it tells the user
// when there is nothing to show.
func activeSession(ctx context.Context, deps HandlerDeps, chatID, userID int64) (*game.Session, bool) {
	sess, ok := restoreSession(ctx, deps, chatID, userID, true)
	if !ok {
		sendPlain(ctx, deps, chatID, deps.Config.Messages.NoActiveGame, nil)
		return nil, false
	}
	if sess.GameCompleted {
		sendPlain(ctx, deps, chatID, deps.Config.Messages.GameCompleted, nil)
		return nil, false
	}
	return sess, true
}

func scheduleReminder(deps HandlerDeps, userID int64, sess *game.Session) {
	if at, ok := sess.ReminderDue(deps.Config.Game.PostTestDelay); ok {
		deps.Reminders.Schedule(userID, at)
	}
}

// resetGame throws away everything stored for the user and starts a new
// session at the consent step.
func resetGame(ctx context.Context, deps HandlerDeps, userID int64) *game.Session {
	deps.Reminders.Cancel(userID)

	if old, ok := deps.Sessions.Get(ctx, userID); ok {
		deps.Progress.Clear(ctx, userID, old.ParticipantCode)
	}
	deps.Progress.Clear(ctx, userID, "")
	deps.Sessions.Delete(ctx, userID)
	deps.Gateway.ClearHistory(userID)

	sess := game.NewSession()
	deps.Sessions.Put(userID, sess)
	deps.Sessions.Save(ctx, userID)
	return sess
}

// gameText reads a narrative text file, or fallback when it is missing.
func gameText(deps HandlerDeps, name, fallback string) string {
	return deps.Content.TextOr(content.GameText(name), fallback)
}

func sendConsent(ctx context.Context, deps HandlerDeps, chatID int64) {
	text := gameText(deps, "onboarding_1_consent.txt", "👋 Welcome, detective! Please complete the consent questionnaire first.")
	send(ctx, deps, chatID, text, telegram.Single(consentButton, callbackdata.New(callbackdata.Onboarding, "step2")))
}

func logAction(ctx context.Context, deps HandlerDeps, userID int64, sess *game.Session, text string) {
	deps.ChatLog.Append(ctx, userID, sess.ParticipantCode, progress.RoleUserAction, text)
}

// pause waits d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
