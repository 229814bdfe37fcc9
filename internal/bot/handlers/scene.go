package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/progress"
	"github.com/lingosleuth/detectivebot/internal/telegram"
)

// playScene renders actions in order, pausing between them.
func playScene(ctx context.Context, deps HandlerDeps, chatID, userID int64, sess *game.Session, actions []game.SceneAction) {
	log := deps.Logger.With("user_id", userID)
	for i, action := range actions {
		if i > 0 && !pause(ctx, deps.Config.Game.SceneDelay) {
			log.WarnContext(ctx, "Scene interrupted", "played", i, "total", len(actions))
			return
		}

		switch a := action.(type) {
		case game.NarrateAction:
			send(ctx, deps, chatID, telegram.DirectorNote(a.Message), nil)
			deps.ChatLog.Append(ctx, userID, sess.ParticipantCode, progress.RoleDirector, a.Message)
		case game.CharacterReplyAction:
			speak(ctx, deps, chatID, userID, sess, a.CharacterKey, a.Trigger)
		case game.CharacterReactionAction:
			speak(ctx, deps, chatID, userID, sess, a.CharacterKey, a.Trigger)
		default:
			log.WarnContext(ctx, "Skipping unknown scene action", "type", fmt.Sprintf("%T", action))
		}
	}
}

// speak asks the model for a character's line and sends it with an explain
// button.
func speak(ctx context.Context, deps HandlerDeps, chatID, userID int64, sess *game.Session, key, trigger string) {
	c, ok := game.LookupCharacter(key)
	if !ok {
		deps.Logger.WarnContext(ctx, "Scene names unknown character", "user_id", userID, "character", key)
		return
	}

	stop := deps.Messenger.KeepTyping(ctx, chatID)
	prompt := deps.Content.CharacterPrompt(key, string(sess.LanguageLevel))
	reply := strings.TrimSpace(deps.Gateway.Dialogue(ctx, userID, trigger, prompt, key))
	stop()

	if reply == "" {
		send(ctx, deps, chatID, telegram.CharacterLine(c, "*[Character is thinking...]*"), nil)
		deps.ChatLog.Append(ctx, userID, sess.ParticipantCode, "character_"+key, c.FullName+" is thinking...")
		return
	}

	sendExplainable(ctx, deps, chatID, telegram.CharacterLine(c, reply), reply, key)
	deps.ChatLog.Append(ctx, userID, sess.ParticipantCode, "character_"+key, reply)
}
