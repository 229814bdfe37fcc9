package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ScenePlanner plans a scene for a public-mode message. It returns the raw
// model output; the resolver parses and validates it.
type ScenePlanner interface {
	Direct(ctx context.Context, userID int64, topicMemory, text string) (string, error)
}

// Source tells where a resolution came from.
type Source string

const (
	SourceNone     Source = "none"
	SourcePrivate  Source = "private"
	SourceReply    Source = "reply"
	SourceShortcut Source = "shortcut"
	SourceDirector Source = "director"
)

// Resolution is the ordered list of actions to render for one message.
type Resolution struct {
	Actions  []SceneAction
	Source   Source
	TopicKey string
}

// Resolver turns player text into scene actions and keeps the session's
// topic bookkeeping current.
type Resolver struct {
	shortcuts *Shortcuts
	director  ScenePlanner
	logger    *slog.Logger
}

// NewResolver wires the shortcut table and the director.
func NewResolver(shortcuts *Shortcuts, director ScenePlanner, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		shortcuts: shortcuts,
		director:  director,
		logger:    logger.With("component", "resolver"),
	}
}

// PrivateTrigger is the prompt a character answers in a one-to-one talk.
func PrivateTrigger(text, topic string) string {
	if topic == "" {
		topic = "None"
	}
	return fmt.Sprintf("The detective is asking you a question: '%s'. Current topic: %s. Respond as your character.", text, topic)
}

// Resolve decides how the game answers text. Private conversations go
// straight to the current character. Public messages try the shortcut table
// first and fall back to the director; director failures yield no actions.
func (r *Resolver) Resolve(ctx context.Context, userID int64, s *Session, text string) Resolution {
	if s.Mode == ModePrivate && s.CurrentCharacter != "" {
		s.MarkInterrogated(s.CurrentCharacter)
		s.CheckUnlockAccuse()
		return Resolution{
			Actions: []SceneAction{CharacterReplyAction{
				CharacterKey: s.CurrentCharacter,
				Trigger:      PrivateTrigger(text, s.TopicMemory.Topic),
			}},
			Source: SourcePrivate,
		}
	}

	if scene, key, ok := r.shortcuts.Dispatch(&s.TopicMemory, text); ok {
		markSpoken(&s.TopicMemory, scene.Actions)
		r.logger.DebugContext(ctx, "Answered from shortcut table", "user_id", userID, "topic_key", key, "actions", len(scene.Actions))
		return Resolution{Actions: scene.Actions, Source: SourceShortcut, TopicKey: key}
	}

	if r.director == nil {
		return Resolution{Source: SourceNone}
	}

	memory, err := json.Marshal(s.TopicMemory)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to encode topic memory", "user_id", userID, "error", err)
		return Resolution{Source: SourceNone}
	}

	raw, err := r.director.Direct(ctx, userID, string(memory), text)
	if err != nil {
		r.logger.WarnContext(ctx, "Director call failed, skipping scene", "user_id", userID, "error", err)
		return Resolution{Source: SourceNone}
	}

	scene, err := ParseScene(raw)
	if err != nil {
		r.logger.WarnContext(ctx, "Director output rejected, skipping scene", "user_id", userID, "error", err)
		return Resolution{Source: SourceNone}
	}

	s.TopicMemory.SetTopic(scene.NewTopic)
	markSpoken(&s.TopicMemory, scene.Actions)
	return Resolution{Actions: scene.Actions, Source: SourceDirector}
}

// ReplyToCharacter answers a Telegram reply to one of key's messages with
// key alone.
func (r *Resolver) ReplyToCharacter(s *Session, key, quoted, text string) Resolution {
	trigger := fmt.Sprintf("The detective is replying to what you said: '%s'. The detective says: '%s'. Respond as your character.", quoted, text)
	if s.Mode == ModePrivate {
		s.MarkInterrogated(key)
		s.CheckUnlockAccuse()
	}
	s.TopicMemory.MarkSpoken(key)
	return Resolution{
		Actions: []SceneAction{CharacterReplyAction{CharacterKey: key, Trigger: trigger}},
		Source:  SourceReply,
	}
}

func markSpoken(tm *TopicMemory, actions []SceneAction) {
	for _, a := range actions {
		if key := SpeakerOf(a); key != "" {
			tm.MarkSpoken(key)
		}
	}
}
