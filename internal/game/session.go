// Package game holds the detective game's rules: the per-user session record,
// the onboarding and accusation lifecycle, the topic shortcut table and the
// resolver that turns player text into scene actions.
package game

import (
	"encoding/json"
	"slices"
	"time"
)

// Mode is who the player is talking to.
type Mode string

const (
	ModePublic  Mode = "public"
	ModePrivate Mode = "private"
)

// OnboardingStep marks how far the player has progressed through the game.
type OnboardingStep string

const (
	StepConsent            OnboardingStep = "consent"
	StepLinksShown         OnboardingStep = "links_shown"
	StepWaitingForCode     OnboardingStep = "waiting_for_code"
	StepWaitingForLanguage OnboardingStep = "waiting_for_language_selection"
	StepLanguageSelection  OnboardingStep = "language_selection"
	StepCaseIntro          OnboardingStep = "case_intro"
	StepInvestigation      OnboardingStep = "investigation"
	StepAccusation         OnboardingStep = "accusation"
	StepReveal             OnboardingStep = "reveal"
	StepCompleted          OnboardingStep = "completed"
)

// Level is the CEFR level the game text is written for.
type Level string

const (
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
)

// DefaultLevel is where every player starts.
const DefaultLevel = LevelB1

// Valid reports whether l is one of the supported levels.
func (l Level) Valid() bool {
	return l == LevelA2 || l == LevelB1 || l == LevelB2
}

// Easier returns the next easier level, clamped at A2.
func (l Level) Easier() Level {
	switch l {
	case LevelB2:
		return LevelB1
	case LevelB1:
		return LevelA2
	default:
		return LevelA2
	}
}

// Harder returns the next harder level, clamped at B2.
func (l Level) Harder() Level {
	switch l {
	case LevelA2:
		return LevelB1
	case LevelB1:
		return LevelB2
	default:
		return LevelB2
	}
}

// StringSet is a set of keys serialized as a sorted JSON list.
type StringSet map[string]struct{}

// NewStringSet builds a set from items.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Add inserts v and reports whether it was new.
func (s *StringSet) Add(v string) bool {
	if *s == nil {
		*s = make(StringSet)
	}
	if _, ok := (*s)[v]; ok {
		return false
	}
	(*s)[v] = struct{}{}
	return true
}

// Has reports membership.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON encodes the set as a list.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a list into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewStringSet(items...)
	return nil
}

// TopicMemory tracks the free-text topic of the public conversation, who has
// already spoken on it and which shortcut topics were used this session.
type TopicMemory struct {
	Topic          string   `json:"topic"`
	Spoken         []string `json:"spoken"`
	PredefinedUsed []string `json:"predefined_used"`
}

// SetTopic switches to topic and reports whether it changed. Spoken is
// cleared on change; PredefinedUsed is kept.
func (tm *TopicMemory) SetTopic(topic string) bool {
	if topic == "" || topic == tm.Topic {
		return false
	}
	tm.Topic = topic
	tm.Spoken = []string{}
	return true
}

// HasSpoken reports whether key already answered on the current topic.
func (tm *TopicMemory) HasSpoken(key string) bool {
	return slices.Contains(tm.Spoken, key)
}

// MarkSpoken records key as having answered on the current topic.
func (tm *TopicMemory) MarkSpoken(key string) {
	if !tm.HasSpoken(key) {
		tm.Spoken = append(tm.Spoken, key)
	}
}

// PredefinedWasUsed reports whether the shortcut topic already fired.
func (tm *TopicMemory) PredefinedWasUsed(topicKey string) bool {
	return slices.Contains(tm.PredefinedUsed, topicKey)
}

// MarkPredefinedUsed records a fired shortcut topic.
func (tm *TopicMemory) MarkPredefinedUsed(topicKey string) {
	if !tm.PredefinedWasUsed(topicKey) {
		tm.PredefinedUsed = append(tm.PredefinedUsed, topicKey)
	}
}

// Session is the per-user game state.
type Session struct {
	Mode                      Mode           `json:"mode"`
	CurrentCharacter          string         `json:"current_character"`
	WaitingForWord            bool           `json:"waiting_for_word"`
	WaitingForParticipantCode bool           `json:"waiting_for_participant_code"`
	CluesExamined             StringSet      `json:"clues_examined"`
	SuspectsInterrogated      StringSet      `json:"suspects_interrogated"`
	AccuseUnlocked            bool           `json:"accuse_unlocked"`
	AccusationAttempts        int            `json:"accusation_attempts"`
	AccusedCharacter          string         `json:"accused_character"`
	RevealStep                int            `json:"reveal_step"`
	CustomRevealStep          int            `json:"custom_reveal_step"`
	TopicMemory               TopicMemory    `json:"topic_memory"`
	GameCompleted             bool           `json:"game_completed"`
	ParticipantCode           string         `json:"participant_code"`
	OnboardingStep            OnboardingStep `json:"onboarding_step"`
	CurrentIntroMessageID     int            `json:"current_intro_message_id"`
	LanguageLevel             Level          `json:"current_language_level"`
	GameStartTime             *time.Time     `json:"game_start_time,omitempty"`
	PostTestSent              bool           `json:"post_test_sent"`
	MessageCount              int            `json:"message_count"`
}

// NewSession returns a fresh session at the consent step.
func NewSession() *Session {
	return &Session{
		Mode:                 ModePublic,
		CluesExamined:        NewStringSet(),
		SuspectsInterrogated: NewStringSet(),
		TopicMemory:          TopicMemory{Spoken: []string{}, PredefinedUsed: []string{}},
		OnboardingStep:       StepConsent,
		LanguageLevel:        DefaultLevel,
	}
}

// Normalize repairs a session decoded from older or partial snapshots.
func (s *Session) Normalize() {
	if s.Mode == "" {
		s.Mode = ModePublic
	}
	if s.CluesExamined == nil {
		s.CluesExamined = NewStringSet()
	}
	if s.SuspectsInterrogated == nil {
		s.SuspectsInterrogated = NewStringSet()
	}
	if s.TopicMemory.Spoken == nil {
		s.TopicMemory.Spoken = []string{}
	}
	if s.TopicMemory.PredefinedUsed == nil {
		s.TopicMemory.PredefinedUsed = []string{}
	}
	if !s.LanguageLevel.Valid() {
		s.LanguageLevel = DefaultLevel
	}
	if s.OnboardingStep == "" {
		s.OnboardingStep = StepConsent
	}
}
