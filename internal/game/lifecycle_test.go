package game_test

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/lingosleuth/detectivebot/internal/game"
)

func TestParseParticipantCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "AN0842", want: "AN0842", wantOK: true},
		{input: "  an3199 ", want: "AN3199", wantOK: true},
		{input: "test", want: "TEST", wantOK: true},
		{input: "AN0042", wantOK: false},
		{input: "AN3242", wantOK: false},
		{input: "A10842", wantOK: false},
		{input: "AN084", wantOK: false},
		{input: "AN08421", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tc := range testCases {
		got, ok := game.ParseParticipantCode(tc.input)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseParticipantCode(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestLevelTransitions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level  game.Level
		easier game.Level
		harder game.Level
	}{
		{level: game.LevelA2, easier: game.LevelA2, harder: game.LevelB1},
		{level: game.LevelB1, easier: game.LevelA2, harder: game.LevelB2},
		{level: game.LevelB2, easier: game.LevelB1, harder: game.LevelB2},
	}

	for _, tc := range testCases {
		if got := tc.level.Easier(); got != tc.easier {
			t.Errorf("%s.Easier() = %s, want %s", tc.level, got, tc.easier)
		}
		if got := tc.level.Harder(); got != tc.harder {
			t.Errorf("%s.Harder() = %s, want %s", tc.level, got, tc.harder)
		}
	}
	if game.Level("C1").Valid() {
		t.Error("C1 should not be a valid level")
	}
}

func TestAccuse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		attempts      int
		suspect       string
		want          game.Outcome
		wantCompleted bool
		wantAttempts  int
	}{
		{name: "culprit wins", suspect: game.Tim, want: game.OutcomeWin, wantCompleted: true, wantAttempts: 1},
		{name: "first wrong guess retries", suspect: game.Pauline, want: game.OutcomeRetry, wantAttempts: 1},
		{name: "second wrong guess loses", attempts: 1, suspect: game.Fiona, want: game.OutcomeLose, wantCompleted: true, wantAttempts: 2},
		{name: "culprit on second attempt wins", attempts: 1, suspect: game.Tim, want: game.OutcomeWin, wantCompleted: true, wantAttempts: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := game.NewSession()
			s.AccusationAttempts = tc.attempts

			got, err := s.Accuse(tc.suspect)
			if err != nil {
				t.Fatalf("Accuse() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Accuse() = %s, want %s", got, tc.want)
			}
			if s.GameCompleted != tc.wantCompleted {
				t.Errorf("GameCompleted = %v, want %v", s.GameCompleted, tc.wantCompleted)
			}
			if s.AccusationAttempts != tc.wantAttempts {
				t.Errorf("AccusationAttempts = %d, want %d", s.AccusationAttempts, tc.wantAttempts)
			}
			if tc.wantCompleted && s.OnboardingStep != game.StepCompleted {
				t.Errorf("OnboardingStep = %s, want completed", s.OnboardingStep)
			}
			if !tc.wantCompleted && s.AccusedCharacter != "" {
				t.Errorf("AccusedCharacter = %q, want reset", s.AccusedCharacter)
			}
		})
	}
}

func TestAccuseRejectsInvalid(t *testing.T) {
	t.Parallel()

	s := game.NewSession()
	if _, err := s.Accuse(game.Tutor); !errors.Is(err, game.ErrNotSuspect) {
		t.Errorf("Accuse(tutor) error = %v, want ErrNotSuspect", err)
	}

	s.GameCompleted = true
	if _, err := s.Accuse(game.Tim); !errors.Is(err, game.ErrGameCompleted) {
		t.Errorf("Accuse() on completed game error = %v, want ErrGameCompleted", err)
	}
}

func TestUnlockAccuse(t *testing.T) {
	t.Parallel()

	s := game.NewSession()
	for _, id := range []string{"1", "2", "3", "4"} {
		s.ExamineClue(id)
	}
	if s.ExamineClue("1") {
		t.Error("re-examining a clue should not count as new")
	}

	ready, msg := s.ReadyToAccuse()
	if ready {
		t.Fatal("ReadyToAccuse() = true before any interrogation")
	}
	if !strings.Contains(msg, "4 more suspects") {
		t.Errorf("ReadyToAccuse() message = %q, want missing suspects", msg)
	}

	for _, k := range game.SuspectKeys {
		s.MarkInterrogated(k)
	}
	if !s.CheckUnlockAccuse() {
		t.Error("CheckUnlockAccuse() = false, want true after full investigation")
	}
	if s.CheckUnlockAccuse() {
		t.Error("CheckUnlockAccuse() should unlock only once")
	}
}

func TestSessionJSONRoundTrip(t *testing.T) {
	t.Parallel()

	s := game.NewSession()
	s.ExamineClue("3")
	s.ExamineClue("1")
	s.MarkInterrogated(game.Ronnie)
	s.StartInvestigation(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"clues_examined":["1","3"]`) {
		t.Errorf("clues should encode as a sorted list: %s", data)
	}

	var got game.Session
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !slices.Equal(got.CluesExamined.Sorted(), []string{"1", "3"}) {
		t.Errorf("CluesExamined = %v, want [1 3]", got.CluesExamined.Sorted())
	}
	if !got.SuspectsInterrogated.Has(game.Ronnie) {
		t.Error("SuspectsInterrogated lost ronnie")
	}
	if got.GameStartTime == nil || !got.GameStartTime.Equal(*s.GameStartTime) {
		t.Errorf("GameStartTime = %v, want %v", got.GameStartTime, s.GameStartTime)
	}
}

func TestSessionNormalize(t *testing.T) {
	t.Parallel()

	var s game.Session
	if err := json.Unmarshal([]byte(`{"current_language_level":"Z9"}`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	s.Normalize()

	if s.Mode != game.ModePublic {
		t.Errorf("Mode = %q, want public", s.Mode)
	}
	if s.LanguageLevel != game.DefaultLevel {
		t.Errorf("LanguageLevel = %q, want %q", s.LanguageLevel, game.DefaultLevel)
	}
	if s.CluesExamined == nil || s.TopicMemory.Spoken == nil {
		t.Error("Normalize() should allocate empty collections")
	}
}

func TestReminderDue(t *testing.T) {
	t.Parallel()

	s := game.NewSession()
	if _, ok := s.ReminderDue(time.Hour); ok {
		t.Error("no reminder before the game starts")
	}

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.StartInvestigation(start)
	due, ok := s.ReminderDue(time.Hour)
	if !ok || !due.Equal(start.Add(time.Hour)) {
		t.Errorf("ReminderDue() = (%v, %v), want (%v, true)", due, ok, start.Add(time.Hour))
	}

	s.PostTestSent = true
	if _, ok := s.ReminderDue(time.Hour); ok {
		t.Error("no reminder once the post-test was sent")
	}
}
