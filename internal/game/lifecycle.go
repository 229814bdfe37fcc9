package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrGameCompleted is returned for gameplay actions on a finished game.
	ErrGameCompleted = errors.New("game already completed")
	// ErrNotSuspect is returned when accusing someone outside the suspect list.
	ErrNotSuspect = errors.New("not a suspect")
)

// MaxAccusations is how many wrong guesses end the game.
const MaxAccusations = 2

// TestParticipantCode lets testers skip the study code.
const TestParticipantCode = "TEST"

// Outcome is the result of an accusation.
type Outcome int

const (
	// OutcomeRetry: wrong suspect, one attempt left.
	OutcomeRetry Outcome = iota
	// OutcomeWin: the culprit was named.
	OutcomeWin
	// OutcomeLose: wrong suspect on the last attempt.
	OutcomeLose
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return "retry"
	}
}

// ParseParticipantCode validates a study participant code: two letters, a day
// of month (01-31) and two digits, e.g. AN0842. TEST is accepted for testers.
// The normalized upper-case code is returned.
func ParseParticipantCode(text string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(text))
	if code == TestParticipantCode {
		return code, true
	}

	runes := []rune(code)
	if len(runes) != 6 {
		return "", false
	}
	for _, r := range runes[:2] {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	for _, r := range runes[2:] {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	day, _ := strconv.Atoi(string(runes[2:4]))
	if day < 1 || day > 31 {
		return "", false
	}
	return code, true
}

// SetParticipantCode stores a validated code and advances onboarding.
func (s *Session) SetParticipantCode(code string) {
	s.ParticipantCode = code
	s.WaitingForParticipantCode = false
	s.OnboardingStep = StepWaitingForLanguage
}

// StartInvestigation records the start of the case.
func (s *Session) StartInvestigation(now time.Time) {
	if s.GameStartTime == nil {
		t := now.UTC()
		s.GameStartTime = &t
	}
	s.OnboardingStep = StepCaseIntro
}

// EnterPrivate starts a one-to-one conversation with a character.
func (s *Session) EnterPrivate(key string) {
	s.Mode = ModePrivate
	s.CurrentCharacter = key
	s.OnboardingStep = StepInvestigation
}

// EnterPublic returns to the group conversation.
func (s *Session) EnterPublic() {
	s.Mode = ModePublic
	s.CurrentCharacter = ""
	s.OnboardingStep = StepInvestigation
}

// ExamineClue records an examined clue and reports whether it was new.
func (s *Session) ExamineClue(id string) bool {
	return s.CluesExamined.Add(id)
}

// MarkInterrogated records that a suspect was questioned.
func (s *Session) MarkInterrogated(key string) bool {
	if !IsSuspect(key) {
		return false
	}
	return s.SuspectsInterrogated.Add(key)
}

func (s *Session) allCluesExamined() bool {
	return len(s.CluesExamined) >= TotalClues
}

func (s *Session) allSuspectsInterrogated() bool {
	return len(s.SuspectsInterrogated) >= len(SuspectKeys)
}

// CheckUnlockAccuse unlocks the accusation once every clue was examined and
// every suspect questioned. It reports whether this call unlocked it.
func (s *Session) CheckUnlockAccuse() bool {
	if s.AccuseUnlocked {
		return false
	}
	if s.allCluesExamined() && s.allSuspectsInterrogated() {
		s.AccuseUnlocked = true
		return true
	}
	return false
}

// ReadyToAccuse reports whether the investigation is complete and, if not,
// what is still missing.
func (s *Session) ReadyToAccuse() (bool, string) {
	if s.allCluesExamined() && s.allSuspectsInterrogated() {
		return true, ""
	}

	var missing []string
	if n := TotalClues - len(s.CluesExamined); n > 0 {
		missing = append(missing, plural(n, "clue"))
	}
	if n := len(SuspectKeys) - len(s.SuspectsInterrogated); n > 0 {
		missing = append(missing, plural(n, "suspect"))
	}
	return false, fmt.Sprintf("You still need to examine %s before making an accusation.", strings.Join(missing, " and "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 more %s", noun)
	}
	return fmt.Sprintf("%d more %ss", n, noun)
}

// Accuse resolves an accusation against key. Naming the culprit wins; a wrong
// guess on the last attempt loses; an earlier wrong guess sends the player
// back to the investigation.
func (s *Session) Accuse(key string) (Outcome, error) {
	if s.GameCompleted {
		return OutcomeRetry, ErrGameCompleted
	}
	if !IsSuspect(key) {
		return OutcomeRetry, fmt.Errorf("%w: %q", ErrNotSuspect, key)
	}

	s.AccusationAttempts++
	s.OnboardingStep = StepAccusation

	if key == Culprit {
		s.AccusedCharacter = key
		s.complete()
		return OutcomeWin, nil
	}

	if s.AccusationAttempts >= MaxAccusations {
		s.AccusedCharacter = key
		s.complete()
		return OutcomeLose, nil
	}

	s.AccusedCharacter = ""
	s.OnboardingStep = StepInvestigation
	return OutcomeRetry, nil
}

func (s *Session) complete() {
	s.GameCompleted = true
	s.OnboardingStep = StepCompleted
	s.Mode = ModePublic
	s.CurrentCharacter = ""
}

// ReminderDue returns when the post-test reminder should fire, and false if
// no reminder is pending.
func (s *Session) ReminderDue(delay time.Duration) (time.Time, bool) {
	if s.GameStartTime == nil || s.PostTestSent || s.GameCompleted {
		return time.Time{}, false
	}
	return s.GameStartTime.Add(delay), true
}
