package llm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fallback replies used when a response is rejected.
const (
	NarratorFallback  = "*The scene continues...*"
	CharacterFallback = "Hmm, let me think about that for a moment..."
	GenericFallback   = "I'm not sure how to respond to that."
)

// Rejection reasons, also used as metric labels.
const (
	ReasonEmpty          = "empty"
	ReasonTooLong        = "too_long"
	ReasonControlToken   = "control_token"
	ReasonRepeatedWord   = "repeated_word"
	ReasonPunctuationRun = "punctuation_run"
	ReasonLowVariety     = "low_variety"
	ReasonRepeatedPhrase = "repeated_phrase"
	ReasonLongWords      = "long_words"
	ReasonTruncated      = "truncated"
)

const (
	maxRunes           = 4000
	severeRunes        = 8000
	varietyCheckRunes  = 1000
	minDistinctRunes   = 12
	maxRepeatedWord    = 8
	maxPunctuationRun  = 10
	phraseCheckWords   = 50
	maxPhraseRepeats   = 5
	wordLengthMinWords = 10
	maxAvgWordLength   = 15
)

var controlTokens = []string{"<|eot_id|>", "[INST]", "[/INST]", "<|im_start|>", "<|im_end|>", "</s>", "<|endoftext|>"}

// Verdict is the outcome of validating one response.
type Verdict struct {
	OK   bool
	Text string
	// ClearHistory is set for corruption severe enough that the dialogue
	// history should not be trusted.
	ClearHistory bool
	Reason       string
}

// Validator screens model output before it reaches the player.
type Validator interface {
	Validate(text, characterKey string) Verdict
}

// ResponseValidator rejects empty, degenerate and runaway output.
type ResponseValidator struct{}

// NewValidator returns the default validator.
func NewValidator() ResponseValidator {
	return ResponseValidator{}
}

// Fallback is the reply shown in place of a rejected response.
func Fallback(characterKey string) string {
	switch characterKey {
	case "":
		return GenericFallback
	case "narrator":
		return NarratorFallback
	default:
		return CharacterFallback
	}
}

// Validate implements Validator. Accepted text is returned as given unless
// it is over the length cap, in which case it is cut at a word boundary.
// Length alone never rejects a response; past severeRunes it only asks for
// the history to be cleared.
func (ResponseValidator) Validate(text, characterKey string) Verdict {
	reject := func(reason string, severe bool) Verdict {
		return Verdict{Text: Fallback(characterKey), Reason: reason, ClearHistory: severe}
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Verdict{Text: GenericFallback, Reason: ReasonEmpty}
	}

	for _, tok := range controlTokens {
		if strings.Contains(trimmed, tok) {
			return reject(ReasonControlToken, true)
		}
	}

	n := utf8.RuneCountInString(trimmed)
	words := strings.Fields(trimmed)
	if hasRepeatedWord(words) {
		return reject(ReasonRepeatedWord, true)
	}
	if hasPunctuationRun(trimmed) {
		return reject(ReasonPunctuationRun, false)
	}
	if n > varietyCheckRunes && distinctRunes(trimmed) < minDistinctRunes {
		return reject(ReasonLowVariety, false)
	}
	if len(words) > phraseCheckWords && hasRepeatedPhrase(words) {
		return reject(ReasonRepeatedPhrase, false)
	}
	if len(words) > wordLengthMinWords && averageWordLength(words) > maxAvgWordLength {
		return reject(ReasonLongWords, false)
	}

	switch {
	case n > severeRunes:
		return Verdict{OK: true, Text: truncateAtWord(trimmed, maxRunes), Reason: ReasonTooLong, ClearHistory: true}
	case n > maxRunes:
		return Verdict{OK: true, Text: truncateAtWord(trimmed, maxRunes), Reason: ReasonTruncated}
	}
	return Verdict{OK: true, Text: text}
}

func hasRepeatedWord(words []string) bool {
	run := 1
	for i := 1; i < len(words); i++ {
		if strings.EqualFold(words[i], words[i-1]) {
			run++
			if run >= maxRepeatedWord {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func hasPunctuationRun(s string) bool {
	run := 0
	for _, r := range s {
		if unicode.IsPunct(r) {
			run++
			if run >= maxPunctuationRun {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

func distinctRunes(s string) int {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

func hasRepeatedPhrase(words []string) bool {
	counts := make(map[string]int)
	for i := 0; i+2 < len(words); i++ {
		key := strings.ToLower(words[i] + " " + words[i+1] + " " + words[i+2])
		counts[key]++
		if counts[key] > maxPhraseRepeats {
			return true
		}
	}
	return false
}

func averageWordLength(words []string) float64 {
	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w)
	}
	return float64(total) / float64(len(words))
}

// truncateAtWord cuts s to at most limit runes, preferring a word boundary,
// and marks the cut with an ellipsis.
func truncateAtWord(s string, limit int) string {
	const ellipsis = "..."
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := runes[:limit-len(ellipsis)]
	if i := strings.LastIndexFunc(string(cut), unicode.IsSpace); i > 0 {
		return strings.TrimRightFunc(string(cut)[:i], unicode.IsSpace) + ellipsis
	}
	return string(cut) + ellipsis
}
