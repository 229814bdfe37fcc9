package game

import (
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"
)

var characterNamePatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(SuspectKeys))
	for _, k := range SuspectKeys {
		m[k] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`)
	}
	return m
}()

// NamedCharacter returns the first suspect named in text as a whole word, so
// "time" does not address Tim.
func NamedCharacter(text string) string {
	for _, k := range SuspectKeys {
		if characterNamePatterns[k].MatchString(text) {
			return k
		}
	}
	return ""
}

// Shortcuts answers known topics from the canned table instead of asking the
// director.
type Shortcuts struct {
	topics []Topic
	intn   func(n int) int
}

// NewShortcuts builds a dispatcher over topics. intn picks the speaker for
// StrategyRandomOne; nil uses math/rand.
func NewShortcuts(topics []Topic, intn func(n int) int) *Shortcuts {
	if intn == nil {
		intn = rand.IntN
	}
	return &Shortcuts{topics: topics, intn: intn}
}

// Match finds the topic for text. Keywords match as case-insensitive
// substrings; when several topics match, the longest matching keyword wins
// and ties go to the topic listed first.
func (sc *Shortcuts) Match(text string) (Topic, bool) {
	lower := strings.ToLower(text)
	best, bestLen := -1, 0
	for i, t := range sc.topics {
		for _, kw := range t.Keywords {
			if len(kw) > bestLen && strings.Contains(lower, strings.ToLower(kw)) {
				best, bestLen = i, len(kw)
			}
		}
	}
	if best < 0 {
		return Topic{}, false
	}
	return sc.topics[best], true
}

// Dispatch tries to answer text from the table. A topic fires at most once
// per session and never repeats a character who already spoke on it. On
// success the topic is marked used and tm switches to the topic's name.
func (sc *Shortcuts) Dispatch(tm *TopicMemory, text string) (Scene, string, bool) {
	topic, ok := sc.Match(text)
	if !ok || tm.PredefinedWasUsed(topic.Key) {
		return Scene{}, "", false
	}

	var spoken []string
	if tm.Topic == topic.Name {
		spoken = tm.Spoken
	}

	var actions []SceneAction
	if topic.Strategy == StrategyOrderedSequence {
		for _, a := range topic.Sequence {
			actions = append(actions, a)
		}
	} else {
		for _, key := range sc.speakers(topic, text, spoken) {
			if trigger, ok := topic.Triggers[key]; ok {
				actions = append(actions, CharacterReplyAction{CharacterKey: key, Trigger: trigger})
			}
		}
	}
	if len(actions) == 0 {
		return Scene{}, "", false
	}

	tm.MarkPredefinedUsed(topic.Key)
	tm.SetTopic(topic.Name)
	return Scene{Actions: actions, NewTopic: topic.Name}, topic.Key, true
}

func (sc *Shortcuts) speakers(topic Topic, text string, spoken []string) []string {
	if named := NamedCharacter(text); named != "" &&
		slices.Contains(topic.Priority, named) && !slices.Contains(spoken, named) {
		return []string{named}
	}

	var available []string
	for _, k := range topic.Priority {
		if !slices.Contains(spoken, k) {
			available = append(available, k)
		}
	}
	if len(available) == 0 {
		return nil
	}
	if topic.Strategy == StrategyRandomOne {
		return []string{available[sc.intn(len(available))]}
	}
	return available
}
