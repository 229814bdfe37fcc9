package telegram

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Telegram's limit on message text, in characters.
const MaxMessageLength = 4096

// SplitMessage breaks text into chunks of at most limit runes. It prefers
// paragraph boundaries, then line boundaries, and cuts inside a line only
// when the line alone is too long. Text within the limit is returned as is;
// empty or whitespace-only text yields no chunks.
func SplitMessage(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if limit <= 0 {
		limit = MaxMessageLength
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
		}
		cur.Reset()
		curLen = 0
	}
	add := func(piece, sep string) {
		pl := utf8.RuneCountInString(piece)
		sl := utf8.RuneCountInString(sep)
		if curLen > 0 && curLen+sl+pl <= limit {
			cur.WriteString(sep)
			cur.WriteString(piece)
			curLen += sl + pl
			return
		}
		flush()
		cur.WriteString(piece)
		curLen = pl
	}

	for _, para := range strings.Split(text, "\n\n") {
		if utf8.RuneCountInString(para) <= limit {
			add(para, "\n\n")
			continue
		}
		for i, line := range strings.Split(para, "\n") {
			sep := "\n"
			if i == 0 {
				sep = "\n\n"
			}
			if utf8.RuneCountInString(line) <= limit {
				add(line, sep)
				continue
			}
			flush()
			chunks = append(chunks, hardSplit(line, limit)...)
		}
	}
	flush()
	return chunks
}

func hardSplit(s string, limit int) []string {
	runes := []rune(s)
	parts := make([]string, 0, len(runes)/limit+1)
	for len(runes) > limit {
		parts = append(parts, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
