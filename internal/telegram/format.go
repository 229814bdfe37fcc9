package telegram

import (
	"fmt"
	"strings"

	"github.com/lingosleuth/detectivebot/internal/game"
)

// CharacterLine renders a character's speech: {emoji} *{name}:* {text}.
func CharacterLine(c game.Character, text string) string {
	return fmt.Sprintf("%s *%s:* %s", c.Emoji, c.FullName, text)
}

// NarratorLine renders narration in italics.
func NarratorLine(text string) string {
	return "🎙️ _" + strings.TrimSpace(text) + "_"
}

// DirectorNote renders a director stage note.
func DirectorNote(text string) string {
	return "🎬 *Narrator:* _" + strings.TrimSpace(text) + "_"
}

// TutorExplanation renders the tutor's explanation of a word or sentence.
func TutorExplanation(tutor game.Character, subject, definition string, examples []string, inContext string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s:*\n*%s:* %s\n", tutor.Emoji, tutor.FullName, subject, definition)
	if len(examples) > 0 {
		sb.WriteString("\n*Examples:*\n")
		for _, ex := range examples {
			fmt.Fprintf(&sb, "- _%s_\n", ex)
		}
	}
	if inContext != "" {
		fmt.Fprintf(&sb, "\n*In Context:*\n_%s_", inContext)
	}
	return strings.TrimRight(sb.String(), "\n")
}
