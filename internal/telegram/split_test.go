package telegram_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lingosleuth/detectivebot/internal/telegram"
)

func TestSplitMessage(t *testing.T) {
	t.Parallel()

	para := strings.Repeat("word ", 300)

	testCases := []struct {
		name       string
		input      string
		limit      int
		wantChunks int
	}{
		{name: "short text", input: "hello", limit: 4096, wantChunks: 1},
		{name: "exactly at limit", input: strings.Repeat("a", 4096), limit: 4096, wantChunks: 1},
		{name: "one over limit", input: strings.Repeat("a", 4097), limit: 4096, wantChunks: 2},
		{name: "multibyte at limit", input: strings.Repeat("é", 4096), limit: 4096, wantChunks: 1},
		{name: "paragraphs", input: para + "\n\n" + para + "\n\n" + para, limit: 3200, wantChunks: 2},
		{name: "lines inside a long paragraph", input: strings.Repeat("line of text\n", 50), limit: 100, wantChunks: 8},
		{name: "default limit", input: strings.Repeat("b", 5000), limit: 0, wantChunks: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			chunks := telegram.SplitMessage(tc.input, tc.limit)
			if len(chunks) != tc.wantChunks {
				t.Fatalf("SplitMessage() returned %d chunks, want %d", len(chunks), tc.wantChunks)
			}

			limit := tc.limit
			if limit == 0 {
				limit = telegram.MaxMessageLength
			}
			for i, c := range chunks {
				if n := utf8.RuneCountInString(c); n > limit {
					t.Errorf("chunk %d has %d runes, limit %d", i, n, limit)
				}
				if c == "" {
					t.Errorf("chunk %d is empty", i)
				}
			}
		})
	}
}

func TestSplitMessageEmpty(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "\n\n\t"} {
		if chunks := telegram.SplitMessage(input, 4096); chunks != nil {
			t.Errorf("SplitMessage(%q) = %q, want nil", input, chunks)
		}
	}
}

func TestSplitMessageKeepsContent(t *testing.T) {
	t.Parallel()

	input := strings.Repeat("x", 4000) + "\n\n" + strings.Repeat("y", 200)
	chunks := telegram.SplitMessage(input, 4096)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0] != strings.Repeat("x", 4000) || chunks[1] != strings.Repeat("y", 200) {
		t.Error("paragraph boundary not respected")
	}
}
