package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestMiddlewareDoesNotLogText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, "debug", true)

	called := false
	handler := Middleware(log)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		called = true
	})

	handler(context.Background(), nil, &models.Update{
		ID: 7,
		Message: &models.Message{
			ID:   3,
			Text: "my secret alibi",
			Chat: models.Chat{ID: 42},
			From: &models.User{ID: 42},
		},
	})

	if !called {
		t.Fatal("next handler was not called")
	}
	out := buf.String()
	if strings.Contains(out, "secret alibi") {
		t.Errorf("log output contains message text: %s", out)
	}
	if !strings.Contains(out, `"user_id":42`) {
		t.Errorf("log output missing user_id: %s", out)
	}
}

func TestUpdateAttrsCallbackWithoutMessage(t *testing.T) {
	t.Parallel()

	attrs := UpdateAttrs(&models.Update{
		ID:            1,
		CallbackQuery: &models.CallbackQuery{ID: "q", From: models.User{ID: 9}, Data: "menu__main"},
	})

	joined := ""
	for _, a := range attrs {
		if s, ok := a.(string); ok {
			joined += s + " "
		}
	}
	if strings.Contains(joined, "chat_id") {
		t.Errorf("unexpected chat_id for callback without message: %v", attrs)
	}
}

func TestSchedulerLoggerDemotesInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewSchedulerLogger(newLogger(&buf, "info", false))

	l.Info("job scheduled", "name", "session_flush")
	if buf.Len() != 0 {
		t.Fatalf("info from gocron should be logged at debug, got %q", buf.String())
	}

	l.Error("job failed", "name", "session_flush")
	out := buf.String()
	if !strings.Contains(out, "job failed") || !strings.Contains(out, "source=gocron") {
		t.Errorf("unexpected output %q", out)
	}
}
