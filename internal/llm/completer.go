// Package llm talks to the completion backend for every model role in the
// game: character dialogue, the scene director, the tutor and the word
// spotter.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lingosleuth/detectivebot/internal/config"
)

// ErrEmptyResponse is returned when the provider answers with no text.
var ErrEmptyResponse = errors.New("empty completion response")

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role
	Content string
}

// Request is a provider-neutral completion request.
type Request struct {
	// Model overrides the provider's default model when set.
	Model       string
	Messages    []Message
	Temperature float32
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// Completer produces a single completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewCompleter builds the client selected by cfg.Provider.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (Completer, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg, logger), nil
	case "gemini":
		return NewGeminiClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
