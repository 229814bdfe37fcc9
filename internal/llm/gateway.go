package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lingosleuth/detectivebot/internal/content"
	"github.com/lingosleuth/detectivebot/internal/game"
	"github.com/lingosleuth/detectivebot/internal/metrics"
)

// Fixed replies.
const (
	ServerErrorReply    = "Sorry, a server error occurred."
	DefaultFinalSummary = "Great job completing the game! Keep practicing your English."
)

const (
	historyCap     = 20
	historyContext = 10
)

// Call shapes, used as metric labels.
const (
	callDialogue    = "dialogue"
	callAnalysis    = "tutor_analysis"
	callExplanation = "tutor_explanation"
	callSummary     = "tutor_summary"
	callSpotter     = "word_spotter"
	callDirector    = "director"
)

// Prompts supplies role system prompts by content path.
type Prompts interface {
	Text(name string) string
}

// Analysis is the tutor's verdict on a player's sentence.
type Analysis struct {
	ImprovementNeeded bool   `json:"improvement_needed"`
	Feedback          string `json:"feedback"`
}

// Explanation is the tutor's explanation of a word or sentence.
type Explanation struct {
	Definition            string   `json:"definition"`
	Examples              []string `json:"examples"`
	ContextualExplanation string   `json:"contextual_explanation"`
}

// Summary is the tutor's end-of-game feedback.
type Summary struct {
	Summary string `json:"summary"`
}

// Options tunes the gateway.
type Options struct {
	DirectorModel string
	// DialogueTemperature defaults to 0.8.
	DialogueTemperature float32
}

// Gateway runs every model role and degrades each to a safe default on
// failure.
type Gateway struct {
	completer Completer
	validator Validator
	prompts   Prompts
	history   *History
	metrics   *metrics.Metrics
	log       *slog.Logger
	opts      Options
}

var _ game.ScenePlanner = (*Gateway)(nil)

// NewGateway wires the gateway.
func NewGateway(c Completer, v Validator, prompts Prompts, m *metrics.Metrics, logger *slog.Logger, opts Options) *Gateway {
	if v == nil {
		v = NewValidator()
	}
	if m == nil {
		m = metrics.Nop()
	}
	if opts.DialogueTemperature == 0 {
		opts.DialogueTemperature = 0.8
	}
	return &Gateway{
		completer: c,
		validator: v,
		prompts:   prompts,
		history:   NewHistory(historyCap),
		metrics:   m,
		log:       logger.With("component", "llm_gateway"),
		opts:      opts,
	}
}

func (g *Gateway) complete(ctx context.Context, call string, req Request) (string, error) {
	start := time.Now()
	out, err := g.completer.Complete(ctx, req)
	g.metrics.LLMRequestDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}
	g.metrics.LLMRequestsTotal.WithLabelValues(call, status).Inc()
	return out, err
}

// Dialogue answers userMessage in character using the user's rolling
// history. The exchange is remembered only when the reply validates.
func (g *Gateway) Dialogue(ctx context.Context, userID int64, userMessage, systemPrompt, characterKey string) string {
	msgs := []Message{{Role: RoleSystem, Content: systemPrompt}}
	msgs = append(msgs, g.history.Recent(userID, historyContext)...)
	msgs = append(msgs, Message{Role: RoleUser, Content: userMessage})

	out, err := g.complete(ctx, callDialogue, Request{Messages: msgs, Temperature: g.opts.DialogueTemperature})
	if err != nil && !errors.Is(err, ErrEmptyResponse) {
		g.log.ErrorContext(ctx, "Dialogue call failed", "user_id", userID, "character", characterKey, "error", err)
		return ServerErrorReply
	}

	v := g.validator.Validate(out, characterKey)
	if !v.OK {
		g.metrics.RejectedResponses.WithLabelValues(v.Reason).Inc()
		g.log.WarnContext(ctx, "Dialogue response rejected", "user_id", userID, "character", characterKey, "reason", v.Reason, "clear_history", v.ClearHistory)
		if v.ClearHistory {
			g.history.Clear(userID)
		}
		return v.Text
	}
	if v.Reason != "" {
		g.metrics.RejectedResponses.WithLabelValues(v.Reason).Inc()
	}
	if v.ClearHistory {
		g.log.WarnContext(ctx, "Dialogue response over length cap, clearing history", "user_id", userID, "character", characterKey)
		g.history.Clear(userID)
		return v.Text
	}

	g.history.Append(userID,
		Message{Role: RoleUser, Content: userMessage},
		Message{Role: RoleAssistant, Content: v.Text},
	)
	return v.Text
}

// ClearHistory forgets the user's dialogue.
func (g *Gateway) ClearHistory(userID int64) {
	g.history.Clear(userID)
}

// TutorAnalysis checks a player's sentence for mistakes.
func (g *Gateway) TutorAnalysis(ctx context.Context, userID int64, text string) Analysis {
	var a Analysis
	req := fmt.Sprintf("Analyze this text: '%s'", text)
	if err := g.completeJSON(ctx, callAnalysis, g.tutorPrompt(), req, 0.5, &a); err != nil {
		g.log.WarnContext(ctx, "Tutor analysis unavailable", "user_id", userID, "error", err)
		return Analysis{}
	}
	a.Feedback = g.screen(ctx, callAnalysis, a.Feedback)
	return a
}

// TutorExplanation explains text, optionally within the message it came from.
func (g *Gateway) TutorExplanation(ctx context.Context, userID int64, text, original string) Explanation {
	req := fmt.Sprintf("Please explain the meaning of: '%s'.", text)
	if original != "" {
		req += fmt.Sprintf(" Original message: '%s'", original)
	}

	var e Explanation
	if err := g.completeJSON(ctx, callExplanation, g.tutorPrompt(), req, 0.5, &e); err != nil {
		g.log.WarnContext(ctx, "Tutor explanation unavailable", "user_id", userID, "error", err)
		return Explanation{}
	}
	e.Definition = g.screen(ctx, callExplanation, e.Definition)
	if e.Definition == "" {
		return Explanation{}
	}
	e.ContextualExplanation = g.screen(ctx, callExplanation, e.ContextualExplanation)
	examples := e.Examples[:0]
	for _, ex := range e.Examples {
		if ex = g.screen(ctx, callExplanation, ex); ex != "" {
			examples = append(examples, ex)
		}
	}
	e.Examples = examples
	return e
}

// TutorFinalSummary writes the end-of-game feedback for the player's
// recorded progress.
func (g *Gateway) TutorFinalSummary(ctx context.Context, userID int64, progress any) Summary {
	data, err := json.MarshalIndent(progress, "", "  ")
	if err != nil {
		g.log.ErrorContext(ctx, "Failed to encode progress for summary", "user_id", userID, "error", err)
		return Summary{Summary: DefaultFinalSummary}
	}

	req := "The game is over. Write a short, encouraging final summary of this student's English progress. " +
		"If there were no mistakes or new words, congratulate them and suggest a harder level. " +
		`Answer as JSON: {"summary": "..."}` + "\n\nProgress:\n" + string(data)

	var s Summary
	if err := g.completeJSON(ctx, callSummary, g.tutorPrompt(), req, 0.5, &s); err != nil || strings.TrimSpace(s.Summary) == "" {
		g.log.WarnContext(ctx, "Tutor summary unavailable", "user_id", userID, "error", err)
		return Summary{Summary: DefaultFinalSummary}
	}
	if s.Summary = g.screen(ctx, callSummary, s.Summary); s.Summary == "" {
		return Summary{Summary: DefaultFinalSummary}
	}
	return s
}

// SpotWords picks the words in text worth explaining to a learner, lower
// cased.
func (g *Gateway) SpotWords(ctx context.Context, text string) []string {
	prompt := g.prompts.Text(content.PromptPath(game.Lexicographer))
	out, err := g.complete(ctx, callSpotter, Request{
		Messages:    []Message{{Role: RoleSystem, Content: prompt}, {Role: RoleUser, Content: text}},
		Temperature: 0.2,
	})
	if err != nil {
		g.log.WarnContext(ctx, "Word spotter unavailable", "error", err)
		return nil
	}

	words, err := decodeWords(out)
	if err != nil {
		g.log.WarnContext(ctx, "Word spotter returned malformed output", "error", err)
		return nil
	}
	return words
}

// Direct asks the director to plan a scene and returns its raw output.
func (g *Gateway) Direct(ctx context.Context, userID int64, topicMemory, text string) (string, error) {
	prompt := g.prompts.Text(content.PromptPath(game.Director))
	userContent := fmt.Sprintf("Context: \"Player asks everyone. Topic Memory: %s\"\nMessage: \"%s\"", topicMemory, text)

	out, err := g.complete(ctx, callDirector, Request{
		Model:       g.opts.DirectorModel,
		Messages:    []Message{{Role: RoleSystem, Content: prompt}, {Role: RoleUser, Content: userContent}},
		Temperature: 0.5,
		JSON:        true,
	})
	if err != nil {
		return "", fmt.Errorf("director call for user %d: %w", userID, err)
	}
	return out, nil
}

func (g *Gateway) tutorPrompt() string {
	return g.prompts.Text(content.PromptPath(game.Tutor))
}

// screen runs one player-facing field of a JSON answer through the
// validator. Rejected or empty fields come back empty so callers use their
// own defaults.
func (g *Gateway) screen(ctx context.Context, call, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	v := g.validator.Validate(text, game.Tutor)
	if v.Reason != "" {
		g.metrics.RejectedResponses.WithLabelValues(v.Reason).Inc()
	}
	if !v.OK {
		g.log.WarnContext(ctx, "Tutor field rejected", "call", call, "reason", v.Reason)
		return ""
	}
	return v.Text
}

func (g *Gateway) completeJSON(ctx context.Context, call, system, user string, temperature float32, dst any) error {
	out, err := g.complete(ctx, call, Request{
		Messages:    []Message{{Role: RoleSystem, Content: system}, {Role: RoleUser, Content: user}},
		Temperature: temperature,
		JSON:        true,
	})
	if err != nil {
		return err
	}
	body := game.ExtractJSON(out)
	if body == "" {
		return fmt.Errorf("%s: no JSON in response", call)
	}
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", call, err)
	}
	return nil
}

// decodeWords accepts a JSON list of words or an object wrapping one, since
// JSON mode forces some providers to answer with an object.
func decodeWords(out string) ([]string, error) {
	body := game.ExtractJSON(out)
	if body == "" {
		return nil, errors.New("no JSON in response")
	}

	var words []string
	if err := json.Unmarshal([]byte(body), &words); err != nil {
		var wrapped map[string][]string
		if err2 := json.Unmarshal([]byte(body), &wrapped); err2 != nil {
			return nil, err
		}
		for _, v := range wrapped {
			words = append(words, v...)
		}
	}

	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	return cleaned, nil
}
