package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/lingosleuth/detectivebot/internal/config"
)

// OpenAIClient calls an OpenAI-compatible chat completion endpoint such as
// Groq.
type OpenAIClient struct {
	client     *openai.Client
	log        *slog.Logger
	model      string
	maxTokens  int
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIClient configures the client from cfg.
func NewOpenAIClient(cfg config.LLMConfig, logger *slog.Logger) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	log := logger.With("component", "openai_client")
	log.Info("OpenAI-compatible client initialized", "model", cfg.Model, "base_url", oc.BaseURL)

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		log:        log,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Complete implements Completer.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	ccr := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   c.maxTokens,
	}
	if req.JSON {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	var err error
	for i := 0; i <= c.maxRetries; i++ {
		var resp openai.ChatCompletionResponse
		resp, err = c.client.CreateChatCompletion(ctx, ccr)
		if err == nil {
			if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
				return "", ErrEmptyResponse
			}
			return resp.Choices[0].Message.Content, nil
		}

		if !retriable(err) || i == c.maxRetries {
			break
		}
		c.log.WarnContext(ctx, "Chat completion failed, retrying", "attempt", i+1, "max_retries", c.maxRetries, "delay", c.retryDelay, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}

	return "", fmt.Errorf("chat completion failed: %w", err)
}

func retriable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retriableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retriableStatus(reqErr.HTTPStatusCode)
	}
	return false
}

func retriableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}
