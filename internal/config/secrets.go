package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gocloud.dev/runtimevar"
	_ "gocloud.dev/runtimevar/gcpsecretmanager" //revive:disable:blank-imports
)

// SecretSource looks up a secret by name.
type SecretSource interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// GCPSecretSource reads the latest version of secrets from Google Secret Manager.
type GCPSecretSource struct {
	project string
}

// NewGCPSecretSource returns a SecretSource bound to a Google Cloud project.
func NewGCPSecretSource(project string) *GCPSecretSource {
	return &GCPSecretSource{project: project}
}

// Lookup opens the secret as a runtimevar and returns its latest value.
func (s *GCPSecretSource) Lookup(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("gcpsecretmanager://projects/%s/secrets/%s?decoder=string", s.project, name)
	v, err := runtimevar.OpenVariable(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to open secret %s: %w", name, err)
	}
	defer v.Close()

	snap, err := v.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", name, err)
	}

	value, ok := snap.Value.(string)
	if !ok {
		return "", fmt.Errorf("secret %s has unexpected type %T", name, snap.Value)
	}
	return strings.TrimSpace(value), nil
}

// ResolveSecrets fills token, API key and bucket URL from src. A value from
// Secret Manager wins; on lookup failure the value already loaded from the
// environment or config file is kept.
func ResolveSecrets(ctx context.Context, cfg *Config, src SecretSource, logger *slog.Logger) {
	if src == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	targets := []struct {
		secret string
		dst    *string
	}{
		{cfg.Secrets.TelegramToken, &cfg.Telegram.Token},
		{cfg.Secrets.LLMAPIKey, &cfg.LLM.APIKey},
		{cfg.Secrets.StorageBucketURL, &cfg.Storage.BucketURL},
	}

	for _, t := range targets {
		if t.secret == "" {
			continue
		}
		value, err := src.Lookup(ctx, t.secret)
		if err != nil || value == "" {
			logger.WarnContext(ctx, "Secret lookup failed, falling back to environment", "secret", t.secret, "error", err)
			continue
		}
		*t.dst = value
	}
}
