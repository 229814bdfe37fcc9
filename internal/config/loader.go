package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envAliases binds keys without defaults to their BOT_* variable and to the
// variable names used by older deployments.
var envAliases = map[string][]string{
	"telegram.token":             {"BOT_TELEGRAM_TOKEN", "TELEGRAM_TOKEN"},
	"telegram.webhook_url":       {"BOT_TELEGRAM_WEBHOOK_URL", "WEBHOOK_URL"},
	"telegram.webhook_secret":    {"BOT_TELEGRAM_WEBHOOK_SECRET"},
	"llm.api_key":                {"BOT_LLM_API_KEY", "GROQ_API_KEY"},
	"llm.director_model":         {"BOT_LLM_DIRECTOR_MODEL"},
	"secrets.gcp_project":        {"BOT_SECRETS_GCP_PROJECT", "GOOGLE_CLOUD_PROJECT"},
	"secrets.telegram_token":     {"BOT_SECRETS_TELEGRAM_TOKEN"},
	"secrets.llm_api_key":        {"BOT_SECRETS_LLM_API_KEY"},
	"secrets.storage_bucket_url": {"BOT_SECRETS_STORAGE_BUCKET_URL"},
}

// LoadConfig reads configuration in this order: defaults, the YAML file at
// path (optional), a local .env file (optional), BOT_* environment variables
// and finally Secret Manager for values that are still empty. The result is
// validated before it is returned. Loading happens before the configured
// logger exists, so the caller passes the one to report through.
func LoadConfig(ctx context.Context, path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		logger.InfoContext(ctx, "Config file not found, using defaults and environment", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var src SecretSource
	if cfg.Secrets.GCPProject != "" {
		src = NewGCPSecretSource(cfg.Secrets.GCPProject)
	}
	ResolveSecrets(ctx, &cfg, src, logger)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
