package config_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lingosleuth/detectivebot/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
llm:
  api_key: "key"
  temperature: 0.3
game:
  scene_delay: 2s
`)

	cfg, err := config.LoadConfig(context.Background(), path, quietLogger())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("LLM.Temperature = %v, want 0.3", cfg.LLM.Temperature)
	}
	if cfg.Game.SceneDelay != 2*time.Second {
		t.Errorf("Game.SceneDelay = %v, want 2s", cfg.Game.SceneDelay)
	}
	if cfg.LLM.BaseURL != config.DefaultLLMBaseURL {
		t.Errorf("LLM.BaseURL = %q, want default %q", cfg.LLM.BaseURL, config.DefaultLLMBaseURL)
	}
	if cfg.Telegram.MaxMessageLength != 4096 {
		t.Errorf("Telegram.MaxMessageLength = %d, want 4096", cfg.Telegram.MaxMessageLength)
	}
	if !cfg.Scheduler.Tasks["session_flush"].Enabled {
		t.Error("session_flush task should be enabled by default")
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "from-file"
llm:
  api_key: "key"
`)
	t.Setenv("BOT_TELEGRAM_TOKEN", "from-env")
	t.Setenv("BOT_LOGGER_LEVEL", "debug")

	cfg, err := config.LoadConfig(context.Background(), path, quietLogger())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "from-env")
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "debug")
	}
}

func TestLoadConfigMissingToken(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: "key"
`)
	t.Setenv("BOT_TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := config.LoadConfig(context.Background(), path, quietLogger())
	if !errors.Is(err, config.ErrValidation) {
		t.Fatalf("LoadConfig() error = %v, want ErrValidation", err)
	}
}

type fakeSecrets map[string]string

func (f fakeSecrets) Lookup(_ context.Context, name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestResolveSecrets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cfg       config.Config
		src       config.SecretSource
		wantToken string
		wantKey   string
	}{
		{
			name: "secret wins over environment",
			cfg: config.Config{
				Telegram: config.TelegramConfig{Token: "env-token"},
				Secrets:  config.SecretsConfig{TelegramToken: "tg"},
			},
			src:       fakeSecrets{"tg": "secret-token"},
			wantToken: "secret-token",
		},
		{
			name: "lookup failure keeps environment value",
			cfg: config.Config{
				Telegram: config.TelegramConfig{Token: "env-token"},
				LLM:      config.LLMConfig{APIKey: "env-key"},
				Secrets:  config.SecretsConfig{TelegramToken: "missing", LLMAPIKey: "llm"},
			},
			src:       fakeSecrets{"llm": "secret-key"},
			wantToken: "env-token",
			wantKey:   "secret-key",
		},
		{
			name: "no source leaves config untouched",
			cfg: config.Config{
				Telegram: config.TelegramConfig{Token: "env-token"},
				Secrets:  config.SecretsConfig{TelegramToken: "tg"},
			},
			wantToken: "env-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := tt.cfg
			config.ResolveSecrets(context.Background(), &cfg, tt.src, quietLogger())
			if cfg.Telegram.Token != tt.wantToken {
				t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, tt.wantToken)
			}
			if cfg.LLM.APIKey != tt.wantKey {
				t.Errorf("LLM.APIKey = %q, want %q", cfg.LLM.APIKey, tt.wantKey)
			}
		})
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveSecretsLogsThroughGivenLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	cfg := config.Config{Secrets: config.SecretsConfig{TelegramToken: "missing"}}

	config.ResolveSecrets(context.Background(), &cfg, fakeSecrets{}, log)

	out := buf.String()
	if !strings.Contains(out, "Secret lookup failed") || !strings.Contains(out, "secret=missing") {
		t.Errorf("warning not written to the injected logger: %q", out)
	}
}
