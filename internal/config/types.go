// Package config manages application configuration from a YAML file,
// BOT_* environment variables, a local .env file and secret manager lookups.
package config

import "time"

// Config holds the full application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
	Content   ContentConfig   `mapstructure:"content"`
	Game      GameConfig      `mapstructure:"game"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig configures the Bot API client and update delivery.
type TelegramConfig struct {
	Token              string `mapstructure:"token"                validate:"required"`
	Mode               string `mapstructure:"mode"                 validate:"oneof=polling webhook"`
	WebhookURL         string `mapstructure:"webhook_url"          validate:"required_if=Mode webhook,omitempty,url"`
	WebhookSecret      string `mapstructure:"webhook_secret"`
	DropPendingUpdates bool   `mapstructure:"drop_pending_updates"`
	MaxMessageLength   int    `mapstructure:"max_message_length"   validate:"gte=100,lte=4096"`
}

// ServerConfig configures the HTTP server used in webhook mode.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"          validate:"required"`
	WebhookPath  string        `mapstructure:"webhook_path"  validate:"required,startswith=/"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"  validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// LLMConfig selects and tunes the completion provider.
type LLMConfig struct {
	Provider      string        `mapstructure:"provider"       validate:"oneof=openai gemini"`
	APIKey        string        `mapstructure:"api_key"        validate:"required"`
	BaseURL       string        `mapstructure:"base_url"       validate:"omitempty,url"`
	Model         string        `mapstructure:"model"          validate:"required"`
	DirectorModel string        `mapstructure:"director_model"`
	Temperature   float32       `mapstructure:"temperature"    validate:"gte=0,lte=2"`
	MaxTokens     int           `mapstructure:"max_tokens"     validate:"gte=0"`
	MaxRetries    int           `mapstructure:"max_retries"    validate:"gte=0,lte=10"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	Timeout       time.Duration `mapstructure:"timeout"        validate:"gt=0"`
}

// StorageConfig selects the blob backend for sessions, progress and chat logs.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"      validate:"oneof=bucket sqlite"`
	BucketURL  string `mapstructure:"bucket_url"  validate:"required_if=Driver bucket"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// SecretsConfig names Secret Manager entries. Secrets are only looked up
// when GCPProject is set.
type SecretsConfig struct {
	GCPProject       string `mapstructure:"gcp_project"`
	TelegramToken    string `mapstructure:"telegram_token"`
	LLMAPIKey        string `mapstructure:"llm_api_key"`
	StorageBucketURL string `mapstructure:"storage_bucket_url"`
}

// ContentConfig points at the static game content tree.
type ContentConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// GameConfig tunes pacing and background work of the game.
type GameConfig struct {
	SceneDelay      time.Duration `mapstructure:"scene_delay"      validate:"gte=0"`
	StepDelay       time.Duration `mapstructure:"step_delay"       validate:"gte=0"`
	PostTestDelay   time.Duration `mapstructure:"post_test_delay"  validate:"gt=0"`
	AnalysisTimeout time.Duration `mapstructure:"analysis_timeout" validate:"gt=0"`
	Timezone        string        `mapstructure:"timezone"         validate:"required"`
}

// SchedulerConfig lists periodic tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds user-facing copy that is not part of the game content.
type MessagesConfig struct {
	GeneralError    string `mapstructure:"general_error"    validate:"required"`
	ExpiredButton   string `mapstructure:"expired_button"   validate:"required"`
	UnknownAction   string `mapstructure:"unknown_action"   validate:"required"`
	GameCompleted   string `mapstructure:"game_completed"   validate:"required"`
	NoActiveGame    string `mapstructure:"no_active_game"   validate:"required"`
	InvalidCode     string `mapstructure:"invalid_code"     validate:"required"`
	Restoring       string `mapstructure:"restoring"        validate:"required"`
	KeyboardUpdated string `mapstructure:"keyboard_updated" validate:"required"`
	Farewell        string `mapstructure:"farewell"         validate:"required"`
}
