package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values applied before the config file and environment are read.
const (
	DefaultLogLevel = "info"

	DefaultTelegramMode     = "polling"
	DefaultMaxMessageLength = 4096

	DefaultServerAddr    = ":8080"
	DefaultWebhookPath   = "/webhook"
	DefaultServerTimeout = 30 * time.Second

	DefaultLLMProvider    = "openai"
	DefaultLLMBaseURL     = "https://api.groq.com/openai/v1"
	DefaultLLMModel       = "llama-3.3-70b-versatile"
	DefaultLLMTemperature = 0.7
	DefaultLLMMaxTokens   = 1024
	DefaultLLMMaxRetries  = 2
	DefaultLLMRetryDelay  = 2 * time.Second
	DefaultLLMTimeout     = 60 * time.Second

	DefaultStorageDriver = "bucket"
	DefaultBucketURL     = "file:///tmp/detectivebot"
	DefaultSQLitePath    = "detectivebot.db"

	DefaultContentDir = "./content"

	DefaultSceneDelay      = 4 * time.Second
	DefaultStepDelay       = 1500 * time.Millisecond
	DefaultPostTestDelay   = 20 * time.Minute
	DefaultAnalysisTimeout = 45 * time.Second
	DefaultTimezone        = "Europe/Berlin"
)

// DefaultMessages is the user-facing copy used when the config file sets none.
var DefaultMessages = MessagesConfig{
	GeneralError:    "❌ An error occurred. Please try again or use /start to restart.",
	ExpiredButton:   "This button has expired. Please start over with /start.",
	UnknownAction:   "🤔 I don't know how to handle that button. Please use /menu.",
	GameCompleted:   "🎭 This case is closed. Use /start to play again.",
	NoActiveGame:    "🕵️ You don't have an active game. Use /start to begin.",
	InvalidCode:     "❌ That code doesn't look right. Please send two letters followed by four digits, for example AB1234.",
	Restoring:       "🔄 Restoring your game...",
	KeyboardUpdated: "✅ Keyboard updated! Use the buttons below to open the menus.",
	Farewell:        "🎭 Thank you for playing! Your session data has been cleared. Use /start to play again.",
}

// DefaultTasks are the periodic tasks enabled out of the box.
var DefaultTasks = map[string]TaskConfig{
	"session_flush":       {Enabled: true, Schedule: "0 */2 * * * *"},
	"storage_maintenance": {Enabled: true, Schedule: "0 30 4 * * *"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", false)

	v.SetDefault("telegram.mode", DefaultTelegramMode)
	v.SetDefault("telegram.drop_pending_updates", true)
	v.SetDefault("telegram.max_message_length", DefaultMaxMessageLength)

	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.webhook_path", DefaultWebhookPath)
	v.SetDefault("server.read_timeout", DefaultServerTimeout)
	v.SetDefault("server.write_timeout", DefaultServerTimeout)

	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.temperature", DefaultLLMTemperature)
	v.SetDefault("llm.max_tokens", DefaultLLMMaxTokens)
	v.SetDefault("llm.max_retries", DefaultLLMMaxRetries)
	v.SetDefault("llm.retry_delay", DefaultLLMRetryDelay)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)

	v.SetDefault("storage.driver", DefaultStorageDriver)
	v.SetDefault("storage.bucket_url", DefaultBucketURL)
	v.SetDefault("storage.sqlite_path", DefaultSQLitePath)

	v.SetDefault("content.dir", DefaultContentDir)

	v.SetDefault("game.scene_delay", DefaultSceneDelay)
	v.SetDefault("game.step_delay", DefaultStepDelay)
	v.SetDefault("game.post_test_delay", DefaultPostTestDelay)
	v.SetDefault("game.analysis_timeout", DefaultAnalysisTimeout)
	v.SetDefault("game.timezone", DefaultTimezone)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.expired_button", DefaultMessages.ExpiredButton)
	v.SetDefault("messages.unknown_action", DefaultMessages.UnknownAction)
	v.SetDefault("messages.game_completed", DefaultMessages.GameCompleted)
	v.SetDefault("messages.no_active_game", DefaultMessages.NoActiveGame)
	v.SetDefault("messages.invalid_code", DefaultMessages.InvalidCode)
	v.SetDefault("messages.restoring", DefaultMessages.Restoring)
	v.SetDefault("messages.keyboard_updated", DefaultMessages.KeyboardUpdated)
	v.SetDefault("messages.farewell", DefaultMessages.Farewell)
}
