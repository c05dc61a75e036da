// Package config manages application configuration from default values,
// an optional config.yaml file, and BOT_* environment variables.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration is the sentinel wrapped by every configuration failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration consumed by all components.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	AI        AIConfig        `mapstructure:"ai"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the process-wide slog logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token, the admin user and the canned
// user-facing messages. BotInfo is filled at runtime after GetMe.
type TelegramConfig struct {
	Token    string         `mapstructure:"token"    validate:"required"`
	AdminID  int64          `mapstructure:"admin_id" validate:"required,gt=0"`
	Messages MessagesConfig `mapstructure:"messages"`

	BotInfo BotInfo `mapstructure:"-"`
}

// BotInfo carries the bot's own Telegram identity, retrieved at startup.
type BotInfo struct {
	ID        int64
	Username  string
	FirstName string
}

// MessagesConfig holds the texts the bot sends outside of AI replies.
type MessagesConfig struct {
	Welcome      string `mapstructure:"welcome"       validate:"required"`
	Help         string `mapstructure:"help"          validate:"required"`
	Unauthorized string `mapstructure:"unauthorized"  validate:"required"`
	GeneralError string `mapstructure:"general_error" validate:"required"`
	HistoryReset string `mapstructure:"history_reset" validate:"required"`
	EmptyReply   string `mapstructure:"empty_reply"   validate:"required"`
}

// AIConfig configures the language-model provider.
//
// The yandex provider talks to the OpenAI-compatible endpoint of Yandex
// Cloud and additionally needs FolderID to build the gpt://<folder>/<model>
// model URI. The gemini provider needs only APIKey. The ollama provider
// needs neither.
type AIConfig struct {
	Provider string `mapstructure:"provider"  validate:"required,oneof=yandex gemini ollama"`
	APIKey   string `mapstructure:"api_key"   validate:"required_unless=Provider ollama"`
	FolderID string `mapstructure:"folder_id" validate:"required_if=Provider yandex"`

	BaseURL     string        `mapstructure:"base_url"    validate:"omitempty,url"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxTokens   int           `mapstructure:"max_tokens"  validate:"min=1"`
	// Timeout bounds a single generation call, retries included.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=10m"`

	// History is the number of stored messages passed to the model in
	// addition to the current one.
	History int `mapstructure:"history" validate:"min=0,max=200"`

	Instruction     string `mapstructure:"instruction" validate:"required"`
	InstructionFile string `mapstructure:"instruction_file"`

	MaxRetries int           `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"min=0"`

	Ollama OllamaConfig `mapstructure:"ollama"`
}

// OllamaConfig configures the local Ollama endpoint.
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	Model   string `mapstructure:"model"    validate:"required"`
}

// DatabaseConfig configures the SQLite history store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`

	// Retention bounds how long stored messages are kept; the
	// history_cleanup task deletes anything older.
	Retention time.Duration `mapstructure:"retention" validate:"min=1h"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a registered task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}
