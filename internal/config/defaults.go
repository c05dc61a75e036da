package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultAIProvider    = "yandex"
	DefaultAIBaseURL     = "https://llm.api.cloud.yandex.net/v1"
	DefaultAIModel       = "yandexgpt-lite"
	DefaultAITemperature = 0.3
	DefaultAIMaxTokens   = 256
	DefaultAITimeout     = 2 * time.Minute
	DefaultAIHistory     = 4
	DefaultAIMaxRetries  = 2
	DefaultAIRetryDelay  = 2 * time.Second
	DefaultAIInstruction = "You are a helpful assistant focused on providing clear and accurate responses."

	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3"

	DefaultDBPath      = "storage.db"
	DefaultDBRetention = 7 * 24 * time.Hour
)

// DefaultMessages are the user-facing texts used when config.yaml does not
// override them.
var DefaultMessages = MessagesConfig{
	Welcome:      "Hi, %s! Send me a message and I will answer.",
	Help:         "Send any text message and I will reply using the configured language model.\n\n/start - greet the bot\n/help - show this message\n/reset - clear chat history (admin only)",
	Unauthorized: "You are not authorized to use this command.",
	GeneralError: "An error occurred. Please try again later.",
	HistoryReset: "History has been reset.",
	EmptyReply:   "I have nothing to say to that.",
}

// DefaultTasks is the scheduler configuration applied when the config file
// has no scheduler section.
var DefaultTasks = map[string]TaskConfig{
	"history_cleanup": {Enabled: true, Schedule: "0 0 * * *"},
	"sql_maintenance": {Enabled: true, Schedule: "0 12 * * 0"},
}
