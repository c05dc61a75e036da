package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load builds the configuration from:
// 1. Default values
// 2. The config file (config.yaml by default, overridable via path)
// 3. BOT_* environment variables (BOT_TELEGRAM_TOKEN, BOT_AI_API_KEY, ...)
//
// When ai.instruction_file is set, the file contents replace ai.instruction.
func Load(path string) (*Config, error) {
	setDefaults()

	if err := readConfigFile(path); err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if len(cfg.Scheduler.Tasks) == 0 {
		cfg.Scheduler.Tasks = DefaultTasks
	}

	if cfg.AI.InstructionFile != "" {
		data, err := os.ReadFile(cfg.AI.InstructionFile)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read instruction file %q: %v", ErrConfiguration, cfg.AI.InstructionFile, err)
		}
		cfg.AI.Instruction = strings.TrimSpace(string(data))
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// readConfigFile initializes viper and loads the optional config file.
// A missing file is not an error; defaults and environment apply.
func readConfigFile(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// setDefaults registers every known key so environment variables resolve
// during Unmarshal even without a config file.
func setDefaults() {
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.json", DefaultLogJSON)

	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.admin_id", 0)
	viper.SetDefault("telegram.messages.welcome", DefaultMessages.Welcome)
	viper.SetDefault("telegram.messages.help", DefaultMessages.Help)
	viper.SetDefault("telegram.messages.unauthorized", DefaultMessages.Unauthorized)
	viper.SetDefault("telegram.messages.general_error", DefaultMessages.GeneralError)
	viper.SetDefault("telegram.messages.history_reset", DefaultMessages.HistoryReset)
	viper.SetDefault("telegram.messages.empty_reply", DefaultMessages.EmptyReply)

	viper.SetDefault("ai.provider", DefaultAIProvider)
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.folder_id", "")
	viper.SetDefault("ai.base_url", DefaultAIBaseURL)
	viper.SetDefault("ai.model", DefaultAIModel)
	viper.SetDefault("ai.temperature", DefaultAITemperature)
	viper.SetDefault("ai.max_tokens", DefaultAIMaxTokens)
	viper.SetDefault("ai.timeout", DefaultAITimeout)
	viper.SetDefault("ai.history", DefaultAIHistory)
	viper.SetDefault("ai.instruction", DefaultAIInstruction)
	viper.SetDefault("ai.instruction_file", "")
	viper.SetDefault("ai.max_retries", DefaultAIMaxRetries)
	viper.SetDefault("ai.retry_delay", DefaultAIRetryDelay)
	viper.SetDefault("ai.ollama.base_url", DefaultOllamaBaseURL)
	viper.SetDefault("ai.ollama.model", DefaultOllamaModel)

	viper.SetDefault("database.path", DefaultDBPath)
	viper.SetDefault("database.retention", DefaultDBRetention)
}
