package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dsemenov/yagptbot/internal/config"
)

// NewClient selects and constructs the provider implementation named by
// cfg.AI.Provider.
func NewClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (Client, error) {
	if log == nil {
		log = slog.Default()
	}
	log.Info("Initializing AI client", "provider", cfg.AI.Provider)

	switch cfg.AI.Provider {
	case "yandex":
		return newYandexClient(cfg.AI, log)
	case "gemini":
		return newGeminiClient(ctx, cfg.AI, log)
	case "ollama":
		return newOllamaClient(cfg.AI, log)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.AI.Provider)
	}
}
