package handlers

import (
	"log/slog"

	"github.com/dsemenov/yagptbot/internal/ai"
	"github.com/dsemenov/yagptbot/internal/config"
	"github.com/dsemenov/yagptbot/internal/database"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	AI     ai.Client
}
