package handlers

import (
	"github.com/go-telegram/bot"
)

// RegisteredHandler couples a bot handler with its registration
// parameters and per-handler middleware chain.
type RegisteredHandler struct {
	HandlerType bot.HandlerType
	Pattern     string
	MatchType   bot.MatchType
	Handler     bot.HandlerFunc
	Middleware  []bot.Middleware
}

// RegisterAllCommands returns the command handlers keyed by name.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	return map[string]RegisteredHandler{
		"start": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "/start",
			MatchType:   bot.MatchTypeCommandStartOnly,
			Handler:     NewStartHandler(deps),
		},
		"help": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "/help",
			MatchType:   bot.MatchTypeCommandStartOnly,
			Handler:     NewHelpHandler(deps),
		},
		"reset": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "/reset",
			MatchType:   bot.MatchTypeCommandStartOnly,
			Handler:     NewResetHandler(deps),
			Middleware:  []bot.Middleware{AdminOnly(deps)},
		},
	}
}
