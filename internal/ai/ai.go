// Package ai provides the language-model client interface and its
// provider implementations (YandexGPT, Gemini, Ollama).
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsemenov/yagptbot/internal/database"
)

// Chat roles shared by the OpenAI-compatible and Ollama wire formats.
const (
	roleSystem    = "system"
	roleUser      = "user"
	roleAssistant = "assistant"
)

// Client generates a reply for a conversation. The messages slice is
// chronological and ends with the message being replied to; messages whose
// UserID equals botID are the bot's own earlier replies.
type Client interface {
	GenerateReply(ctx context.Context, messages []*database.Message, botID int64) (string, error)
}

// chatMessage is the provider-neutral prompt line.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// formatLine renders a stored message the way the model sees it. Bot
// replies are passed through verbatim; user messages carry the sender and
// timestamp so the model can address people by name.
func formatLine(m *database.Message, botID int64) string {
	if m.UserID == botID {
		return m.Content
	}
	name := m.UserName
	if name == "" {
		name = fmt.Sprintf("UID %d", m.UserID)
	}
	return fmt.Sprintf("[%s] %s: %s", m.Timestamp.UTC().Format("2006-01-02 15:04:05"), name, m.Content)
}

// buildMessages assembles the chat completion payload: the system
// instruction, then at most window+1 trailing messages (the history window
// plus the current message), with roles assigned by authorship.
func buildMessages(instruction string, messages []*database.Message, botID int64, window int) []chatMessage {
	if window >= 0 && len(messages) > window+1 {
		messages = messages[len(messages)-(window+1):]
	}

	out := make([]chatMessage, 0, len(messages)+1)
	if instruction != "" {
		out = append(out, chatMessage{Role: roleSystem, Content: instruction})
	}
	for _, m := range messages {
		if m == nil {
			continue
		}
		role := roleUser
		if m.UserID == botID {
			role = roleAssistant
		}
		out = append(out, chatMessage{Role: role, Content: formatLine(m, botID)})
	}
	return out
}

// cleanReply normalizes a model completion before it is sent to the chat.
func cleanReply(s string) string {
	return strings.TrimSpace(s)
}
