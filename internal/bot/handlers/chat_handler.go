package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/dsemenov/yagptbot/internal/database"
)

const (
	sendMessageTimeout = 10 * time.Second
	dbSaveTimeout      = 5 * time.Second

	// Telegram rejects messages longer than this many characters.
	maxMessageLength = 4096
)

type chatHandler struct {
	deps HandlerDeps
}

// NewChatHandler creates the default handler for plain text messages.
// It relays the conversation to the AI client and sends the completion back.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	return chatHandler{deps}.Handle
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		log.DebugContext(ctx, "Ignoring update with nil message, empty text, or nil sender", "update_id", update.ID)
		return
	}
	if strings.HasPrefix(msg.Text, "/") {
		// Commands have their own handlers; unknown ones are ignored.
		log.DebugContext(ctx, "Ignoring command-like message", "chat_id", msg.Chat.ID)
		return
	}

	chatID := msg.Chat.ID
	log.InfoContext(ctx, "Handling chat message", "chat_id", chatID, "user_id", msg.From.ID, "message_id", msg.ID)

	userName := msg.From.FirstName
	if userName == "" {
		userName = msg.From.Username
	}

	incoming := &database.Message{
		ChatID:    chatID,
		UserID:    msg.From.ID,
		UserName:  userName,
		Content:   msg.Text,
		Timestamp: time.Unix(int64(msg.Date), 0).UTC(),
	}
	saveMessageWithRetry(ctx, deps, incoming, "incoming message")

	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	history, err := deps.Store.GetRecentMessages(ctx, chatID, deps.Config.AI.History+1)
	if err != nil {
		log.ErrorContext(ctx, "Failed to retrieve message history", "error", err, "chat_id", chatID)
		history = nil
	}

	// The query only sees the incoming message if its save succeeded.
	if !containsMessage(history, incoming) {
		history = append(history, incoming)
	}

	aiCtx, cancel := context.WithTimeout(ctx, deps.Config.AI.Timeout)
	defer cancel()

	reply, err := deps.AI.GenerateReply(aiCtx, history, deps.Config.Telegram.BotInfo.ID)
	if err != nil {
		log.ErrorContext(ctx, "AI generation failed", "error", err, "chat_id", chatID)
		if _, sendErr := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: deps.Config.Telegram.Messages.GeneralError}); sendErr != nil {
			log.ErrorContext(ctx, "Failed to send AI error message", "error", sendErr, "chat_id", chatID)
		}
		return
	}

	if reply == "" {
		log.WarnContext(ctx, "Empty AI response received, using fallback", "chat_id", chatID)
		reply = deps.Config.Telegram.Messages.EmptyReply
	}

	h.sendAndSaveReply(ctx, b, chatID, reply)
}

func (h chatHandler) sendAndSaveReply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	for _, part := range splitMessage(text, maxMessageLength) {
		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		sent, err := b.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: part})
		cancel()
		if err != nil {
			log.ErrorContext(ctx, "Failed to send reply message", "error", err, "chat_id", chatID)
			return
		}
		log.DebugContext(ctx, "Sent reply", "chat_id", chatID, "message_id", sent.ID)
	}

	botID := deps.Config.Telegram.BotInfo.ID
	if botID == 0 {
		log.WarnContext(ctx, "Bot ID unknown, skipping saving bot reply", "chat_id", chatID)
		return
	}

	replyMsg := &database.Message{
		ChatID:    chatID,
		UserID:    botID,
		UserName:  deps.Config.Telegram.BotInfo.FirstName,
		Content:   text,
		Timestamp: time.Now().UTC(),
	}
	saveMessageWithRetry(ctx, deps, replyMsg, "bot reply")
}

// containsMessage reports whether the fetched history includes the given
// saved message. A message whose save failed has no ID and is never
// contained.
func containsMessage(history []*database.Message, msg *database.Message) bool {
	if msg.ID == 0 {
		return false
	}
	for _, m := range history {
		if m != nil && m.ID == msg.ID {
			return true
		}
	}
	return false
}

// splitMessage breaks text into chunks of at most limit characters,
// preferring to split at line breaks, then at spaces.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= limit {
			parts = append(parts, string(runes))
			break
		}

		cut := limit
		window := runes[:limit]
		if idx := lastIndexRune(window, '\n'); idx > 0 {
			cut = idx + 1
		} else if idx := lastIndexRune(window, ' '); idx > 0 {
			cut = idx + 1
		}

		parts = append(parts, strings.TrimRight(string(runes[:cut]), " \n"))
		runes = runes[cut:]
	}
	return parts
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func saveMessageWithRetry(ctx context.Context, deps HandlerDeps, msg *database.Message, msgType string) {
	log := deps.Logger.With("handler", "chat")
	const maxRetries = 3
	var err error

	for i := range maxRetries {
		if ctx.Err() != nil {
			log.WarnContext(ctx, fmt.Sprintf("Context cancelled, aborting %s save attempts", msgType),
				"error", ctx.Err(), "chat_id", msg.ChatID, "attempt", i+1)
			return
		}

		dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
		err = deps.Store.SaveMessage(dbCtx, msg)
		cancel()

		if err == nil {
			log.DebugContext(ctx, fmt.Sprintf("%s saved", msgType), "db_message_id", msg.ID, "chat_id", msg.ChatID)
			return
		}

		log.ErrorContext(ctx, fmt.Sprintf("Failed to save %s, retrying", msgType), "error", err, "chat_id", msg.ChatID, "attempt", i+1)
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}

	log.ErrorContext(ctx, fmt.Sprintf("Failed to save %s after %d retries", msgType, maxRetries), "last_error", err, "chat_id", msg.ChatID)
}
