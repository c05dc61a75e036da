package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dsemenov/yagptbot/internal/config"
	"github.com/dsemenov/yagptbot/internal/database"
)

// yandexClient talks to YandexGPT through the OpenAI-compatible chat
// completions endpoint of Yandex Cloud. Models are addressed with the
// gpt://<folder_id>/<model> URI.
type yandexClient struct {
	client      *openai.Client
	log         *slog.Logger
	model       string
	temperature float32
	maxTokens   int
	instruction string
	window      int
	maxRetries  int
	retryDelay  time.Duration
}

func newYandexClient(cfg config.AIConfig, log *slog.Logger) (*yandexClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("yandex API key is required")
	}
	if cfg.FolderID == "" {
		return nil, errors.New("yandex folder ID is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	model := fmt.Sprintf("gpt://%s/%s", cfg.FolderID, cfg.Model)

	logger := log.With("component", "yandex_client")
	logger.Info("YandexGPT client initialized", "model", model, "base_url", cfg.BaseURL)

	return &yandexClient{
		client:      openai.NewClientWithConfig(clientCfg),
		log:         logger,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		instruction: cfg.Instruction,
		window:      cfg.History,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
	}, nil
}

func (c *yandexClient) GenerateReply(ctx context.Context, messages []*database.Message, botID int64) (string, error) {
	prompt := buildMessages(c.instruction, messages, botID, c.window)

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, m := range prompt {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	c.log.DebugContext(ctx, "Sending chat completion request", "messages", len(chatMessages))

	resp, err := c.createWithRetries(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("yandex chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("yandex returned no response choices")
	}

	reply := cleanReply(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("yandex returned an empty completion")
	}

	c.log.DebugContext(ctx, "Chat completion received", "total_tokens", resp.Usage.TotalTokens)
	return reply, nil
}

// createWithRetries retries the completion call on 500/503 responses with a
// fixed delay, the same policy the Gemini client applies.
func (c *yandexClient) createWithRetries(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}

		var apiErr *openai.APIError
		retriable := errors.As(err, &apiErr) &&
			(apiErr.HTTPStatusCode == http.StatusInternalServerError || apiErr.HTTPStatusCode == http.StatusServiceUnavailable)
		if !retriable {
			c.log.ErrorContext(ctx, "Chat completion failed with non-retriable error", "error", err)
			return resp, err
		}

		if i < c.maxRetries {
			c.log.WarnContext(ctx, "Chat completion failed, retrying",
				"attempt", i+1, "max_retries", c.maxRetries, "status", apiErr.HTTPStatusCode, "delay", c.retryDelay)
			select {
			case <-ctx.Done():
				return resp, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}

	c.log.ErrorContext(ctx, "Chat completion failed after retries", "retries", c.maxRetries, "error", err)
	return resp, fmt.Errorf("failed after %d retries: %w", c.maxRetries, err)
}
