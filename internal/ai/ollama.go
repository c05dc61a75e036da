package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dsemenov/yagptbot/internal/config"
	"github.com/dsemenov/yagptbot/internal/database"
)

// ollamaClient talks to a local Ollama server's /api/chat endpoint.
type ollamaClient struct {
	httpClient  *http.Client
	log         *slog.Logger
	baseURL     string
	model       string
	temperature float32
	maxTokens   int
	instruction string
	window      int
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
}

func newOllamaClient(cfg config.AIConfig, log *slog.Logger) (*ollamaClient, error) {
	if cfg.Ollama.BaseURL == "" {
		return nil, errors.New("ollama base URL is required")
	}

	logger := log.With("component", "ollama_client")
	logger.Info("Ollama client initialized", "model", cfg.Ollama.Model, "base_url", cfg.Ollama.BaseURL)

	return &ollamaClient{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         logger,
		baseURL:     cfg.Ollama.BaseURL,
		model:       cfg.Ollama.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		instruction: cfg.Instruction,
		window:      cfg.History,
	}, nil
}

func (c *ollamaClient) GenerateReply(ctx context.Context, messages []*database.Message, botID int64) (string, error) {
	reqBody := ollamaChatRequest{
		Model:    c.model,
		Messages: buildMessages(c.instruction, messages, botID, c.window),
		Stream:   false,
		Options: ollamaOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WarnContext(ctx, "Failed to close ollama response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}

	reply := cleanReply(chatResp.Message.Content)
	if reply == "" {
		return "", errors.New("ollama returned an empty completion")
	}
	return reply, nil
}
