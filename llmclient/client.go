// Package llmclient talks to the completion provider (an
// OpenRouter-compatible API) and, when configured, a local embedding
// server for hybrid search query vectors.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cartilha-backend/config"
	"cartilha-backend/web/types"

	apperrors "cartilha-backend/errors"

	"go.uber.org/zap"
)

type chatRequest struct {
	Model       string              `json:"model"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
	Messages    []types.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message types.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Embedding request/response mirror llama.cpp's expected schema
type embeddingRequest struct {
	Content string `json:"content"`
}

type embeddingResponse []struct {
	Embedding [][]float32 `json:"embedding"`
}

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.LLMRequestTimeout},
		logger:     logger,
	}
}

// Configured reports whether a completion API key is present. Without
// one the chat handler answers from retrieved entries alone.
func (c *Client) Configured() bool {
	return c.cfg.OpenRouterAPIKey != ""
}

// Chat performs a non-streaming chat completion call, retrying
// transient failures with a fixed delay.
func (c *Client) Chat(ctx context.Context, messages []types.ChatMessage) (string, error) {
	temperature := c.cfg.ChatTemperature
	reqBody := chatRequest{
		Model:       c.cfg.ChatModel,
		MaxTokens:   c.cfg.ChatMaxTokens,
		Temperature: &temperature,
		Messages:    messages,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", strings.TrimRight(c.cfg.OpenRouterHost, "/"))

	body, err := c.postWithRetry(ctx, url, jsonBody, c.cfg.OpenRouterAPIKey)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.WrapError(apperrors.ErrLLMCommunication, "completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for text from the configured
// embedding host. Errors when no host is configured.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	host := c.cfg.EmbeddingLLMHost
	if host == "" {
		return nil, apperrors.WrapError(apperrors.ErrServiceUnavailable, "no embedding host configured")
	}

	jsonBody, err := json.Marshal(embeddingRequest{Content: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	url := fmt.Sprintf("%s/embedding", strings.TrimRight(host, "/"))
	body, err := c.postWithRetry(ctx, url, jsonBody, "")
	if err != nil {
		return nil, err
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0].Embedding) == 0 || len(parsed[0].Embedding[0]) == 0 {
		return nil, apperrors.WrapError(apperrors.ErrLLMCommunication, "embedding response was empty")
	}
	return parsed[0].Embedding[0], nil
}

func (c *Client) postWithRetry(ctx context.Context, url string, jsonBody []byte, bearer string) ([]byte, error) {
	maxRetries := c.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			// Do not retry on context cancellation/deadline
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			c.logger.Warn("LLM request failed, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
				zap.String("url", url))
			c.sleep(ctx)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			c.sleep(ctx)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server returned %d: %s", resp.StatusCode, truncateBody(body))
			c.logger.Warn("LLM server error, retrying",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1))
			c.sleep(ctx)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, apperrors.WrapErrorf(apperrors.ErrLLMCommunication,
				"request rejected with status %d: %s", resp.StatusCode, truncateBody(body))
		}
		return body, nil
	}

	return nil, apperrors.WrapErrorf(apperrors.ErrLLMCommunication,
		"request failed after %d attempts: %v", maxRetries, lastErr)
}

func (c *Client) sleep(ctx context.Context) {
	delay := c.cfg.RetryDelaySeconds
	if delay <= 0 {
		delay = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func truncateBody(body []byte) string {
	const maxLen = 500
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
