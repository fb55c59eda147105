package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"geochat/internal/config"
)

// ChatModel is the interface the pipeline uses for both generation phases.
// Complete returns the raw message content in whatever shape the provider
// produced it; callers normalize it.
type ChatModel interface {
	Complete(ctx context.Context, system, user string, temperature float64) (any, error)
	IsEnabled() bool
}

// LLMClient handles OpenAI-compatible chat API interactions
type LLMClient struct {
	config     *config.LLMConfig
	httpClient *http.Client
}

var _ ChatModel = (*LLMClient)(nil)

// NewLLMClient creates a new OpenAI-compatible chat client
func NewLLMClient(cfg *config.LLMConfig) *LLMClient {
	return &LLMClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *LLMClient) IsEnabled() bool {
	return c.config.Enabled
}

// chatMessage represents a single message in the conversation
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest represents a chat completion request
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatCompletionResponse represents the API response. Content is decoded as
// `any` on purpose: some providers return a plain string, others a content
// block or a list of blocks. The normalizer deals with all of them.
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content any    `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete performs a single chat completion and returns the raw content of
// the first choice. One request triggers at most one call here per phase;
// there are no retries.
func (c *LLMClient) Complete(ctx context.Context, system, user string, temperature float64) (any, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("LLM API is not enabled (missing API key)")
	}

	req := chatCompletionRequest{
		Model:       c.config.Model,
		Temperature: temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if system != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: system})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: user})

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}
