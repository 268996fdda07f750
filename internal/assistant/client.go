package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carbonctrl/carbonctrl/internal/config"
	obstracing "github.com/carbonctrl/carbonctrl/internal/observability/tracing"
	"go.uber.org/zap"
)

const systemPrompt = "You are an expert environmental educator and sustainability consultant. " +
	"Provide helpful, accurate, and engaging responses about environmental topics, climate change, " +
	"sustainability, and eco-friendly practices. Always be encouraging and educational."

// Client sends a prompt to the completion endpoint and returns the model's
// reply as plain text.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type openAIClient struct {
	log        *zap.Logger
	cfg        config.AssistantConfig
	httpClient *http.Client
}

// NewClient builds the chat-completions client. The underlying transport is
// wrapped so outbound calls carry trace context.
func NewClient(log *zap.Logger, cfg config.AssistantConfig) Client {
	return &openAIClient{
		log:        log.Named("assistant.client"),
		cfg:        cfg,
		httpClient: obstracing.WrapHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var payload chatResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	content := strings.TrimSpace(payload.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("completion response missing content")
	}
	return content, nil
}
