package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/go-resty/resty/v2"
)

type OpenAICompleter struct {
	client      *resty.Client
	model       string
	temperature float64
}

func NewOpenAICompleter(cfg *config.Config) *OpenAICompleter {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 20
	}

	client := resty.New().
		SetBaseURL(cfg.OpenAIBaseURL).
		SetAuthToken(cfg.OpenAIAPIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(time.Duration(timeoutSeconds) * time.Second)

	return &OpenAICompleter{
		client:      client,
		model:       cfg.OpenAIModel,
		temperature: cfg.AITemperature,
	}
}

func (c *OpenAICompleter) Model() string {
	return c.model
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatCompletionsRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: openai request: %w", ErrCompletionFailed, err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("%w: openai returned status %d: %s", ErrCompletionFailed, resp.StatusCode(), truncate(resp.String(), 200))
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("%w: decode openai response: %w", ErrCompletionFailed, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: openai response does not contain choices", ErrCompletionFailed)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
