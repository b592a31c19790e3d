package provider

import (
	"context"
	"fmt"
	"net/http"

	"meal-planner/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// OpenRouter OpenRouter 提供者
type OpenRouter struct {
	cfg    config.OpenRouterConfig
	client *resty.Client
}

// NewOpenRouter 創建 OpenRouter 提供者
func NewOpenRouter(cfg config.OpenRouterConfig) (*OpenRouter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENROUTER_API_KEY is empty", ErrNotConfigured)
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("X-Title", "Meal Planner")

	return &OpenRouter{
		cfg:    cfg,
		client: client,
	}, nil
}

// Name 實作 Provider
func (o *OpenRouter) Name() string {
	return "openrouter:" + o.cfg.Model
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate 實作 Provider
func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"model": o.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": o.cfg.MaxTokens,
	}

	var result chatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}

// Close 實作 Provider
func (o *OpenRouter) Close() error {
	return nil
}
