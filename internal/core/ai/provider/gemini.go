package provider

import (
	"context"
	"fmt"

	"meal-planner/internal/infrastructure/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini Google Gemini 提供者
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGemini 創建 Gemini 提供者
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY is empty", ErrNotConfigured)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(cfg.Model),
		name:   "gemini:" + cfg.Model,
	}, nil
}

// Name 實作 Provider
func (g *Gemini) Name() string {
	return g.name
}

// Generate 實作 Provider
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	if text == "" {
		return "", fmt.Errorf("generated content is not text")
	}
	return text, nil
}

// Close 實作 Provider
func (g *Gemini) Close() error {
	return g.client.Close()
}
