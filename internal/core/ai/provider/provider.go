package provider

import (
	"context"
	"errors"
	"fmt"

	"meal-planner/internal/infrastructure/config"
)

// ErrNotConfigured 缺少 API 金鑰
var ErrNotConfigured = errors.New("ai provider not configured")

// Provider 定義 AI 提供者介面
type Provider interface {
	// Name 提供者名稱，用於日誌
	Name() string

	// Generate 依 prompt 產生文字
	Generate(ctx context.Context, prompt string) (string, error)

	// Close 關閉提供者連接
	Close() error
}

// New 依設定建立提供者
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.AI.Provider {
	case "gemini":
		g, err := NewGemini(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openrouter":
		o, err := NewOpenRouter(cfg.OpenRouter)
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}
