package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// MaxPromptLength 使用者描述的長度上限
const MaxPromptLength = 4000

const alternativeTemplate = "Eres un nutricionista experto en hacer recetas saludables. Usuario: %s. " +
	"Responde con una receta alternativa más saludable, enfocada en reducir calorías, grasas y azúcares. " +
	"Incluye información nutricional detallada total(calorías, grasas, azúcares) y las diferencias con la receta tradicional."

// Service 健康版食譜改寫服務
type Service struct {
	provider provider.Provider
	cache    cache.Cache
	timeout  time.Duration
}

// NewService 創建 AI 服務；c 可為 nil
func NewService(p provider.Provider, c cache.Cache, timeout time.Duration) *Service {
	return &Service{
		provider: p,
		cache:    c,
		timeout:  timeout,
	}
}

// BuildAlternativePrompt 將使用者描述包成營養師指示
func BuildAlternativePrompt(userPrompt string) string {
	return fmt.Sprintf(alternativeTemplate, userPrompt)
}

// normalizePrompt 合併空白，確保快取 key 一致
func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}

// Alternative 產生較健康的替代食譜
func (s *Service) Alternative(ctx context.Context, userPrompt string) (*ai.Response, error) {
	prompt := normalizePrompt(userPrompt)
	if prompt == "" {
		return nil, common.NewValidationError("prompt is required")
	}
	if len([]rune(prompt)) > MaxPromptLength {
		return nil, common.NewValidationErrorf("prompt must be at most %d characters", MaxPromptLength)
	}

	key := cache.Key("alternative", strings.ToLower(prompt))
	if s.cache != nil {
		val, err := s.cache.Get(ctx, key)
		if err == nil && val != "" {
			return &ai.Response{Content: val, Provider: s.provider.Name(), CacheHit: true}, nil
		}
		if err != nil && !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.Error(err))
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := s.provider.Generate(ctx, BuildAlternativePrompt(prompt))
	common.LogAICall(s.provider.Name(), time.Since(start), err)
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, content); err != nil {
			common.LogWarn("寫入快取失敗", zap.Error(err))
		}
	}

	return &ai.Response{Content: content, Provider: s.provider.Name()}, nil
}

// CacheStats 記憶體快取的命中統計；未啟用快取或後端不提供統計時回傳 nil
func (s *Service) CacheStats() map[string]interface{} {
	if sc, ok := s.cache.(interface{ GetStats() map[string]interface{} }); ok {
		return sc.GetStats()
	}
	return nil
}

// Close 關閉提供者與快取
func (s *Service) Close() error {
	var errs []error
	if err := s.provider.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
