package handlers

import (
	"context"
	"net/http"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Alternator 產生健康版食譜
type Alternator interface {
	Alternative(ctx context.Context, userPrompt string) (*ai.Response, error)
}

// AIHandler AI 處理器
type AIHandler struct {
	svc Alternator
}

// NewAIHandler 創建 AI 處理器；svc 為 nil 時所有請求回 503
func NewAIHandler(svc Alternator) *AIHandler {
	return &AIHandler{svc: svc}
}

// AlternativeRequest 健康版食譜請求
type AlternativeRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Alternative 處理 POST /ai/alternative，回傳 {"resultado": "..."}
func (h *AIHandler) Alternative(c *gin.Context) {
	if h.svc == nil {
		RespondError(c, common.ErrServiceUnavailable)
		return
	}

	var req AlternativeRequest
	if err := BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	resp, err := h.svc.Alternative(c.Request.Context(), req.Prompt)
	if err != nil {
		RespondError(c, err)
		return
	}

	common.LogDebug("健康版食譜完成",
		zap.String("provider", resp.Provider),
		zap.Bool("cache_hit", resp.CacheHit),
	)
	c.JSON(http.StatusOK, gin.H{"resultado": resp.Content})
}
