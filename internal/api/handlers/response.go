// Package handlers 放置 HTTP 處理器共用的回應工具與 AI 處理器
package handlers

import (
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 依錯誤類型回傳統一格式的錯誤響應
func RespondError(c *gin.Context, err error) {
	status, body := common.NewErrorResponse(err, gin.IsDebugging())
	if status >= 500 {
		common.LogError("處理請求失敗",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// BindJSON 解析請求體，失敗時回傳驗證錯誤
func BindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return common.NewValidationErrorf("invalid request body: %v", err)
	}
	return nil
}
