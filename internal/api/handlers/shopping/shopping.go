// Package shopping 購物清單的 HTTP 處理器
package shopping

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	coreshopping "meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Generate 處理 POST /shopping-list
//
// 請求體為 {"menu": {day: {meal: recipe}}}；格式不符的個別項目略過，
// 回應是依名稱排序的 {name: {amount, unit}}。
func Generate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		handlers.RespondError(c, common.NewValidationErrorf("read request body: %v", err))
		return
	}

	menu, err := coreshopping.DecodeMenu(raw)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	list := coreshopping.Aggregate(menu)
	common.LogDebug("購物清單完成",
		zap.Int("days", len(menu)),
		zap.Int("items", len(list)),
	)
	c.JSON(http.StatusOK, list)
}
