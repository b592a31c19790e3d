// Package menu 週菜單、熱量目標與各餐區間的 HTTP 處理器
package menu

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	coremenu "meal-planner/internal/core/menu"
	"meal-planner/internal/core/nutrition"

	"github.com/gin-gonic/gin"
)

// Handler 菜單處理器
type Handler struct {
	planner *coremenu.Planner
}

// NewHandler 創建菜單處理器
func NewHandler(planner *coremenu.Planner) *Handler {
	return &Handler{planner: planner}
}

// PlanResponse 週菜單回應；menu 欄位可直接送回儲存或產生購物清單
type PlanResponse struct {
	Target   nutrition.Target     `json:"target"`
	Bands    []nutrition.Band     `json:"bands"`
	Keywords []string             `json:"keywords,omitempty"`
	Menu     *coremenu.WeeklyPlan `json:"menu"`
}

// NewPlanResponse 將週菜單包裝為回應
func NewPlanResponse(plan *coremenu.WeeklyPlan) PlanResponse {
	return PlanResponse{
		Target:   plan.Target,
		Bands:    nutrition.SortedBands(plan.Bands),
		Keywords: plan.Keywords,
		Menu:     plan,
	}
}

// Weekly 處理 POST /menu/weekly
func (h *Handler) Weekly(c *gin.Context) {
	var req coremenu.PlanRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	plan, err := h.planner.AssembleWeeklyPlan(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPlanResponse(plan))
}

// TargetRequest 熱量目標請求：指定 calories，或提供 bmr/activity/goal
type TargetRequest struct {
	Calories *int    `json:"calories"`
	BMR      float64 `json:"bmr"`
	Activity string  `json:"activity"`
	Goal     string  `json:"goal"`
}

// Target 處理 POST /menu/target
func (h *Handler) Target(c *gin.Context) {
	var req TargetRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	profile := &nutrition.Profile{BMR: req.BMR, Activity: req.Activity, Goal: req.Goal}
	target, err := nutrition.Resolver{}.Resolve(req.Calories, profile)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// BandsRequest 各餐區間請求；meal_ratios 省略時使用預設比例
type BandsRequest struct {
	Calories   int                `json:"calories"`
	MealRatios map[string]float64 `json:"meal_ratios"`
}

// Bands 處理 POST /menu/bands
func (h *Handler) Bands(c *gin.Context) {
	var req BandsRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	bands, err := h.planner.AllocateBands(req.Calories, req.MealRatios)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bands": nutrition.SortedBands(bands)})
}
