// Package user 使用者資料、收藏、已存菜單與推薦菜單的 HTTP 處理器
//
// 不做身分驗證，路徑中的 username 即代表使用者。
package user

import (
	"context"
	"errors"
	"net/http"

	"meal-planner/internal/api/handlers"
	menuHandler "meal-planner/internal/api/handlers/menu"
	coremenu "meal-planner/internal/core/menu"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Store 使用者資料的儲存
type Store interface {
	SaveProfile(ctx context.Context, p store.Profile) (*store.Profile, error)
	GetProfile(ctx context.Context, username string) (*store.Profile, error)
	AddFavorite(ctx context.Context, username string, f store.Favorite) (bool, error)
	RemoveFavorite(ctx context.Context, username, url string) (bool, error)
	Favorites(ctx context.Context, username string) ([]store.Favorite, error)
	FavoriteLabels(ctx context.Context, username string) ([]string, error)
	SaveMenu(ctx context.Context, username string, menu []byte) (*store.SavedMenu, error)
	LatestMenu(ctx context.Context, username string) (*store.SavedMenu, error)
}

// Handler 使用者處理器
type Handler struct {
	store   Store
	planner *coremenu.Planner
}

// NewHandler 創建使用者處理器
func NewHandler(s Store, planner *coremenu.Planner) *Handler {
	return &Handler{store: s, planner: planner}
}

// ProfileRequest 使用者資料；username 取自路徑
type ProfileRequest struct {
	Email    string  `json:"email"`
	Age      int     `json:"age"`
	Sex      string  `json:"sex"`
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
	Activity string  `json:"activity"`
	Goal     string  `json:"goal"`
}

// PutProfile 處理 PUT /users/:username/profile
func (h *Handler) PutProfile(c *gin.Context) {
	var req ProfileRequest
	if err := handlers.BindJSON(c, &req); err != nil {
		handlers.RespondError(c, err)
		return
	}

	saved, err := h.store.SaveProfile(c.Request.Context(), store.Profile{
		Username: c.Param("username"),
		Email:    req.Email,
		Age:      req.Age,
		Sex:      req.Sex,
		HeightCm: req.HeightCm,
		WeightKg: req.WeightKg,
		Activity: req.Activity,
		Goal:     req.Goal,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GetProfile 處理 GET /users/:username/profile
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.store.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// decodeFavorite 接受 {"receta": {...}} 或直接的食譜物件
func decodeFavorite(raw []byte) (store.Favorite, error) {
	if !gjson.ValidBytes(raw) {
		return store.Favorite{}, common.NewValidationError("favorite is not valid JSON")
	}
	r := gjson.ParseBytes(raw)
	if wrapped := r.Get("receta"); wrapped.IsObject() {
		r = wrapped
	}
	if !r.IsObject() {
		return store.Favorite{}, common.NewValidationError("favorite must be a JSON object")
	}

	url := r.Get("recipe_url").String()
	if url == "" {
		url = r.Get("url").String()
	}
	return store.Favorite{
		Label:    r.Get("label").String(),
		URL:      url,
		Image:    r.Get("image").String(),
		Calories: r.Get("calories").Float(),
	}, nil
}

// AddFavorite 處理 POST /users/:username/favorites
func (h *Handler) AddFavorite(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		handlers.RespondError(c, common.NewValidationErrorf("read request body: %v", err))
		return
	}
	fav, err := decodeFavorite(raw)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	added, err := h.store.AddFavorite(c.Request.Context(), c.Param("username"), fav)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"added": added, "recipe_url": fav.URL})
}

// ListFavorites 處理 GET /users/:username/favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	favorites, err := h.store.Favorites(c.Request.Context(), c.Param("username"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favoritas": favorites})
}

// RemoveFavorite 處理 DELETE /users/:username/favorites?recipe_url=...
func (h *Handler) RemoveFavorite(c *gin.Context) {
	url := c.Query("recipe_url")
	removed, err := h.store.RemoveFavorite(c.Request.Context(), c.Param("username"), url)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if !removed {
		handlers.RespondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true, "recipe_url": url})
}

// SaveMenu 處理 POST /users/:username/menu
func (h *Handler) SaveMenu(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		handlers.RespondError(c, common.NewValidationErrorf("read request body: %v", err))
		return
	}
	saved, err := h.store.SaveMenu(c.Request.Context(), c.Param("username"), raw)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": saved.ID, "created_at": saved.CreatedAt})
}

// LatestMenu 處理 GET /users/:username/menu，原樣回傳儲存的內容
func (h *Handler) LatestMenu(c *gin.Context) {
	saved, err := h.store.LatestMenu(c.Request.Context(), c.Param("username"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Header("X-Menu-ID", saved.ID)
	c.Data(http.StatusOK, "application/json; charset=utf-8", saved.Menu)
}

// Analysis 處理 GET /users/:username/menu/analysis
func (h *Handler) Analysis(c *gin.Context) {
	saved, err := h.store.LatestMenu(c.Request.Context(), c.Param("username"))
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	analysis, err := coremenu.AnalyzeSavedMenu(saved.Menu)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// RecommendedRequest 推薦菜單請求
type RecommendedRequest struct {
	TargetCalories *int `json:"target_calories"`
}

// Recommended 處理 POST /users/:username/menu/recommended
//
// 沒有使用者資料時必須指定 target_calories。
func (h *Handler) Recommended(c *gin.Context) {
	var req RecommendedRequest
	if c.Request.ContentLength != 0 {
		if err := handlers.BindJSON(c, &req); err != nil {
			handlers.RespondError(c, err)
			return
		}
	}

	ctx := c.Request.Context()
	username := c.Param("username")

	rec := coremenu.RecommendedRequest{Calories: req.TargetCalories}
	profile, err := h.store.GetProfile(ctx, username)
	switch {
	case err == nil:
		rec.Profile = profile.Nutrition()
	case errors.Is(err, common.ErrProfileMissing) && req.TargetCalories != nil:
	default:
		handlers.RespondError(c, err)
		return
	}

	rec.Favorites, err = h.store.FavoriteLabels(ctx, username)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	plan, err := h.planner.AssembleRecommendedPlan(ctx, rec)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	common.LogInfo("推薦菜單完成",
		zap.String("username", username),
		zap.Int("daily_calories", plan.Target.Calories),
		zap.Strings("keywords", plan.Keywords),
	)
	c.JSON(http.StatusOK, menuHandler.NewPlanResponse(plan))
}
