package api

import (
	"fmt"
	"time"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/api/handlers/health"
	menuHandler "meal-planner/internal/api/handlers/menu"
	shoppingHandler "meal-planner/internal/api/handlers/shopping"
	userHandler "meal-planner/internal/api/handlers/user"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/menu"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 170 * time.Second
	defaultMaxBodySize    = 2 << 20
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Planner *menu.Planner
	Store   userHandler.Store
	// DB 供就緒檢查；可為 nil
	DB health.Pinger
	// AI 未設定時為 nil，/ai/alternative 回 503
	AI handlers.Alternator
	// CatalogConfigured 外部食譜目錄是否有憑證
	CatalogConfigured bool
}

// SetupRouter 設置路由；回傳的 cleanup 停止中間件的背景工作
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, func(), error) {
	if deps.Planner == nil || deps.Store == nil {
		return nil, nil, fmt.Errorf("planner and store are required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "X-Menu-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.BodySizeLimit(maxBody))

	cacheStats, _ := deps.AI.(health.CacheStatser)
	healthH := health.NewHandler(cfg.App.Version, deps.DB, map[string]bool{
		"catalog": deps.CatalogConfigured,
		"ai":      deps.AI != nil,
		"cache":   cfg.Cache.Enabled,
	}, cacheStats)
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)

	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	v1.Use(dedup.Middleware())
	v1.Use(middleware.Timeout(timeout))
	{
		menuH := menuHandler.NewHandler(deps.Planner)
		menuGroup := v1.Group("/menu")
		{
			menuGroup.POST("/weekly", menuH.Weekly)
			menuGroup.POST("/target", menuH.Target)
			menuGroup.POST("/bands", menuH.Bands)
		}

		v1.POST("/shopping-list", shoppingHandler.Generate)

		aiH := handlers.NewAIHandler(deps.AI)
		v1.POST("/ai/alternative", aiH.Alternative)

		userH := userHandler.NewHandler(deps.Store, deps.Planner)
		users := v1.Group("/users/:username")
		{
			users.PUT("/profile", userH.PutProfile)
			users.GET("/profile", userH.GetProfile)

			users.POST("/favorites", userH.AddFavorite)
			users.GET("/favorites", userH.ListFavorites)
			users.DELETE("/favorites", userH.RemoveFavorite)

			users.POST("/menu", userH.SaveMenu)
			users.GET("/menu", userH.LatestMenu)
			users.GET("/menu/analysis", userH.Analysis)
			users.POST("/menu/recommended", userH.Recommended)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("catalog_configured", deps.CatalogConfigured),
		zap.Bool("ai_enabled", deps.AI != nil),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBody),
	)

	return router, dedup.Close, nil
}
