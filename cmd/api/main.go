package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/menu"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("database", cfg.Database.Path),
		zap.String("edamam_app_key", config.MaskSecret(cfg.Edamam.AppKey)),
	)

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	edamam := catalog.NewEdamamClient(cfg.Edamam)
	if !edamam.Configured() {
		common.LogWarn("Edamam 憑證未設定，所有餐次都會找不到食譜")
	}
	planner := menu.NewPlanner(edamam, cfg.Planner)

	deps := api.Dependencies{
		Planner:           planner,
		Store:             db,
		DB:                db,
		CatalogConfigured: edamam.Configured(),
	}

	if aiSvc := newAIService(cfg); aiSvc != nil {
		defer aiSvc.Close()
		deps.AI = aiSvc
	}

	router, cleanup, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// newAIService 建立健康版食譜服務；provider 未設定時回傳 nil，該端點回 503
func newAIService(cfg *config.Config) *service.Service {
	p, err := provider.New(context.Background(), cfg)
	if err != nil {
		if errors.Is(err, provider.ErrNotConfigured) {
			common.LogWarn("AI provider 未設定，/ai/alternative 停用", zap.String("provider", cfg.AI.Provider))
		} else {
			common.LogError("Failed to initialize AI provider", zap.Error(err))
		}
		return nil
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		common.LogWarn("AI 快取初始化失敗，改為不使用快取", zap.Error(err))
		c = nil
	}
	return service.NewService(p, c, cfg.AI.Timeout)
}
