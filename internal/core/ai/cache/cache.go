package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"meal-planner/internal/infrastructure/config"
)

// Cache AI 回應快取
type Cache interface {
	// Get 未命中時回傳 common.ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New 依設定建立快取；停用時回傳 nil
func New(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case "redis":
		r, err := NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	case "memory", "":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Key 產生快取鍵
func Key(kind, prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(hash[:]))
}
