package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Edamam      EdamamConfig     `mapstructure:"edamam"`
	Planner     PlannerConfig    `mapstructure:"planner"`
	AI          AIConfig         `mapstructure:"ai"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Database    DatabaseConfig   `mapstructure:"database"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// EdamamConfig 外部食譜目錄設定
type EdamamConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AppID       string        `mapstructure:"app_id"`
	AppKey      string        `mapstructure:"app_key"`
	AccountUser string        `mapstructure:"account_user"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SearchProfile 一種菜單的配額與搜尋策略
type SearchProfile struct {
	Margin      float64 `mapstructure:"margin"`
	Widen       int     `mapstructure:"widen"`
	MaxAttempts int     `mapstructure:"max_attempts"`
	Oversample  int     `mapstructure:"oversample"`
}

// RecommendedConfig 推薦菜單設定
type RecommendedConfig struct {
	SearchProfile `mapstructure:",squash"`
	NumOptions    int                `mapstructure:"num_options"`
	Meals         []string           `mapstructure:"meals"`
	Ratios        map[string]float64 `mapstructure:"ratios"`
}

// PlannerConfig 菜單規劃設定
type PlannerConfig struct {
	Workers          int               `mapstructure:"workers"`
	FallbackCalories int               `mapstructure:"fallback_calories"`
	Plain            SearchProfile     `mapstructure:"plain"`
	Recommended      RecommendedConfig `mapstructure:"recommended"`
}

// AIConfig 生成式文字服務設定
type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// GeminiConfig Gemini 設定
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	v := viper.New()

	// .env 可有可無
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("edamam.app_id", "EDAMAM_APP_ID")
	v.BindEnv("edamam.app_key", "EDAMAM_APP_KEY")
	v.BindEnv("edamam.account_user", "EDAMAM_ACCOUNT_USER")
	v.BindEnv("gemini.api_key", "GOOGLE_API_KEY")
	v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("cache.enabled", "CACHE_ENABLED")
	v.BindEnv("cache.backend", "CACHE_BACKEND")
	v.BindEnv("cache.redis_addr", "REDIS_ADDR")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default 回傳只含預設值的設定，不讀取環境變數與 .env
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	return &config
}

// MaskSecret 遮罩憑證，只顯示前後各 4 個字符
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "meal-planner")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "170s")
	v.SetDefault("server.max_body_bytes", 2<<20)

	v.SetDefault("edamam.base_url", "https://api.edamam.com")
	v.SetDefault("edamam.account_user", "meal-planner")
	v.SetDefault("edamam.timeout", "20s")

	v.SetDefault("planner.workers", 4)
	v.SetDefault("planner.fallback_calories", 2000)
	v.SetDefault("planner.plain.margin", 0.15)
	v.SetDefault("planner.plain.widen", 100)
	v.SetDefault("planner.plain.max_attempts", 50)
	v.SetDefault("planner.plain.oversample", 2)
	v.SetDefault("planner.recommended.margin", 0.20)
	v.SetDefault("planner.recommended.widen", 150)
	v.SetDefault("planner.recommended.max_attempts", 3)
	v.SetDefault("planner.recommended.oversample", 2)
	v.SetDefault("planner.recommended.num_options", 3)
	v.SetDefault("planner.recommended.meals", []string{"desayuno", "comida", "cena"})
	v.SetDefault("planner.recommended.ratios", map[string]float64{"desayuno": 0.30, "comida": 0.40, "cena": 0.30})

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "google/gemini-2.0-flash-001")
	v.SetDefault("openrouter.max_tokens", 1500)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("database.path", "data/meal-planner.db")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
}

func validateProfile(name string, p SearchProfile) error {
	if p.Margin <= 0 || p.Margin >= 1 {
		return fmt.Errorf("%s margin must be in (0,1)", name)
	}
	if p.Widen <= 0 {
		return fmt.Errorf("%s widen must be positive", name)
	}
	if p.MaxAttempts < 1 {
		return fmt.Errorf("%s max attempts must be at least 1", name)
	}
	if p.Oversample < 1 {
		return fmt.Errorf("%s oversample must be at least 1", name)
	}
	return nil
}

// Validate 驗證設定
func Validate(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Enabled {
		if config.Cache.Backend != "memory" && config.Cache.Backend != "redis" {
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Planner.Workers < 1 {
		return fmt.Errorf("invalid planner workers")
	}
	if config.Planner.FallbackCalories <= 0 {
		return fmt.Errorf("invalid planner fallback calories")
	}
	if err := validateProfile("plain", config.Planner.Plain); err != nil {
		return err
	}
	if err := validateProfile("recommended", config.Planner.Recommended.SearchProfile); err != nil {
		return err
	}
	if config.Planner.Recommended.NumOptions < 1 {
		return fmt.Errorf("invalid recommended num options")
	}

	switch config.AI.Provider {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("unknown ai provider %q", config.AI.Provider)
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	return nil
}
