// Package ai 生成式文字服務：健康版食譜改寫
package ai

// Response AI 回應
type Response struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	CacheHit bool   `json:"cache_hit"`
}
