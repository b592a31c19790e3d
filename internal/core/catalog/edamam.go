package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const searchPath = "/api/recipes/v2"

// 向目錄索取的欄位
var recipeFields = []string{
	"uri", "label", "image", "source", "url", "yield", "ingredientLines",
	"calories", "totalTime", "mealType", "totalNutrients",
}

// EdamamClient Edamam Recipe Search v2 客戶端
type EdamamClient struct {
	cfg    config.EdamamConfig
	client *resty.Client
}

// NewEdamamClient 創建 Edamam 客戶端
func NewEdamamClient(cfg config.EdamamConfig) *EdamamClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.AccountUser != "" {
		client.SetHeader("Edamam-Account-User", cfg.AccountUser)
	}

	return &EdamamClient{
		cfg:    cfg,
		client: client,
	}
}

// Configured 是否具備查詢所需的憑證
func (c *EdamamClient) Configured() bool {
	return c.cfg.AppID != "" && c.cfg.AppKey != ""
}

// Search 依條件查詢食譜
//
// 任何傳輸或格式錯誤都包裝為 ErrUnavailable。
func (c *EdamamClient) Search(ctx context.Context, q Query) ([]RawCandidate, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("%w: missing app_id or app_key", ErrUnavailable)
	}

	start := time.Now()
	candidates, err := c.search(ctx, q)
	common.LogCatalogCall(q.MealType, q.CalorieRange, len(candidates), time.Since(start), err)
	return candidates, err
}

func (c *EdamamClient) search(ctx context.Context, q Query) ([]RawCandidate, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(c.params(q))

	resp, err := req.Get(searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogDebug("Edamam returned error",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", truncate(resp.String(), 200)),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed response body", ErrUnavailable)
	}

	return DecodeHits(body, q.Count), nil
}

func (c *EdamamClient) params(q Query) url.Values {
	p := url.Values{
		"type":     {"public"},
		"app_id":   {c.cfg.AppID},
		"app_key":  {c.cfg.AppKey},
		"calories": {q.CalorieRange},
		"random":   {"true"},
		"field":    recipeFields,
	}
	if q.Diet != "" {
		p["diet"] = []string{q.Diet}
	}
	if len(q.Health) > 0 {
		p["health"] = q.Health
	}
	if len(q.Excluded) > 0 {
		p["excluded"] = q.Excluded
	}
	if kw := strings.TrimSpace(strings.Join(q.Keywords, " ")); kw != "" {
		p["q"] = []string{kw}
	}
	if q.MealType != "" {
		p["mealType"] = []string{q.MealType}
	}
	return p
}

// DecodeHits 解析 hits[].recipe，最多回傳 limit 筆（limit <= 0 表示不限）
func DecodeHits(body []byte, limit int) []RawCandidate {
	hits := gjson.GetBytes(body, "hits.#.recipe").Array()
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]RawCandidate, 0, len(hits))
	for _, h := range hits {
		if !h.IsObject() {
			continue
		}
		out = append(out, decodeRecipe(h))
	}
	return out
}

func decodeRecipe(r gjson.Result) RawCandidate {
	c := RawCandidate{
		Label:    optionalString(r.Get("label")),
		URL:      optionalString(r.Get("url")),
		Image:    r.Get("image").String(),
		Source:   r.Get("source").String(),
		Yield:    number(r.Get("yield")),
		Calories: number(r.Get("calories")),
	}

	if lines := r.Get("ingredientLines"); lines.IsArray() {
		c.IngredientLinesOK = true
		for _, l := range lines.Array() {
			if l.Type != gjson.String {
				c.IngredientLinesOK = false
				c.IngredientLines = nil
				break
			}
			c.IngredientLines = append(c.IngredientLines, l.Str)
		}
	}

	if nutrients := r.Get("totalNutrients"); nutrients.IsObject() {
		c.Nutrients = make(map[string]float64)
		nutrients.ForEach(func(code, n gjson.Result) bool {
			if qty := n.Get("quantity"); qty.Type == gjson.Number {
				c.Nutrients[code.String()] = qty.Float()
			}
			return true
		})
	}
	return c
}

func optionalString(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}

// 數字或數字字串，其餘為 0
func number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		if v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64); err == nil {
			return v
		}
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
