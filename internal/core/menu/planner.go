package menu

import (
	"context"
	"strings"
	"time"

	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/nutrition"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MinOptionsPerMeal     = 1
	MaxOptionsPerMeal     = 4
	DefaultOptionsPerMeal = 3
)

// Days 菜單的固定日期順序
var Days = []string{"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo"}

// DefaultMeals 預設餐次
var DefaultMeals = []string{"desayuno", "comida", "cena"}

// DefaultRatios 預設各餐比例
func DefaultRatios() map[string]float64 {
	return map[string]float64{"desayuno": 0.30, "comida": 0.40, "cena": 0.30}
}

// PlanRequest 一般週菜單的請求
type PlanRequest struct {
	Calories   *int               `json:"calories,omitempty"`
	Diet       string             `json:"diet,omitempty"`
	Health     []string           `json:"health,omitempty"`
	Excluded   []string           `json:"excluded,omitempty"`
	Included   []string           `json:"included,omitempty"`
	NumOptions int                `json:"num_options_per_meal,omitempty"`
	Meals      []string           `json:"meals,omitempty"`
	MealRatios map[string]float64 `json:"meal_ratios,omitempty"`
}

// WithDefaults 補上未指定欄位的預設值
func (r PlanRequest) WithDefaults() PlanRequest {
	if r.NumOptions == 0 {
		r.NumOptions = DefaultOptionsPerMeal
	}
	if len(r.Meals) == 0 {
		r.Meals = append([]string(nil), DefaultMeals...)
	}
	if len(r.MealRatios) == 0 {
		r.MealRatios = DefaultRatios()
	}
	return r
}

// Validate 驗證請求
func (r PlanRequest) Validate() error {
	if r.NumOptions < MinOptionsPerMeal || r.NumOptions > MaxOptionsPerMeal {
		return common.NewValidationErrorf("num_options_per_meal must be between %d and %d", MinOptionsPerMeal, MaxOptionsPerMeal)
	}
	for _, m := range r.Meals {
		if strings.TrimSpace(m) == "" {
			return common.NewValidationError("meal names must not be empty")
		}
	}
	return nutrition.ValidateRatios(r.MealRatios)
}

// RecommendedRequest 依使用者資料與收藏產生推薦菜單
type RecommendedRequest struct {
	Profile   *nutrition.Profile
	Favorites []string
	Calories  *int
	Filters   Filters
}

// MealSlot 一個餐次的結果
type MealSlot struct {
	Meal   string
	Result SlotResult
}

// DayPlan 一天的菜單，餐次依設定順序排列
type DayPlan struct {
	Day   string
	Meals []MealSlot
}

// MarshalJSON 依餐次順序輸出
func (d DayPlan) MarshalJSON() ([]byte, error) {
	fields := make([]common.OrderedField, 0, len(d.Meals))
	for _, m := range d.Meals {
		fields = append(fields, common.OrderedField{Key: m.Meal, Value: m.Result})
	}
	return common.MarshalOrdered(fields)
}

// WeeklyPlan 一週菜單
type WeeklyPlan struct {
	Target   nutrition.Target
	Bands    map[string]nutrition.Band
	Keywords []string
	Days     []DayPlan
}

// MarshalJSON 依日期順序輸出
func (p *WeeklyPlan) MarshalJSON() ([]byte, error) {
	fields := make([]common.OrderedField, 0, len(p.Days))
	for _, d := range p.Days {
		fields = append(fields, common.OrderedField{Key: d.Day, Value: d})
	}
	return common.MarshalOrdered(fields)
}

// Planner 組合一週菜單
type Planner struct {
	searcher *Searcher
	cfg      config.PlannerConfig
}

// NewPlanner 創建菜單規劃器
func NewPlanner(c catalog.Catalog, cfg config.PlannerConfig) *Planner {
	return &Planner{
		searcher: NewSearcher(c),
		cfg:      cfg,
	}
}

// ResolveTarget 一般菜單的每日熱量：指定值或設定的預設值
func (p *Planner) ResolveTarget(override *int) (nutrition.Target, error) {
	return nutrition.Resolver{Fallback: p.cfg.FallbackCalories}.Resolve(override, nil)
}

// AllocateBands 以一般菜單的區間策略分配各餐熱量
func (p *Planner) AllocateBands(dailyTarget int, ratios map[string]float64) (map[string]nutrition.Band, error) {
	if len(ratios) == 0 {
		ratios = DefaultRatios()
	}
	return nutrition.Allocate(dailyTarget, ratios, bandProfile(p.cfg.Plain))
}

// AssembleWeeklyPlan 產生一般週菜單
//
// 有指定關鍵字時只搜尋含關鍵字的食譜。
func (p *Planner) AssembleWeeklyPlan(ctx context.Context, req PlanRequest) (*WeeklyPlan, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	target, err := p.ResolveTarget(req.Calories)
	if err != nil {
		return nil, err
	}

	bands, err := nutrition.Allocate(target.Calories, req.MealRatios, bandProfile(p.cfg.Plain))
	if err != nil {
		return nil, err
	}

	policy := SearchPolicy{
		MaxAttempts: p.cfg.Plain.MaxAttempts,
		Oversample:  p.cfg.Plain.Oversample,
	}
	filters := Filters{Diet: req.Diet, Health: req.Health, Excluded: req.Excluded}

	plan := &WeeklyPlan{Target: target, Bands: bands, Keywords: req.Included}
	p.fill(ctx, plan, req.Meals, filters, req.Included, req.NumOptions, policy)
	return plan, nil
}

// AssembleRecommendedPlan 依使用者資料與收藏產生推薦週菜單
func (p *Planner) AssembleRecommendedPlan(ctx context.Context, req RecommendedRequest) (*WeeklyPlan, error) {
	rc := p.cfg.Recommended

	target, err := nutrition.Resolver{}.Resolve(req.Calories, req.Profile)
	if err != nil {
		return nil, err
	}

	ratios := rc.Ratios
	if len(ratios) == 0 {
		ratios = DefaultRatios()
	}
	meals := rc.Meals
	if len(meals) == 0 {
		meals = DefaultMeals
	}
	numOptions := rc.NumOptions
	if numOptions <= 0 {
		numOptions = DefaultOptionsPerMeal
	}

	bands, err := nutrition.Allocate(target.Calories, ratios, bandProfile(rc.SearchProfile))
	if err != nil {
		return nil, err
	}

	keywords := FavoriteKeywords(req.Favorites)
	policy := SearchPolicy{
		MaxAttempts:   rc.MaxAttempts,
		Oversample:    rc.Oversample,
		AllowGeneral:  true,
		MessageSuffix: " (Recomendado)",
	}

	plan := &WeeklyPlan{Target: target, Bands: bands, Keywords: keywords}
	p.fill(ctx, plan, meals, req.Filters, keywords, numOptions, policy)
	return plan, nil
}

// fill 平行搜尋所有餐次，每個 goroutine 只寫入自己的格子
//
// 呼叫端取消時未完成的餐次會帶錯誤訊息，已完成的餐次保留。
func (p *Planner) fill(ctx context.Context, plan *WeeklyPlan, meals []string, filters Filters, keywords []string, count int, policy SearchPolicy) {
	start := time.Now()

	plan.Days = make([]DayPlan, len(Days))
	for i, day := range Days {
		plan.Days[i] = DayPlan{Day: day}
		for _, meal := range meals {
			// 沒有比例的餐次略過
			if _, ok := plan.Bands[meal]; !ok {
				continue
			}
			plan.Days[i].Meals = append(plan.Days[i].Meals, MealSlot{Meal: meal})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	workers := p.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range plan.Days {
		for j := range plan.Days[i].Meals {
			slot := &plan.Days[i].Meals[j]
			req := SlotRequest{
				Meal:     slot.Meal,
				Band:     plan.Bands[slot.Meal],
				Filters:  filters,
				Keywords: keywords,
				Count:    count,
			}
			g.Go(func() error {
				slot.Result = p.searcher.SearchSlot(gctx, req, policy)
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		common.LogWarn("週菜單產生中斷", zap.Error(err), zap.Duration("耗時", time.Since(start)))
		return
	}
	common.LogInfo("週菜單產生完成",
		zap.Int("daily_calories", plan.Target.Calories),
		zap.Int("keywords", len(keywords)),
		zap.Duration("耗時", time.Since(start)),
	)
}

func bandProfile(p config.SearchProfile) nutrition.BandProfile {
	return nutrition.BandProfile{Margin: p.Margin, Widen: p.Widen}
}
