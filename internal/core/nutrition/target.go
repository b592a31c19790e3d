// Package nutrition 計算每日熱量目標與各餐熱量區間
package nutrition

import (
	"math"
	"strings"

	"meal-planner/internal/pkg/common"
)

const (
	// MinDailyCalories 由身體資料推算時的最低每日熱量
	MinDailyCalories = 1200
	// DefaultActivityFactor 無法辨識活動量時使用的係數
	DefaultActivityFactor = 1.4
)

// 活動量係數，西文與英文名稱皆可
var activityFactors = map[string]float64{
	"sedentario":   1.2,
	"sedentary":    1.2,
	"ligero":       1.375,
	"light":        1.375,
	"moderado":     1.55,
	"moderate":     1.55,
	"intenso":      1.725,
	"intense":      1.725,
	"muy intenso":  1.9,
	"very intense": 1.9,
}

// 目標對應的熱量調整
var goalAdjustments = map[string]int{
	"bajar de peso": -500,
	"weight loss":   -500,
	"lose weight":   -500,
	"subir de peso": 300,
	"weight gain":   300,
	"gain weight":   300,
}

// Profile 計算熱量所需的身體資料
type Profile struct {
	BMR      float64 `json:"bmr"`
	Activity string  `json:"activity"`
	Goal     string  `json:"goal"`
}

// Target 每日熱量目標
type Target struct {
	Calories       int     `json:"calories"`
	FromOverride   bool    `json:"from_override"`
	TDEE           float64 `json:"tdee,omitempty"`
	ActivityFactor float64 `json:"activity_factor,omitempty"`
	Adjustment     int     `json:"adjustment,omitempty"`
	Floored        bool    `json:"floored,omitempty"`
}

// ActivityFactor 回傳活動量係數，未知時回傳預設值
func ActivityFactor(level string) float64 {
	if f, ok := activityFactors[normalizeKey(level)]; ok {
		return f
	}
	return DefaultActivityFactor
}

// GoalAdjustment 回傳目標的熱量調整，維持或未知目標為 0
func GoalAdjustment(goal string) int {
	return goalAdjustments[normalizeKey(goal)]
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Resolver 解析每日熱量目標
//
// Fallback > 0 時，缺少 override 與身體資料會改用 Fallback 而非回報錯誤。
type Resolver struct {
	Fallback int
}

// Resolve 依 override 或身體資料計算每日熱量
//
// override 為 nil 代表呼叫端未指定；指定但不為正數時回報驗證錯誤。
func (r Resolver) Resolve(override *int, profile *Profile) (Target, error) {
	if override != nil {
		if *override <= 0 {
			return Target{}, common.NewValidationErrorf("calorie override must be positive, got %d", *override)
		}
		return Target{Calories: *override, FromOverride: true}, nil
	}

	if profile == nil || profile.BMR <= 0 || strings.TrimSpace(profile.Activity) == "" || strings.TrimSpace(profile.Goal) == "" {
		if r.Fallback > 0 {
			return Target{Calories: r.Fallback}, nil
		}
		return Target{}, common.NewValidationError("profile is missing BMR, activity level or goal")
	}

	factor := ActivityFactor(profile.Activity)
	tdee := profile.BMR * factor
	adjustment := GoalAdjustment(profile.Goal)

	t := Target{
		Calories:       int(math.Round(tdee + float64(adjustment))),
		TDEE:           tdee,
		ActivityFactor: factor,
		Adjustment:     adjustment,
	}
	if t.Calories < MinDailyCalories {
		t.Calories = MinDailyCalories
		t.Floored = true
	}
	return t, nil
}
