package nutrition

import (
	"fmt"
	"math"
	"sort"

	"meal-planner/internal/pkg/common"
)

const (
	// MinMealCalories 每餐區間下限的絕對最小值
	MinMealCalories = 50
	// RatioTolerance 各餐比例總和允許的誤差
	RatioTolerance = 0.01

	// 浮點誤差容忍，避免 800*1.15 取整成 919
	floorEpsilon = 1e-9
)

// BandProfile 區間寬度策略
type BandProfile struct {
	Margin float64
	Widen  int
}

var (
	// PlainBands 一般週菜單
	PlainBands = BandProfile{Margin: 0.15, Widen: 100}
	// RecommendedBands 依目標推薦的菜單，區間較寬以提高命中率
	RecommendedBands = BandProfile{Margin: 0.20, Widen: 150}
)

// Band 單餐的熱量閉區間
type Band struct {
	Meal   string `json:"meal"`
	Target int    `json:"target"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

// Contains 判斷每份熱量是否落在區間內
func (b Band) Contains(calories float64) bool {
	return calories >= float64(b.Min) && calories <= float64(b.Max)
}

// Range 轉換為目錄查詢使用的 "MIN-MAX" 格式
func (b Band) Range() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

func floorInt(v float64) int {
	return int(math.Floor(v + floorEpsilon))
}

// ValidateRatios 檢查各餐比例總和是否為 1.0（誤差 0.01 內）
func ValidateRatios(ratios map[string]float64) error {
	if len(ratios) == 0 {
		return common.NewValidationError("meal ratios are required")
	}
	sum := 0.0
	for meal, r := range ratios {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return common.NewValidationErrorf("ratio for %q must be a finite number", meal)
		}
		if r < 0 {
			return common.NewValidationErrorf("ratio for %q must not be negative", meal)
		}
		sum += r
	}
	if math.Abs(sum-1.0) > RatioTolerance+floorEpsilon {
		return common.NewValidationErrorf("meal ratios must sum to 1.0, got %.3f", sum)
	}
	return nil
}

// BandFor 計算單餐區間
func BandFor(meal string, dailyTarget int, ratio float64, profile BandProfile) Band {
	target := floorInt(float64(dailyTarget) * ratio)
	b := Band{
		Meal:   meal,
		Target: target,
		Min:    floorInt(float64(target) * (1 - profile.Margin)),
		Max:    floorInt(float64(target) * (1 + profile.Margin)),
	}
	if b.Min < MinMealCalories {
		b.Min = MinMealCalories
	}
	if b.Max <= b.Min {
		b.Max = b.Min + profile.Widen
	}
	return b
}

// Allocate 將每日熱量依比例分配為各餐區間
func Allocate(dailyTarget int, ratios map[string]float64, profile BandProfile) (map[string]Band, error) {
	if dailyTarget <= 0 {
		return nil, common.NewValidationErrorf("daily target must be positive, got %d", dailyTarget)
	}
	if err := ValidateRatios(ratios); err != nil {
		return nil, err
	}
	bands := make(map[string]Band, len(ratios))
	for meal, ratio := range ratios {
		bands[meal] = BandFor(meal, dailyTarget, ratio, profile)
	}
	return bands, nil
}

// SortedBands 依餐名排序輸出，方便顯示
func SortedBands(bands map[string]Band) []Band {
	out := make([]Band, 0, len(bands))
	for _, b := range bands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meal < out[j].Meal })
	return out
}
