package menu

import (
	"meal-planner/internal/pkg/common"

	"github.com/tidwall/gjson"
)

// Macros 熱量與三大營養素
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
	CarbsG   float64 `json:"carbs_g"`
}

func (m *Macros) add(o Macros) {
	m.Calories += o.Calories
	m.ProteinG += o.ProteinG
	m.FatG += o.FatG
	m.CarbsG += o.CarbsG
}

func (m Macros) rounded() Macros {
	return Macros{
		Calories: common.Round2(m.Calories),
		ProteinG: common.Round2(m.ProteinG),
		FatG:     common.Round2(m.FatG),
		CarbsG:   common.Round2(m.CarbsG),
	}
}

func (m Macros) divided(n int) Macros {
	if n == 0 {
		return Macros{}
	}
	d := float64(n)
	return Macros{
		Calories: m.Calories / d,
		ProteinG: m.ProteinG / d,
		FatG:     m.FatG / d,
		CarbsG:   m.CarbsG / d,
	}.rounded()
}

// DayNutrition 單日合計
type DayNutrition struct {
	Day     string `json:"day"`
	Recipes int    `json:"recipes"`
	Macros
}

// NutritionAnalysis 已儲存菜單的營養分析
type NutritionAnalysis struct {
	DaysWithData int            `json:"days_with_data"`
	WeeklyTotal  Macros         `json:"weekly_total"`
	DailyAverage Macros         `json:"daily_average"`
	Daily        []DayNutrition `json:"daily"`
}

// AnalyzeSavedMenu 計算已儲存菜單的每日與每週營養
//
// 每個餐次取 selected，否則取第一個選項；只計入熱量大於 0 的食譜，沒有資料的日期不輸出。
func AnalyzeSavedMenu(raw []byte) (*NutritionAnalysis, error) {
	if !gjson.ValidBytes(raw) {
		return nil, common.NewValidationError("saved menu is not valid JSON")
	}
	menu := gjson.GetBytes(raw, "menu")
	if !menu.IsObject() {
		return nil, common.NewValidationError("saved menu must contain a \"menu\" object of days")
	}

	analysis := &NutritionAnalysis{Daily: []DayNutrition{}}
	var weekly Macros

	menu.ForEach(func(day, meals gjson.Result) bool {
		if !meals.IsObject() {
			return true
		}
		d := DayNutrition{Day: day.String()}
		meals.ForEach(func(_, slot gjson.Result) bool {
			recipe, ok := chosenRecipe(slot)
			if !ok {
				return true
			}
			m := Macros{
				Calories: recipe.Get("calories").Float(),
				ProteinG: recipe.Get("protein_g").Float(),
				FatG:     recipe.Get("fat_g").Float(),
				CarbsG:   recipe.Get("carbs_g").Float(),
			}
			if m.Calories > 0 {
				d.Macros.add(m)
				d.Recipes++
			}
			return true
		})
		if d.Recipes == 0 {
			return true
		}
		weekly.add(d.Macros)
		d.Macros = d.Macros.rounded()
		analysis.Daily = append(analysis.Daily, d)
		return true
	})

	analysis.DaysWithData = len(analysis.Daily)
	analysis.WeeklyTotal = weekly.rounded()
	analysis.DailyAverage = weekly.divided(analysis.DaysWithData)
	return analysis, nil
}

func chosenRecipe(slot gjson.Result) (gjson.Result, bool) {
	if !slot.IsObject() {
		return gjson.Result{}, false
	}
	if sel := slot.Get("selected"); sel.IsObject() {
		return sel, true
	}
	if first := slot.Get("options.0"); first.IsObject() && slot.Get("options").IsArray() {
		return first, true
	}
	return gjson.Result{}, false
}
