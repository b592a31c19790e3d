// Package menu 依熱量區間向食譜目錄搜尋並組成一週菜單
package menu

import (
	"errors"
	"strings"

	"meal-planner/internal/core/catalog"
	"meal-planner/internal/pkg/common"
)

// 目錄營養素代碼
const (
	NutrientProtein = "PROCNT"
	NutrientFat     = "FAT"
	NutrientCarbs   = "CHOCDF"
)

// ErrIncomplete 原始食譜缺少必要欄位，呼叫端應略過該筆
var ErrIncomplete = errors.New("incomplete recipe record")

// RecipeOption 每份的營養資訊
type RecipeOption struct {
	Label       string   `json:"label"`
	Image       string   `json:"image"`
	URL         string   `json:"url"`
	Ingredients []string `json:"ingredients"`
	Calories    float64  `json:"calories"`
	ProteinG    *float64 `json:"protein_g,omitempty"`
	FatG        *float64 `json:"fat_g,omitempty"`
	CarbsG      *float64 `json:"carbs_g,omitempty"`
}

// Normalize 將原始食譜換算為每份數值
func Normalize(raw catalog.RawCandidate) (RecipeOption, error) {
	if raw.Label == nil || strings.TrimSpace(*raw.Label) == "" {
		return RecipeOption{}, ErrIncomplete
	}
	if raw.URL == nil || strings.TrimSpace(*raw.URL) == "" {
		return RecipeOption{}, ErrIncomplete
	}
	if !raw.IngredientLinesOK {
		return RecipeOption{}, ErrIncomplete
	}

	servings := raw.Yield
	if servings <= 0 {
		servings = 1.0
	}

	ingredients := make([]string, len(raw.IngredientLines))
	copy(ingredients, raw.IngredientLines)

	return RecipeOption{
		Label:       *raw.Label,
		Image:       raw.Image,
		URL:         *raw.URL,
		Ingredients: ingredients,
		Calories:    common.Round2(raw.Calories / servings),
		ProteinG:    perServing(raw.Nutrients, NutrientProtein, servings),
		FatG:        perServing(raw.Nutrients, NutrientFat, servings),
		CarbsG:      perServing(raw.Nutrients, NutrientCarbs, servings),
	}, nil
}

func perServing(nutrients map[string]float64, code string, servings float64) *float64 {
	qty, ok := nutrients[code]
	if !ok {
		return nil
	}
	v := common.Round2(qty / servings)
	return &v
}
