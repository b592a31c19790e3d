// Package catalog 外部食譜目錄的查詢介面與 Edamam 實作
package catalog

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable 目錄本次查詢無法取得結果（傳輸錯誤、逾時、格式錯誤或缺少憑證）
var ErrUnavailable = errors.New("recipe catalog unavailable")

// Query 目錄查詢條件
type Query struct {
	CalorieRange string
	Diet         string
	Health       []string
	Excluded     []string
	Keywords     []string
	MealType     string
	Count        int
}

// RawCandidate 目錄回傳的原始食譜
//
// 欄位缺失時為 nil；IngredientLinesOK 為 false 代表 ingredientLines 不是字串陣列。
type RawCandidate struct {
	Label             *string
	URL               *string
	Image             string
	Source            string
	Yield             float64
	Calories          float64
	IngredientLines   []string
	IngredientLinesOK bool
	// 營養素代碼 -> 總量（未除以份數），格式錯誤的項目不會出現
	Nutrients map[string]float64
}

// Catalog 食譜目錄
type Catalog interface {
	Search(ctx context.Context, q Query) ([]RawCandidate, error)
}

// CatalogFunc 讓普通函數滿足 Catalog
type CatalogFunc func(ctx context.Context, q Query) ([]RawCandidate, error)

// Search 實作 Catalog
func (f CatalogFunc) Search(ctx context.Context, q Query) ([]RawCandidate, error) {
	return f(ctx, q)
}

var mealTypes = map[string]string{
	"desayuno":  "Breakfast",
	"breakfast": "Breakfast",
	"comida":    "Lunch",
	"almuerzo":  "Lunch",
	"lunch":     "Lunch",
	"cena":      "Dinner",
	"dinner":    "Dinner",
	"merienda":  "Snack",
	"snack":     "Snack",
}

// MealType 將餐名轉為目錄的 mealType，未知餐名回傳空字串
func MealType(meal string) string {
	return mealTypes[strings.ToLower(strings.TrimSpace(meal))]
}
