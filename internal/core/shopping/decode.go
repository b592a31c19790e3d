package shopping

import (
	"meal-planner/internal/pkg/common"

	"github.com/tidwall/gjson"
)

// DecodeMenu 將 JSON 轉為 Menu
//
// 接受 {"menu": {...}} 或直接的日期物件。餐次可以是食譜本身，或包在
// "selected"（優先）或 "options" 第一筆裡。形狀不符的日期、餐次與食材行會被略過；
// 只有整體不是 JSON 物件時才回報錯誤。
func DecodeMenu(raw []byte) (Menu, error) {
	if !gjson.ValidBytes(raw) {
		return nil, common.NewValidationError("menu is not valid JSON")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, common.NewValidationError("menu must be a JSON object")
	}
	days := root
	if wrapped := root.Get("menu"); wrapped.Exists() {
		if !wrapped.IsObject() {
			return nil, common.NewValidationError("\"menu\" must be an object of days")
		}
		days = wrapped
	}

	menu := make(Menu)
	days.ForEach(func(day, meals gjson.Result) bool {
		if !meals.IsObject() {
			return true
		}
		out := make(map[string]*Recipe)
		meals.ForEach(func(meal, slot gjson.Result) bool {
			out[meal.String()] = decodeRecipe(slot)
			return true
		})
		menu[day.String()] = out
		return true
	})
	return menu, nil
}

func decodeRecipe(slot gjson.Result) *Recipe {
	if !slot.IsObject() {
		return nil
	}
	recipe := slot
	if sel := slot.Get("selected"); sel.IsObject() {
		recipe = sel
	} else if first := slot.Get("options.0"); first.IsObject() && !slot.Get("ingredients").Exists() {
		recipe = first
	}

	lines := recipe.Get("ingredients")
	if !lines.IsArray() {
		return nil
	}
	r := &Recipe{}
	for _, l := range lines.Array() {
		if l.Type == gjson.String {
			r.Ingredients = append(r.Ingredients, l.Str)
		}
	}
	return r
}
