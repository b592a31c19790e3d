package shopping

import (
	"sort"
	"strings"

	"meal-planner/internal/pkg/common"
)

// DefaultUnit 沒有任何單位時顯示的文字
const DefaultUnit = "unidad(es)"

// Recipe 購物清單只需要食材行
type Recipe struct {
	Ingredients []string
}

// Menu 日期 -> 餐次 -> 食譜；沒有食譜的餐次為 nil
type Menu map[string]map[string]*Recipe

// Item 購物清單的一項
type Item struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// List 依名稱排序的購物清單
type List []Item

// MarshalJSON 輸出為 {name: {amount, unit}}，依名稱排序
func (l List) MarshalJSON() ([]byte, error) {
	fields := make([]common.OrderedField, 0, len(l))
	for _, it := range l {
		fields = append(fields, common.OrderedField{
			Key: it.Name,
			Value: struct {
				Amount float64 `json:"amount"`
				Unit   string  `json:"unit"`
			}{it.Amount, it.Unit},
		})
	}
	return common.MarshalOrdered(fields)
}

type entry struct {
	quantity float64
	units    map[string]struct{}
}

// Aggregate 合併整份菜單的食材
//
// 捨棄的行與無法辨識的名稱不列入。
func Aggregate(menu Menu) List {
	entries := make(map[string]*entry)

	for _, meals := range menu {
		for _, recipe := range meals {
			if recipe == nil {
				continue
			}
			for _, line := range recipe.Ingredients {
				ing, ok := ParseLine(line)
				if !ok || ing.Unresolved || ing.Name == "" {
					continue
				}
				e, exists := entries[ing.Name]
				if !exists {
					e = &entry{units: make(map[string]struct{})}
					entries[ing.Name] = e
				}
				e.quantity += ing.Quantity
				if ing.Unit != "" {
					e.units[ing.Unit] = struct{}{}
				}
			}
		}
	}

	list := make(List, 0, len(entries))
	for name, e := range entries {
		list = append(list, Item{
			Name:   name,
			Amount: common.Round2(e.quantity),
			Unit:   unitDisplay(e.units),
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func unitDisplay(units map[string]struct{}) string {
	if len(units) == 0 {
		return DefaultUnit
	}
	out := make([]string, 0, len(units))
	for u := range units {
		out = append(out, u)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
