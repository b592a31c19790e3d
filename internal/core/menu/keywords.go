package menu

import "strings"

// MaxFavoriteKeywords 由收藏推導的關鍵字上限
const MaxFavoriteKeywords = 5

// FavoriteKeywords 由收藏食譜名稱取出搜尋關鍵字
//
// 每個名稱取前三個字，保留長度大於 3 的字並轉小寫，依首次出現順序去重。
func FavoriteKeywords(labels []string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, label := range labels {
		words := strings.Fields(label)
		if len(words) > 3 {
			words = words[:3]
		}
		for _, w := range words {
			w = strings.ToLower(w)
			if len([]rune(w)) <= 3 {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			keywords = append(keywords, w)
			if len(keywords) == MaxFavoriteKeywords {
				return keywords
			}
		}
	}
	return keywords
}
