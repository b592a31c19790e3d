package menu

import (
	"context"
	"fmt"

	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/nutrition"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Filters 使用者的飲食篩選條件
type Filters struct {
	Diet     string
	Health   []string
	Excluded []string
}

// SearchPolicy 單一餐次的搜尋策略
type SearchPolicy struct {
	// 每一層最多查詢次數
	MaxAttempts int
	// 每次向目錄索取的數量 = 缺額 * Oversample
	Oversample int
	// 有關鍵字時，關鍵字層之後是否再做不含關鍵字的一般搜尋
	AllowGeneral bool
	// 附加在找不到食譜訊息後面
	MessageSuffix string
}

// SlotRequest 單一餐次的搜尋需求
type SlotRequest struct {
	Meal     string
	Band     nutrition.Band
	Filters  Filters
	Keywords []string
	Count    int
}

// SlotResult 單一餐次結果，Options 與 Error 只會有一個有值
type SlotResult struct {
	Options []RecipeOption `json:"options,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// OK 是否找到食譜
func (r SlotResult) OK() bool {
	return len(r.Options) > 0
}

// Searcher 依熱量區間向目錄搜尋食譜
type Searcher struct {
	catalog catalog.Catalog
}

// NewSearcher 創建搜尋器
func NewSearcher(c catalog.Catalog) *Searcher {
	return &Searcher{catalog: c}
}

// slotState 只存在於單一餐次的搜尋期間
type slotState struct {
	accepted []RecipeOption
	seen     map[string]struct{}
}

// SearchSlot 為一個餐次找出最多 Count 筆不重複且熱量落在區間內的食譜
//
// 目錄錯誤只會讓該次查詢沒有結果，不會中止搜尋。
func (s *Searcher) SearchSlot(ctx context.Context, req SlotRequest, policy SearchPolicy) SlotResult {
	if req.Count <= 0 {
		return SlotResult{Error: failureMessage(req, policy)}
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.Oversample < 1 {
		policy.Oversample = 1
	}

	state := &slotState{seen: make(map[string]struct{})}

	if len(req.Keywords) > 0 {
		s.runTier(ctx, "keyword", req, req.Keywords, policy, state)
	}
	if len(state.accepted) < req.Count && (len(req.Keywords) == 0 || policy.AllowGeneral) {
		s.runTier(ctx, "general", req, nil, policy, state)
	}

	if len(state.accepted) == 0 {
		common.LogInfo("餐次沒有符合的食譜",
			zap.String("meal", req.Meal),
			zap.String("calories", req.Band.Range()),
		)
		return SlotResult{Error: failureMessage(req, policy)}
	}
	return SlotResult{Options: state.accepted}
}

func (s *Searcher) runTier(ctx context.Context, tier string, req SlotRequest, keywords []string, policy SearchPolicy, state *slotState) {
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if len(state.accepted) >= req.Count || ctx.Err() != nil {
			return
		}

		q := catalog.Query{
			CalorieRange: req.Band.Range(),
			Diet:         req.Filters.Diet,
			Health:       req.Filters.Health,
			Excluded:     req.Filters.Excluded,
			Keywords:     keywords,
			MealType:     catalog.MealType(req.Meal),
			Count:        (req.Count - len(state.accepted)) * policy.Oversample,
		}

		candidates, err := s.catalog.Search(ctx, q)
		if err != nil {
			common.LogWarn("食譜搜尋失敗",
				zap.String("meal", req.Meal),
				zap.String("tier", tier),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		for _, raw := range candidates {
			if len(state.accepted) >= req.Count {
				return
			}
			if raw.URL != nil {
				if _, dup := state.seen[*raw.URL]; dup {
					continue
				}
				state.seen[*raw.URL] = struct{}{}
			}
			opt, err := Normalize(raw)
			if err != nil {
				continue
			}
			if !req.Band.Contains(opt.Calories) {
				continue
			}
			state.accepted = append(state.accepted, opt)
		}
	}
}

func failureMessage(req SlotRequest, policy SearchPolicy) string {
	return fmt.Sprintf("No se encontraron recetas dentro de %s kcal para '%s'%s",
		req.Band.Range(), req.Meal, policy.MessageSuffix)
}
