// Package shopping 將菜單中的食材行整理成購物清單
package shopping

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnknownName 清理後沒有剩下任何字時的名稱
const UnknownName = "unknown"

// 已知的目錄拼字錯誤與在地化片段，依序套用
var corrections = []struct{ wrong, right string }{
	{"arlic", "garlic"},
	{"iol", "oil"},
	{"rapes", "grapes"},
	{"tumeric", "turmeric"},
	{"/head cauliflower", "cauliflower"},
	{"juice /lime", "lime juice"},
	{"caldo de pollo", "chicken broth"},
	{"white/white wine vinegar", "white wine vinegar"},
}

// 只有備料說明、沒有食材的片段
var discardPhrases = []string{
	"for brushing vegetables",
	"into inch florets",
	"into /inchthick slices",
	"yield once processed",
	"with brush stems",
	"with tails thawed",
	"the root thinly",
	"halved lengthways thin",
	"into small cubes",
	"into inch pieces",
	"ribs seeds thinly",
}

var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "with": {}, "cut": {}, "sliced": {}, "diced": {},
	"peeled": {}, "each": {}, "few": {}, "shakes": {}, "removed": {}, "washed": {},
	"dry": {}, "dried": {}, "thinly": {}, "minced": {}, "chopped": {},
}

// RE2 的 \b 與 \d 只認 ASCII，"canónigos" 會被當成 "can" 加上其他字。
// 字詞邊界改用 Unicode 字元類別，前後的分隔字元以群組保留。
const (
	wordStart = `(^|[^\p{L}\p{N}_])`
	wordEnd   = `($|[^\p{L}\p{N}_])`
)

// wordRule 只在完整字詞上替換
type wordRule struct {
	re   *regexp.Regexp
	repl string
}

func newWordRule(expr, repl string, guardStart, guardEnd bool) wordRule {
	start, end := `()`, `()`
	if guardStart {
		start = wordStart
	}
	if guardEnd {
		end = wordEnd
	}
	return wordRule{
		re:   regexp.MustCompile(start + `(?:` + expr + `)` + end),
		repl: "${1}" + strings.ReplaceAll(repl, "$", "$$") + "${2}",
	}
}

// apply 重複替換直到穩定；相鄰字詞共用的分隔字元在前一輪已被消耗
func (w wordRule) apply(s string) string {
	for {
		next := w.re.ReplaceAllString(s, w.repl)
		if next == s {
			return s
		}
		s = next
	}
}

// 依序套用的清理規則
var (
	stripSymbols   = regexp.MustCompile(`[\*\-]`)
	stripBrackets  = regexp.MustCompile(`\[[^\]]*\]`)
	stripParens    = regexp.MustCompile(`\([^)]*\)`)
	stripQualifier = newWordRule(`optional|to taste|as desired|depending.*|divided`, "", true, true)
	stripUnits     = newWordRule(`can|cup|cups|tbsp|tsp|oz|ounce|tablespoon|teaspoon|g|kg|ml|l|container|pkg|bunch|head`, "", true, true)
	stripAmounts   = regexp.MustCompile(`\p{Nd}+\.?\p{Nd}*\s?(oz|g|ml|kg|lb|cup|cups|tbsp|tsp|tablespoon|teaspoon|container|pkg)?`)
	stripCommas    = regexp.MustCompile(`,`)
)

func cleanup(s string) string {
	s = stripSymbols.ReplaceAllLiteralString(s, "")
	s = stripBrackets.ReplaceAllLiteralString(s, "")
	s = stripParens.ReplaceAllLiteralString(s, "")
	s = stripQualifier.apply(s)
	s = stripUnits.apply(s)
	s = stripAmounts.ReplaceAllLiteralString(s, "")
	return stripCommas.ReplaceAllLiteralString(s, "")
}

var correctionRules = compileCorrections()

// 與單純的子字串替換不同，修正只作用在完整字詞上，
// 否則已經拼對的 "garlic" 會再被改成 "ggarlic"。
// 以符號開頭或結尾的片段（如 "/head cauliflower"）在該側不檢查邊界。
func compileCorrections() []wordRule {
	out := make([]wordRule, len(corrections))
	for i, c := range corrections {
		first, _ := utf8.DecodeRuneInString(c.wrong)
		last, _ := utf8.DecodeLastRuneInString(c.wrong)
		out[i] = newWordRule(regexp.QuoteMeta(c.wrong), c.right, unicode.IsLetter(first), unicode.IsLetter(last))
	}
	return out
}

// Ingredient 一行食材解析後的結果
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string
	// 名稱無法辨識（UnknownName）
	Unresolved bool
}

// ParseLine 將一行食材文字整理成名稱
//
// 回傳 false 代表該行只有備料說明，應整行捨棄。名稱取剩餘字詞的最後三個，
// 數量固定為 1。
func ParseLine(line string) (Ingredient, bool) {
	s := strings.ToLower(strings.TrimSpace(line))

	for _, rule := range correctionRules {
		s = rule.apply(s)
	}

	for _, phrase := range discardPhrases {
		if strings.Contains(s, phrase) {
			return Ingredient{}, false
		}
	}

	s = cleanup(s)

	words := strings.Fields(s)
	if len(words) == 0 {
		return unresolved(), true
	}

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return unresolved(), true
	}
	if len(kept) > 3 {
		kept = kept[len(kept)-3:]
	}

	return Ingredient{Name: strings.Join(kept, " "), Quantity: 1.0}, true
}

func unresolved() Ingredient {
	return Ingredient{Name: UnknownName, Quantity: 1.0, Unresolved: true}
}
