package shopping

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"2 cups arlic, diced", "garlic"},
		{"1 tbsp olive oil", "olive oil"},
		{"2 tbsp olive iol", "olive oil"},
		{"3 cloves garlic, minced", "cloves garlic"},
		{"1 cup red rapes", "red grapes"},
		{"1 tsp tumeric", "turmeric"},
		{"1/head cauliflower", "cauliflower"},
		{"2 tbsp juice /lime", "lime juice"},
		{"1 taza caldo de pollo", "taza chicken broth"},
		{"1 (14.5 oz) can diced tomatoes", "tomatoes"},
		{"Salt and pepper, to taste", "salt pepper"},
		{"1 lb boneless skinless chicken thighs, cut into pieces", "thighs into pieces"},
		{"1/2 cup [about 2 oz] grated parmesan", "grated parmesan"},
		{"fresh basil leaves (optional)", "fresh basil leaves"},
		{"1 large red bell pepper", "red bell pepper"},
		{"200g dark chocolate", "dark chocolate"},
		{"1 bunch cilantro", "cilantro"},
		{"2 cans black beans, drained and rinsed", "beans drained rinsed"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if !ok {
				t.Fatalf("ParseLine(%q) discarded", tt.line)
			}
			if got.Name != tt.want {
				t.Errorf("ParseLine(%q) = %q, want %q", tt.line, got.Name, tt.want)
			}
			if got.Quantity != 1.0 || got.Unit != "" {
				t.Errorf("quantity/unit = %v/%q", got.Quantity, got.Unit)
			}
		})
	}
}

func TestParseLineDoesNotDoubleCorrect(t *testing.T) {
	for line, want := range map[string]string{
		"2 cloves garlic": "cloves garlic",
		"1 cup grapes":    "grapes",
		"1 tbsp oil":      "oil",
	} {
		got, _ := ParseLine(line)
		if got.Name != want {
			t.Errorf("ParseLine(%q) = %q, want %q", line, got.Name, want)
		}
	}
}

func TestParseLineUnicodeWords(t *testing.T) {
	tests := []struct{ line, want string }{
		{"100 g canónigos", "canónigos"},
		{"1 can canónigos", "canónigos"},
		{"1 taza de piñones tostados", "taza piñones tostados"},
		{"1 tbsp tsp sugar", "sugar"},
	}
	for _, tt := range tests {
		got, _ := ParseLine(tt.line)
		if got.Name != tt.want {
			t.Errorf("ParseLine(%q) = %q, want %q", tt.line, got.Name, tt.want)
		}
	}
}

func TestParseLineDiscardPhrases(t *testing.T) {
	for _, line := range []string{
		"Olive oil, for brushing vegetables",
		"1 head broccoli, cut into inch florets",
		"2 carrots, cut INTO SMALL CUBES",
		"1 onion, the root thinly sliced",
	} {
		got, ok := ParseLine(line)
		if ok {
			t.Errorf("ParseLine(%q) = %+v, want discarded", line, got)
		}
		if got.Name != "" || got.Quantity != 0 {
			t.Errorf("discarded line returned %+v", got)
		}
	}
}

func TestParseLineUnknown(t *testing.T) {
	for _, line := range []string{"", "  ", "2 cups", "1 (optional)", "- 3 tbsp, divided", "a b of"} {
		got, ok := ParseLine(line)
		if !ok {
			t.Fatalf("ParseLine(%q) discarded", line)
		}
		if got.Name != UnknownName || got.Quantity != 1.0 || !got.Unresolved {
			t.Errorf("ParseLine(%q) = %+v, want unknown", line, got)
		}
	}
}

func TestParseLineKeepsLastThreeWords(t *testing.T) {
	got, _ := ParseLine("extra virgin cold pressed olive oil")
	if got.Name != "pressed olive oil" {
		t.Errorf("name = %q", got.Name)
	}
}
