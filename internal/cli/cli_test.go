package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTargetCommand(t *testing.T) {
	out, err := run(t, "", "target", "--bmr", "1500", "--activity", "moderado", "--goal", "bajar de peso")
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	var got struct {
		Calories int `json:"calories"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Calories != 1825 {
		t.Errorf("calories = %d, want 1825", got.Calories)
	}

	out, err = run(t, "", "target", "--calories", "1500")
	if err != nil {
		t.Fatalf("target override: %v", err)
	}
	if !strings.Contains(out, `"calories": 1500`) {
		t.Errorf("override output = %s", out)
	}

	if _, err := run(t, "", "target", "--activity", "moderado"); err == nil {
		t.Error("expected error for incomplete profile")
	}
}

func TestBandsCommand(t *testing.T) {
	out, err := run(t, "", "bands", "--calories", "2000")
	if err != nil {
		t.Fatalf("bands: %v", err)
	}
	var bands []struct {
		Meal string `json:"meal"`
		Min  int    `json:"min"`
		Max  int    `json:"max"`
	}
	if err := json.Unmarshal([]byte(out), &bands); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(bands) != 3 || bands[0].Meal != "cena" {
		t.Fatalf("bands = %+v", bands)
	}
	for _, b := range bands {
		if b.Meal == "comida" && (b.Min != 680 || b.Max != 920) {
			t.Errorf("comida = %d-%d", b.Min, b.Max)
		}
	}

	if _, err := run(t, "", "bands", "--calories", "2000", "--ratio", "desayuno=0.5", "--ratio", "cena=0.2"); err == nil {
		t.Error("expected ratio sum error")
	}
	if _, err := run(t, "", "bands", "--calories", "2000", "--ratio", "desayuno=abc"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := run(t, "", "bands", "--calories", "2000", "--ratio", "comida=NaN"); err == nil {
		t.Error("expected error for NaN ratio")
	}
	if _, err := run(t, "", "bands"); err == nil {
		t.Error("expected missing --calories error")
	}
}

func TestShoppingListCommand(t *testing.T) {
	menu := `{"menu":{"lunes":{"comida":{"ingredients":["1 cup rice","olive oil"]},"cena":{"ingredients":["2 cups rice"]}}}}`

	out, err := run(t, menu, "shopping-list", "-")
	if err != nil {
		t.Fatalf("shopping-list stdin: %v", err)
	}
	var list map[string]struct {
		Amount float64 `json:"amount"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if list["rice"].Amount != 2 || list["olive oil"].Amount != 1 {
		t.Errorf("list = %+v", list)
	}

	path := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(path, []byte(menu), 0o644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := run(t, "", "shopping-list", path)
	if err != nil {
		t.Fatalf("shopping-list file: %v", err)
	}
	if fromFile != out {
		t.Errorf("file output differs from stdin output:\n%s\n%s", fromFile, out)
	}

	if _, err := run(t, "[1,2]", "shopping-list", "-"); err == nil {
		t.Error("expected error for non-object menu")
	}
}

func TestParseLineCommand(t *testing.T) {
	out, err := run(t, "", "parse-line", "2", "cups", "arlic,", "diced")
	if err != nil {
		t.Fatalf("parse-line: %v", err)
	}
	if !strings.Contains(out, `"name": "garlic"`) {
		t.Errorf("output = %s", out)
	}

	out, err = run(t, "", "parse-line", "olive oil, for brushing vegetables")
	if err != nil {
		t.Fatalf("parse-line discard: %v", err)
	}
	if !strings.Contains(out, `"discarded": true`) {
		t.Errorf("output = %s", out)
	}
}

func TestPlanCommandRequiresCredentials(t *testing.T) {
	t.Setenv("EDAMAM_APP_ID", "")
	t.Setenv("EDAMAM_APP_KEY", "")
	if _, err := run(t, "", "plan", "--calories", "2000"); err == nil {
		t.Fatal("expected error without edamam credentials")
	}
}

func TestPlanRequestFromFlags(t *testing.T) {
	cmd := newPlanCmd()
	if err := cmd.ParseFlags([]string{
		"--calories", "1800", "--health", "vegetarian,gluten-free", "--included", "tofu",
		"-n", "2", "--meals", "desayuno,cena", "--ratio", "desayuno=0.4", "--ratio", "cena=0.6",
	}); err != nil {
		t.Fatal(err)
	}
	req, err := planRequestFromFlags(cmd)
	if err != nil {
		t.Fatalf("planRequestFromFlags: %v", err)
	}
	if req.Calories == nil || *req.Calories != 1800 {
		t.Errorf("calories = %v", req.Calories)
	}
	if len(req.Health) != 2 || req.Included[0] != "tofu" || req.NumOptions != 2 {
		t.Errorf("req = %+v", req)
	}
	if len(req.Meals) != 2 || req.MealRatios["cena"] != 0.6 {
		t.Errorf("meals = %v ratios = %v", req.Meals, req.MealRatios)
	}

	cmd = newPlanCmd()
	if err := cmd.ParseFlags([]string{"-n", "9"}); err != nil {
		t.Fatal(err)
	}
	if _, err := planRequestFromFlags(cmd); err == nil {
		t.Error("expected error for 9 options")
	}
}
