package shopping

import (
	"encoding/json"
	"testing"
)

func TestAggregateAccumulatesAcrossMeals(t *testing.T) {
	menu := Menu{
		"lunes": {
			"comida": {Ingredients: []string{"2 tbsp olive oil", "1 cup rice"}},
			"cena":   {Ingredients: []string{"1 tbsp olive oil", "Olive oil, for brushing vegetables"}},
		},
		"martes": {
			"desayuno": nil,
			"comida":   {Ingredients: []string{"2 cups", "1 cup rice"}},
		},
	}
	list := Aggregate(menu)

	if len(list) != 2 {
		t.Fatalf("list = %+v, want 2 items", list)
	}
	oil, ok := findItem(list, "olive oil")
	if !ok || oil.Amount != 2.0 || oil.Unit != DefaultUnit {
		t.Errorf("olive oil = %+v", oil)
	}
	rice, ok := findItem(list, "rice")
	if !ok || rice.Amount != 2.0 {
		t.Errorf("rice = %+v", rice)
	}
	if _, ok := findItem(list, UnknownName); ok {
		t.Error("unknown names must not be listed")
	}
}

func TestAggregateSortedByName(t *testing.T) {
	list := Aggregate(Menu{"lunes": {"cena": {Ingredients: []string{"zucchini", "apples", "milk"}}}})
	want := []string{"apples", "milk", "zucchini"}
	for i, it := range list {
		if it.Name != want[i] {
			t.Errorf("item %d = %s, want %s", i, it.Name, want[i])
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	list := Aggregate(nil)
	if len(list) != 0 {
		t.Errorf("list = %+v", list)
	}
	data, err := json.Marshal(list)
	if err != nil || string(data) != "{}" {
		t.Errorf("json = %s, %v", data, err)
	}
}

func TestListJSON(t *testing.T) {
	list := List{{Name: "garlic", Amount: 3, Unit: DefaultUnit}, {Name: "olive oil", Amount: 2, Unit: "ml, tbsp"}}
	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"garlic":{"amount":3,"unit":"unidad(es)"},"olive oil":{"amount":2,"unit":"ml, tbsp"}}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestUnitDisplay(t *testing.T) {
	got := unitDisplay(map[string]struct{}{"tbsp": {}, "ml": {}, "cup": {}})
	if got != "cup, ml, tbsp" {
		t.Errorf("unitDisplay = %q", got)
	}
}

func findItem(l List, name string) (Item, bool) {
	for _, it := range l {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}
