package nutrition

import (
	"math"
	"testing"

	"meal-planner/internal/pkg/common"
)

var defaultRatios = map[string]float64{"desayuno": 0.3, "comida": 0.4, "cena": 0.3}

func TestAllocatePlainBands(t *testing.T) {
	bands, err := Allocate(2000, defaultRatios, PlainBands)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	comida := bands["comida"]
	if comida.Target != 800 || comida.Min != 680 || comida.Max != 920 {
		t.Errorf("comida = %+v, want target 800 band [680,920]", comida)
	}
	if comida.Range() != "680-920" {
		t.Errorf("Range = %q", comida.Range())
	}
	desayuno := bands["desayuno"]
	if desayuno.Target != 600 || desayuno.Min != 510 || desayuno.Max != 690 {
		t.Errorf("desayuno = %+v", desayuno)
	}
}

func TestAllocateRecommendedBands(t *testing.T) {
	bands, err := Allocate(1825, defaultRatios, RecommendedBands)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// floor(1825*0.4)=730 -> [584, 876]
	if b := bands["comida"]; b.Min != 584 || b.Max != 876 {
		t.Errorf("comida = %+v", b)
	}
}

func TestAllocateRatioTolerance(t *testing.T) {
	ok := []map[string]float64{
		{"a": 0.5, "b": 0.5},
		{"a": 0.33, "b": 0.33, "c": 0.33},
		{"a": 0.5, "b": 0.505},
	}
	for _, r := range ok {
		if _, err := Allocate(2000, r, PlainBands); err != nil {
			t.Errorf("ratios %v: unexpected error %v", r, err)
		}
	}
	bad := []map[string]float64{
		nil,
		{"a": 0.5, "b": 0.4},
		{"a": 0.7, "b": 0.7},
		{"a": 1.2, "b": -0.2},
		{"comida": math.NaN()},
		{"a": 0.5, "b": 0.5, "c": math.NaN()},
		{"a": math.Inf(1), "b": math.Inf(-1)},
	}
	for _, r := range bad {
		if _, err := Allocate(2000, r, PlainBands); !common.IsValidationError(err) {
			t.Errorf("ratios %v: err = %v, want validation error", r, err)
		}
	}
}

func TestAllocateRejectsNonPositiveTarget(t *testing.T) {
	if _, err := Allocate(0, defaultRatios, PlainBands); !common.IsValidationError(err) {
		t.Errorf("err = %v", err)
	}
}

func TestBandInvariants(t *testing.T) {
	for _, p := range []BandProfile{PlainBands, RecommendedBands} {
		for target := 1; target <= 5000; target += 37 {
			for _, ratio := range []float64{0.01, 0.1, 0.25, 0.5, 1} {
				b := BandFor("m", target, ratio, p)
				if b.Min < MinMealCalories {
					t.Fatalf("target %d ratio %v: min %d below floor", target, ratio, b.Min)
				}
				if b.Max <= b.Min {
					t.Fatalf("target %d ratio %v: degenerate band %+v", target, ratio, b)
				}
			}
		}
	}
}

func TestBandWidenedWhenDegenerate(t *testing.T) {
	b := BandFor("merienda", 100, 0.1, PlainBands)
	if b.Min != MinMealCalories || b.Max != MinMealCalories+PlainBands.Widen {
		t.Errorf("band = %+v, want [50,150]", b)
	}
	b = BandFor("merienda", 100, 0.1, RecommendedBands)
	if b.Max != MinMealCalories+RecommendedBands.Widen {
		t.Errorf("band = %+v, want max 200", b)
	}
}

func TestBandContains(t *testing.T) {
	b := Band{Min: 680, Max: 920}
	for _, c := range []float64{680, 800, 920} {
		if !b.Contains(c) {
			t.Errorf("Contains(%v) = false", c)
		}
	}
	for _, c := range []float64{679.99, 920.01} {
		if b.Contains(c) {
			t.Errorf("Contains(%v) = true", c)
		}
	}
}
