package nutrition

import (
	"math"
	"testing"

	"meal-planner/internal/pkg/common"
)

func intPtr(v int) *int { return &v }

func TestResolveFromProfile(t *testing.T) {
	r := Resolver{}
	got, err := r.Resolve(nil, &Profile{BMR: 1500, Activity: "moderado", Goal: "bajar de peso"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Calories != 1825 {
		t.Errorf("calories = %d, want 1825", got.Calories)
	}
	if math.Abs(got.TDEE-2325) > 1e-6 {
		t.Errorf("tdee = %v, want 2325", got.TDEE)
	}
	if got.Floored || got.FromOverride {
		t.Errorf("unexpected flags: %+v", got)
	}
}

func TestResolveFloorsComputedTarget(t *testing.T) {
	got, err := Resolver{}.Resolve(nil, &Profile{BMR: 1000, Activity: "sedentario", Goal: "bajar de peso"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Calories != MinDailyCalories || !got.Floored {
		t.Errorf("got %+v, want floored at %d", got, MinDailyCalories)
	}
}

func TestResolveOverrideIsNotFloored(t *testing.T) {
	got, err := Resolver{}.Resolve(intPtr(900), &Profile{BMR: 1500, Activity: "moderado", Goal: "mantener"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Calories != 900 || !got.FromOverride {
		t.Errorf("got %+v, want override 900", got)
	}
}

func TestResolveRejectsNonPositiveOverride(t *testing.T) {
	for _, v := range []int{0, -100} {
		_, err := Resolver{Fallback: 2000}.Resolve(intPtr(v), nil)
		if !common.IsValidationError(err) {
			t.Errorf("override %d: err = %v, want validation error", v, err)
		}
	}
}

func TestResolveMissingProfile(t *testing.T) {
	cases := []struct {
		name    string
		profile *Profile
	}{
		{"nil", nil},
		{"no bmr", &Profile{Activity: "moderado", Goal: "mantener"}},
		{"no activity", &Profile{BMR: 1500, Goal: "mantener"}},
		{"no goal", &Profile{BMR: 1500, Activity: "moderado"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := (Resolver{}).Resolve(nil, tc.profile); !common.IsValidationError(err) {
				t.Errorf("err = %v, want validation error", err)
			}
			got, err := Resolver{Fallback: 2000}.Resolve(nil, tc.profile)
			if err != nil || got.Calories != 2000 {
				t.Errorf("with fallback got %+v, %v", got, err)
			}
		})
	}
}

func TestActivityAndGoalTables(t *testing.T) {
	if f := ActivityFactor("  Muy   Intenso "); f != 1.9 {
		t.Errorf("ActivityFactor = %v, want 1.9", f)
	}
	if f := ActivityFactor("couch potato"); f != DefaultActivityFactor {
		t.Errorf("unknown activity = %v, want %v", f, DefaultActivityFactor)
	}
	if a := GoalAdjustment("Subir de peso"); a != 300 {
		t.Errorf("GoalAdjustment = %d, want 300", a)
	}
	if a := GoalAdjustment("mantener"); a != 0 {
		t.Errorf("maintenance adjustment = %d, want 0", a)
	}
}

func TestBMR(t *testing.T) {
	male, err := BMR("masculino", 70, 175, 30)
	if err != nil {
		t.Fatalf("BMR: %v", err)
	}
	// 88.362 + 937.79 + 839.825 - 170.31
	if male != 1696 {
		t.Errorf("male BMR = %d, want 1696", male)
	}
	female, err := BMR("femenino", 60, 165, 25)
	if err != nil {
		t.Fatalf("BMR: %v", err)
	}
	// 447.593 + 554.82 + 511.17 - 108.25
	if female != 1405 {
		t.Errorf("female BMR = %d, want 1405", female)
	}
	if _, err := BMR("otro", 60, 165, 25); !common.IsValidationError(err) {
		t.Errorf("unknown sex err = %v", err)
	}
	if _, err := BMR("male", 0, 165, 25); !common.IsValidationError(err) {
		t.Errorf("zero weight err = %v", err)
	}
}
