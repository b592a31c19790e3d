package config

import "testing"

func TestMaskSecret(t *testing.T) {
	tests := []struct{ key, want string }{
		{"", "****"},
		{"short", "****"},
		{"abcd1234wxyz", "abcd...wxyz"},
	}
	for _, tt := range tests {
		if got := MaskSecret(tt.key); got != tt.want {
			t.Errorf("MaskSecret(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestDefaultPlannerBudgets(t *testing.T) {
	cfg := Default()
	if cfg.Planner.FallbackCalories != 2000 {
		t.Errorf("fallback = %d", cfg.Planner.FallbackCalories)
	}
	if cfg.Planner.Plain.MaxAttempts != 50 || cfg.Planner.Recommended.MaxAttempts != 3 {
		t.Errorf("attempts = %d/%d", cfg.Planner.Plain.MaxAttempts, cfg.Planner.Recommended.MaxAttempts)
	}
}
