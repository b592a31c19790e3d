package nutrition

import (
	"math"
	"strings"

	"meal-planner/internal/pkg/common"
)

// BMR 以 Harris-Benedict 公式計算基礎代謝率
func BMR(sex string, weightKg, heightCm float64, ageYears int) (int, error) {
	if weightKg <= 0 || heightCm <= 0 || ageYears <= 0 {
		return 0, common.NewValidationError("weight, height and age must be positive")
	}
	w, h, a := weightKg, heightCm, float64(ageYears)

	var bmr float64
	switch strings.ToLower(strings.TrimSpace(sex)) {
	case "masculino", "male", "m":
		bmr = 88.362 + 13.397*w + 4.799*h - 5.677*a
	case "femenino", "female", "f":
		bmr = 447.593 + 9.247*w + 3.098*h - 4.330*a
	default:
		return 0, common.NewValidationErrorf("unsupported sex %q", sex)
	}
	return int(math.Round(bmr)), nil
}
