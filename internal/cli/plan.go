package cli

import (
	"fmt"

	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/menu"
	"meal-planner/internal/core/nutrition"

	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Assemble a weekly menu from the Edamam catalog",
		Long:  "Assemble a weekly menu. Requires EDAMAM_APP_ID and EDAMAM_APP_KEY (environment, .env or config.yaml).",
		Args:  cobra.NoArgs,
		RunE:  runPlan,
	}
	cmd.Flags().Int("calories", 0, "Daily calories (default: planner.fallback_calories)")
	cmd.Flags().String("diet", "", "Diet label, e.g. balanced, low-carb")
	cmd.Flags().StringSlice("health", nil, "Health labels, e.g. vegetarian,gluten-free")
	cmd.Flags().StringSlice("excluded", nil, "Ingredients to exclude")
	cmd.Flags().StringSlice("included", nil, "Keywords every recipe must match")
	cmd.Flags().IntP("options", "n", menu.DefaultOptionsPerMeal, "Options per meal (1-4)")
	cmd.Flags().StringSlice("meals", nil, "Meals in order (default desayuno,comida,cena)")
	cmd.Flags().StringToString("ratio", nil, "Meal ratio, e.g. --ratio desayuno=0.3")
	return cmd
}

// planOutput 與 HTTP 回應相同的欄位
type planOutput struct {
	Target   nutrition.Target `json:"target"`
	Bands    []nutrition.Band `json:"bands"`
	Keywords []string         `json:"keywords,omitempty"`
	Menu     *menu.WeeklyPlan `json:"menu"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := catalog.NewEdamamClient(cfg.Edamam)
	if !client.Configured() {
		return fmt.Errorf("edamam credentials are not configured")
	}

	req, err := planRequestFromFlags(cmd)
	if err != nil {
		return err
	}

	plan, err := menu.NewPlanner(client, cfg.Planner).AssembleWeeklyPlan(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), planOutput{
		Target:   plan.Target,
		Bands:    nutrition.SortedBands(plan.Bands),
		Keywords: plan.Keywords,
		Menu:     plan,
	})
}

func planRequestFromFlags(cmd *cobra.Command) (menu.PlanRequest, error) {
	diet, _ := cmd.Flags().GetString("diet")
	health, _ := cmd.Flags().GetStringSlice("health")
	excluded, _ := cmd.Flags().GetStringSlice("excluded")
	included, _ := cmd.Flags().GetStringSlice("included")
	options, _ := cmd.Flags().GetInt("options")
	meals, _ := cmd.Flags().GetStringSlice("meals")
	rawRatios, _ := cmd.Flags().GetStringToString("ratio")

	ratios, err := parseRatios(rawRatios)
	if err != nil {
		return menu.PlanRequest{}, err
	}

	req := menu.PlanRequest{
		Calories:   optionalInt(cmd, "calories"),
		Diet:       diet,
		Health:     health,
		Excluded:   excluded,
		Included:   included,
		NumOptions: options,
		Meals:      meals,
		MealRatios: ratios,
	}.WithDefaults()
	return req, req.Validate()
}
