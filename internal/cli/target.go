package cli

import (
	"meal-planner/internal/core/menu"
	"meal-planner/internal/core/nutrition"

	"github.com/spf13/cobra"
)

func newTargetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Resolve the daily calorie target",
		Long:  "Resolve the daily calorie target from --calories, or from --bmr, --activity and --goal.",
		Args:  cobra.NoArgs,
		RunE:  runTarget,
	}
	cmd.Flags().Int("calories", 0, "Explicit daily calories (overrides the profile)")
	cmd.Flags().Float64("bmr", 0, "Basal metabolic rate")
	cmd.Flags().String("activity", "", "Activity level: sedentario, ligero, moderado, intenso, muy intenso")
	cmd.Flags().String("goal", "", "Goal: bajar de peso, mantener, subir de peso")
	return cmd
}

func runTarget(cmd *cobra.Command, args []string) error {
	bmr, _ := cmd.Flags().GetFloat64("bmr")
	activity, _ := cmd.Flags().GetString("activity")
	goal, _ := cmd.Flags().GetString("goal")

	target, err := nutrition.Resolver{}.Resolve(optionalInt(cmd, "calories"), &nutrition.Profile{
		BMR:      bmr,
		Activity: activity,
		Goal:     goal,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), target)
}

func newBandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Allocate per-meal calorie bands",
		Args:  cobra.NoArgs,
		RunE:  runBands,
	}
	cmd.Flags().Int("calories", 0, "Daily calories (required)")
	cmd.Flags().StringToString("ratio", nil, "Meal ratio, e.g. --ratio desayuno=0.3 (default desayuno/comida/cena 0.3/0.4/0.3)")
	cmd.Flags().Bool("recommended", false, "Use the wider recommended-plan bands")
	cmd.MarkFlagRequired("calories")
	return cmd
}

func runBands(cmd *cobra.Command, args []string) error {
	calories, _ := cmd.Flags().GetInt("calories")
	rawRatios, _ := cmd.Flags().GetStringToString("ratio")
	recommended, _ := cmd.Flags().GetBool("recommended")

	ratios, err := parseRatios(rawRatios)
	if err != nil {
		return err
	}
	if len(ratios) == 0 {
		ratios = menu.DefaultRatios()
	}

	profile := nutrition.PlainBands
	if recommended {
		profile = nutrition.RecommendedBands
	}
	bands, err := nutrition.Allocate(calories, ratios, profile)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), nutrition.SortedBands(bands))
}
