// Package cli mealctl 的指令：熱量目標、各餐區間、週菜單與購物清單
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/spf13/cobra"
)

// NewRootCmd 建立 mealctl 指令樹
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mealctl",
		Short:         "Weekly meal planning from the command line",
		Long:          "Resolve calorie targets, allocate meal bands, assemble weekly menus and build shopping lists. Output is JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			if level == "" {
				return nil
			}
			return common.InitLogger(level)
		},
	}
	root.PersistentFlags().String("log-level", "", "Enable logging at this level (debug, info, warn, error)")

	root.AddCommand(
		newTargetCmd(),
		newBandsCmd(),
		newPlanCmd(),
		newShoppingListCmd(),
		newParseLineCmd(),
	)
	return root
}

// Execute 執行 mealctl，錯誤寫到 stderr
func Execute() int {
	defer common.Sync()
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// loadConfig 讀取設定檔與環境變數；驗證失敗時回報錯誤
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// parseRatios 將 --ratio desayuno=0.3 轉為比例表
func parseRatios(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ratios := make(map[string]float64, len(raw))
	for meal, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, common.NewValidationErrorf("ratio for %q is not a number: %q", meal, v)
		}
		ratios[meal] = f
	}
	return ratios, nil
}

// optionalInt 旗標有設定時回傳指標
func optionalInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
