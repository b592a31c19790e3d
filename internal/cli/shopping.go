package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"meal-planner/internal/core/shopping"

	"github.com/spf13/cobra"
)

func newShoppingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shopping-list <file|->",
		Short: "Build a shopping list from a saved menu",
		Long:  "Build a shopping list from a menu JSON file ({\"menu\": {day: {meal: recipe}}}). Use - to read stdin.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShoppingList,
	}
}

func runShoppingList(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read menu: %w", err)
	}

	menu, err := shopping.DecodeMenu(raw)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), shopping.Aggregate(menu))
}

func newParseLineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-line <text>",
		Short: "Show how one ingredient line is parsed",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParseLine,
	}
}

type parsedLine struct {
	Line       string  `json:"line"`
	Discarded  bool    `json:"discarded"`
	Name       string  `json:"name,omitempty"`
	Quantity   float64 `json:"quantity,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Unresolved bool    `json:"unresolved,omitempty"`
}

func runParseLine(cmd *cobra.Command, args []string) error {
	line := strings.Join(args, " ")
	out := parsedLine{Line: line}

	ing, ok := shopping.ParseLine(line)
	if !ok {
		out.Discarded = true
	} else {
		out.Name = ing.Name
		out.Quantity = ing.Quantity
		out.Unit = ing.Unit
		out.Unresolved = ing.Unresolved
	}
	return printJSON(cmd.OutOrStdout(), out)
}
