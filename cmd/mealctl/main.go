package main

import (
	"os"

	"meal-planner/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
