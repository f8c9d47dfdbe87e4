package main

import (
	"os"
	_ "time/tzdata"

	"eino_grocery_bot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
