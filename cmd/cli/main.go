// Package main is the entry point for the recipe-cost CLI.
package main

import (
	"os"

	"recipe-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
