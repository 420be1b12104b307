// Package main provides the entry point for the concierge bot.
package main

import (
	"fmt"
	"os"

	"github.com/sancris/concierge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
