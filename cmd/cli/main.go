// Package main is the entry point for the solar-estimate CLI.
package main

import (
	"os"

	"solar-estimate/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
