// Package main is the entry point for the ebill CLI.
package main

import (
	"os"

	"ebill/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
