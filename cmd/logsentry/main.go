// Package main is the entry point for the logsentry CLI.
package main

import (
	"os"

	"github.com/logsentry/logsentry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
