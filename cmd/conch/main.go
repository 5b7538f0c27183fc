// Package main is the entry point for the conch shell.
package main

import (
	"os"

	"github.com/conch-sh/conch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
