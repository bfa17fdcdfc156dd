// Package main provides the sqlframe CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlframe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
