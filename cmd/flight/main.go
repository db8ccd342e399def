// Package main provides the CLI entrypoint for flight.
package main

import (
	"os"

	"github.com/Lattice-Works/Portland-PD/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
