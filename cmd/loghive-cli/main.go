// Package main provides the entry point for loghive-cli.
//
// loghive-cli mines log templates locally, inspects snapshot files and
// queries a running loghive-server.
package main

import (
	"fmt"
	"os"

	"github.com/ohrn/loghive-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
