// Command hermes is the CLI entry point for Hermes: a local knowledge-
// graph engine serving pointer-based retrieval to an AI coding assistant.
package main

import (
	"os"

	"github.com/hermeskg/hermes/cmd/hermes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
