// Command readme-agent analyses a repository and generates its README.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/readme-agent/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; variables may come from the shell.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetRuntimeFactory(newRuntime)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
