package main

import (
	"os"

	"github.com/atheneum-labs/shelfsearch/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
