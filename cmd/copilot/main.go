package main

import (
	"os"

	"github.com/aquaflow/copilot/cmd/copilot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
