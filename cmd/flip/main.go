package main

import (
	"os"

	"github.com/wonny/steamflip/cmd/flip/commands"
)

// main is the entry point for the steamflip CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/flip [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
