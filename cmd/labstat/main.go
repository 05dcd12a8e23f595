package main

import (
	"os"

	"github.com/wonny/labtrade/cmd/labstat/commands"
)

// main is the entry point for the labstat CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/labstat [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
