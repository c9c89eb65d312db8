package main

import (
	"os"

	"github.com/b3data/ettj/cmd/ettj/commands"
)

// main is the entry point for the ettj CLI: go run ./cmd/ettj [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
