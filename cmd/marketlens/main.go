package main

import (
	"os"

	"github.com/marketlens/backend/cmd/marketlens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
