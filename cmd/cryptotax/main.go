package main

import (
	"os"

	"github.com/cryptotax-dev/cryptotax/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
