package main

import (
	"os"

	"seedlink/cmd/seedlink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
