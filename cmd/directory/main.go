package main

import (
	"os"

	"company-directory/cmd/directory/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
