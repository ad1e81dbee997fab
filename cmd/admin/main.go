package main

import (
	"os"

	"github.com/jhoicas/biashara-api/cmd/admin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
