package main

import (
	"os"

	"github.com/Online-Ugyvitel/ddata-core/cmd/ddata/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
