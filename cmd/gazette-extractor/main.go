package main

import (
	"os"

	"github.com/spherical/gazette-extractor/cmd/gazette-extractor/commands"
	"github.com/spherical/gazette-extractor/cmd/gazette-extractor/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
