package main

import (
	"os"

	"github.com/bimmerbailey/clpack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
