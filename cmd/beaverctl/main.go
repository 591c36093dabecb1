package main

import (
	"os"

	"github.com/beaver-systems/beaver/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
