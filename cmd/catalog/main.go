package main

import (
	"os"

	"github.com/talkincode/catalog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
