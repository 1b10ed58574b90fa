// Package main is the entry point for the sver CLI tool.
package main

import (
	"os"

	"github.com/mitoma/sver/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
