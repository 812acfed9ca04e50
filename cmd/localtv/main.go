// Package main is the entry point for the localtv application.
package main

import (
	"os"

	"github.com/jmylchreest/localtv/cmd/localtv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
