// Package main is the gitrecap entry point.
package main

import (
	"fmt"
	"os"

	"gitrecap/commands"
)

// Build identification, overridden at link time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := commands.NewRootCommand(version, commit, date).Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
