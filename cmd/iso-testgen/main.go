package main

import (
	"fmt"
	"os"

	"github.com/isotest/iso-testgen/cmd/iso-testgen/commands"
)

// Version is the current version of iso-testgen
const Version = "v0.1.0"

func main() {
	commands.SetVersion(Version)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		os.Exit(1)
	}
}
