// Package main is the entry point for the alumnet CLI application.
package main

import (
	"alumnet/cli/cmd"
)

// main is the entry point for the alumnet CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
